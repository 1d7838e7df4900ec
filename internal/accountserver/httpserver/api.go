package httpserver

import (
	"context"
	"eudiwallet/internal/accountserver/apiv1"
	"eudiwallet/pkg/model"
)

// Apiv1 interface
type Apiv1 interface {
	Register(ctx context.Context, req *apiv1.RegisterRequest) (*apiv1.RegisterReply, error)
	IssueChallenge(ctx context.Context, walletID, instructionName string, req *apiv1.ChallengeIssueRequest) (*apiv1.ChallengeIssueReply, error)
	CheckPin(ctx context.Context, walletID string, req *apiv1.InstructionRequest) error
	GenerateKey(ctx context.Context, walletID string, req *apiv1.InstructionRequest) (*apiv1.GenerateKeyReply, error)
	Sign(ctx context.Context, walletID string, req *apiv1.InstructionRequest) (*apiv1.SignReply, error)
	StartPinChange(ctx context.Context, walletID string, req *apiv1.PinChangeStartRequest) error
	CommitPinChange(ctx context.Context, walletID string) error
	RollbackPinChange(ctx context.Context, walletID string) error

	Health(ctx context.Context) (*model.Status, error)
}
