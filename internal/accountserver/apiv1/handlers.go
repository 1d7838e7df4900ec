package apiv1

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
	"eudiwallet/pkg/accountserver"
)

// Register creates a new wallet account from its hardware-attested and
// PIN-derived public keys.
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error) {
	ctx, span := c.tp.Start(ctx, "apiv1:Register")
	defer span.End()

	hwKey, err := decodePublicKey(req.HardwareVerifyingKey)
	if err != nil {
		return nil, err
	}
	pinKey, err := decodePublicKey(req.PinVerifyingKey)
	if err != nil {
		return nil, err
	}

	walletID, err := c.registrar.Register(ctx, accountserver.RegistrationRequest{
		HardwareVerifyingKey: hwKey,
		PinVerifyingKey:      pinKey,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterReply{WalletID: walletID}, nil
}

// IssueChallenge verifies a hardware-signed challenge request for
// walletID and instructionName and issues the random challenge the
// wallet must echo back in its ChallengeResponse.
func (c *Client) IssueChallenge(ctx context.Context, walletID, instructionName string, req *ChallengeIssueRequest) (*ChallengeIssueReply, error) {
	ctx, span := c.tp.Start(ctx, "apiv1:IssueChallenge")
	defer span.End()

	user, err := c.repo.Find(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := c.retryPolicy.CheckAllowed(user.Retry, time.Now()); err != nil {
		return nil, err
	}

	payload, err := accountserver.ParseChallengeRequest(req.ChallengeRequest, accountserver.LargerThan(user.SequenceNumber), user.HardwareVerifyingKey)
	if err != nil {
		return nil, err
	}
	if payload.InstructionName != instructionName {
		return nil, fmt.Errorf("apiv1: challenge request instruction %q does not match requested instruction %q", payload.InstructionName, instructionName)
	}

	challenge, err := c.challenges.Issue(ctx, walletID, instructionName)
	if err != nil {
		return nil, err
	}

	return &ChallengeIssueReply{Challenge: base64.RawURLEncoding.EncodeToString(challenge)}, nil
}

// CheckPin verifies a double-signed PIN confirmation envelope and
// resets the wallet's retry counter on success.
func (c *Client) CheckPin(ctx context.Context, walletID string, req *InstructionRequest) error {
	ctx, span := c.tp.Start(ctx, "apiv1:CheckPin")
	defer span.End()

	user, _, err := verifyInstruction[struct{}](ctx, c, walletID, instructionCheckPin, req.ChallengeResponse)
	if err != nil {
		return err
	}

	_, err = c.instructions.HandleCheckPin(ctx, user)
	return err
}

// GenerateKey verifies a double-signed key-generation request and
// returns the generated public keys.
func (c *Client) GenerateKey(ctx context.Context, walletID string, req *InstructionRequest) (*GenerateKeyReply, error) {
	ctx, span := c.tp.Start(ctx, "apiv1:GenerateKey")
	defer span.End()

	user, payload, err := verifyInstruction[accountserver.GenerateKeyPayload](ctx, c, walletID, instructionGenerateKey, req.ChallengeResponse)
	if err != nil {
		return nil, err
	}

	result, err := c.instructions.HandleGenerateKey(ctx, user, payload)
	if err != nil {
		return nil, err
	}

	reply := &GenerateKeyReply{PublicKeys: make(map[string]string, len(result.PublicKeys))}
	for id, pub := range result.PublicKeys {
		encoded, err := encodePublicKey(pub)
		if err != nil {
			return nil, err
		}
		reply.PublicKeys[id] = encoded
	}
	return reply, nil
}

// Sign verifies a double-signed signing request and returns the
// signatures produced for each requested message.
func (c *Client) Sign(ctx context.Context, walletID string, req *InstructionRequest) (*SignReply, error) {
	ctx, span := c.tp.Start(ctx, "apiv1:Sign")
	defer span.End()

	user, payload, err := verifyInstruction[accountserver.SignPayload](ctx, c, walletID, instructionSign, req.ChallengeResponse)
	if err != nil {
		return nil, err
	}

	result, err := c.instructions.HandleSign(ctx, user, payload)
	if err != nil {
		return nil, err
	}
	return &SignReply{SignaturesByIdentifier: result.SignaturesByIdentifier}, nil
}

// StartPinChange records a pending PIN key for walletID, beginning a
// two-phase PIN change.
func (c *Client) StartPinChange(ctx context.Context, walletID string, req *PinChangeStartRequest) error {
	ctx, span := c.tp.Start(ctx, "apiv1:StartPinChange")
	defer span.End()

	user, err := c.repo.Find(ctx, walletID)
	if err != nil {
		return err
	}
	newPinKey, err := decodePublicKey(req.NewPinVerifyingKey)
	if err != nil {
		return err
	}
	return c.pinChanger.Start(ctx, user, newPinKey)
}

// CommitPinChange makes the pending PIN key the wallet's sole accepted
// PIN key.
func (c *Client) CommitPinChange(ctx context.Context, walletID string) error {
	ctx, span := c.tp.Start(ctx, "apiv1:CommitPinChange")
	defer span.End()

	user, err := c.repo.Find(ctx, walletID)
	if err != nil {
		return err
	}
	return c.pinChanger.Commit(ctx, user)
}

// RollbackPinChange discards a pending PIN key, leaving the wallet's
// previous PIN key in effect.
func (c *Client) RollbackPinChange(ctx context.Context, walletID string) error {
	ctx, span := c.tp.Start(ctx, "apiv1:RollbackPinChange")
	defer span.End()

	user, err := c.repo.Find(ctx, walletID)
	if err != nil {
		return err
	}
	return c.pinChanger.Rollback(ctx, user)
}

const (
	instructionCheckPin    = "check_pin"
	instructionGenerateKey = "generate_key"
	instructionSign        = "sign"
)
