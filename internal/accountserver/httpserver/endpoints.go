package httpserver

import (
	"context"
	"eudiwallet/internal/accountserver/apiv1"

	"github.com/gin-gonic/gin"
)

func (s *Service) endpointRegister(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointRegister")
	defer span.End()

	req := &apiv1.RegisterRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	return s.apiv1.Register(ctx, req)
}

func (s *Service) endpointIssueChallenge(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointIssueChallenge")
	defer span.End()

	req := &apiv1.ChallengeIssueRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	return s.apiv1.IssueChallenge(ctx, c.Param("wallet_id"), c.Param("name"), req)
}

func (s *Service) endpointCheckPin(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointCheckPin")
	defer span.End()

	req := &apiv1.InstructionRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.apiv1.CheckPin(ctx, c.Param("wallet_id"), req); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (s *Service) endpointGenerateKey(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointGenerateKey")
	defer span.End()

	req := &apiv1.InstructionRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	return s.apiv1.GenerateKey(ctx, c.Param("wallet_id"), req)
}

func (s *Service) endpointSign(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointSign")
	defer span.End()

	req := &apiv1.InstructionRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	return s.apiv1.Sign(ctx, c.Param("wallet_id"), req)
}

func (s *Service) endpointPinChangeStart(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointPinChangeStart")
	defer span.End()

	req := &apiv1.PinChangeStartRequest{}
	if err := s.httpHelpers.Binding.FastAndSimple(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.apiv1.StartPinChange(ctx, c.Param("wallet_id"), req); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (s *Service) endpointPinChangeCommit(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointPinChangeCommit")
	defer span.End()

	if err := s.apiv1.CommitPinChange(ctx, c.Param("wallet_id")); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (s *Service) endpointPinChangeRollback(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointPinChangeRollback")
	defer span.End()

	if err := s.apiv1.RollbackPinChange(ctx, c.Param("wallet_id")); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (s *Service) endpointHealth(ctx context.Context, c *gin.Context) (any, error) {
	ctx, span := s.tracer.Start(ctx, "httpserver:endpointHealth")
	defer span.End()

	return s.apiv1.Health(ctx)
}
