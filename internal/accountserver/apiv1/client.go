// Package apiv1 wraps pkg/accountserver's registration and instruction
// protocol as a request/reply API consumed by internal/accountserver/httpserver.
package apiv1

import (
	"context"
	"eudiwallet/pkg/accountserver"
	"eudiwallet/pkg/logger"
	"eudiwallet/pkg/model"
	"eudiwallet/pkg/trace"
)

//	@title		Account Server API
//	@version	0.1.0
//	@BasePath	/accountserver/api/v1

// Client holds the public api object
type Client struct {
	cfg *model.Cfg
	log *logger.Log
	tp  *trace.Tracer

	repo         accountserver.WalletUserRepository
	registrar    *accountserver.Registrar
	instructions *accountserver.InstructionHandler
	pinChanger   *accountserver.PinChanger
	challenges   *accountserver.ChallengeIssuer
	retryPolicy  accountserver.RetryPolicy
}

// New creates a new instance of the public api, backed by repo for wallet
// persistence and store for key generation/signing (an HSM in production,
// accountserver.NewMemoryKeyStore in development).
func New(ctx context.Context, repo accountserver.WalletUserRepository, store accountserver.KeyStore, tp *trace.Tracer, cfg *model.Cfg, logger *logger.Log) (*Client, error) {
	c := &Client{
		cfg:          cfg,
		tp:           tp,
		log:          logger,
		repo:         repo,
		registrar:    accountserver.NewRegistrar(repo),
		instructions: accountserver.NewInstructionHandler(repo, store),
		pinChanger:   accountserver.NewPinChanger(repo),
		challenges:   accountserver.NewChallengeIssuer(),
		retryPolicy:  retryPolicyFromConfig(cfg.AccountServer),
	}

	c.log.Info("Started")

	return c, nil
}

func retryPolicyFromConfig(cfg model.AccountServer) accountserver.RetryPolicy {
	if len(cfg.RetryTiers) == 0 {
		return accountserver.DefaultRetryPolicy
	}

	policy := accountserver.RetryPolicy{LockoutThreshold: cfg.LockoutThreshold}
	for _, tier := range cfg.RetryTiers {
		policy.Tiers = append(policy.Tiers, accountserver.RetryTier{
			Attempts: tier.Attempts,
			Cooldown: tier.Cooldown,
		})
	}
	return policy
}
