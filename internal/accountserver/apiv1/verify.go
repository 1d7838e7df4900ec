package apiv1

import (
	"context"
	"fmt"
	"time"
	"eudiwallet/pkg/accountserver"
)

// verifyInstruction loads walletID, checks it is not PIN-locked, takes
// the challenge most recently issued for instructionName, verifies
// compact against it, and advances the wallet's sequence number on
// success. A verification failure counts as a failed PIN attempt
// against the retry policy, since the PIN layer of the double
// signature is what a brute-force attempt would be probing.
func verifyInstruction[T any](ctx context.Context, c *Client, walletID, instructionName, compact string) (*accountserver.WalletUser, T, error) {
	var zero T

	user, err := c.repo.Find(ctx, walletID)
	if err != nil {
		return nil, zero, err
	}

	if err := c.retryPolicy.CheckAllowed(user.Retry, time.Now()); err != nil {
		return nil, zero, err
	}

	challenge, err := c.challenges.Take(walletID, instructionName)
	if err != nil {
		return nil, zero, err
	}

	payload, err := accountserver.ParseAndVerify[T](
		compact,
		challenge,
		accountserver.LargerThan(user.SequenceNumber),
		user.HardwareVerifyingKey,
		user.PinVerifyingKey,
	)
	if err != nil {
		user.Retry = c.retryPolicy.RegisterFailure(user.Retry, time.Now())
		if saveErr := c.repo.Save(ctx, user); saveErr != nil {
			return nil, zero, fmt.Errorf("apiv1: save retry state after failed verification: %w", saveErr)
		}
		return nil, zero, err
	}

	user.SequenceNumber = payload.SequenceNumber
	if err := c.repo.Save(ctx, user); err != nil {
		return nil, zero, fmt.Errorf("apiv1: advance sequence number: %w", err)
	}

	return user, payload.Payload, nil
}
