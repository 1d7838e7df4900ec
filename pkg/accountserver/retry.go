package accountserver

import "time"

// RetryPolicy describes the PIN retry back-off schedule: once the
// number of consecutive failed PIN attempts reaches a tier's threshold,
// the wallet must wait the tier's cooldown before retrying again; once
// the final threshold is reached the wallet is locked until an operator
// or the unblock flow intervenes.
type RetryPolicy struct {
	Tiers []RetryTier
	// LockoutThreshold is the attempt count at which the wallet is
	// permanently blocked (until explicit unblocking), rather than
	// merely delayed.
	LockoutThreshold int
}

// RetryTier is one step of the back-off schedule.
type RetryTier struct {
	Attempts int
	Cooldown time.Duration
}

// DefaultRetryPolicy is the three-tier schedule used when no policy is
// configured: a short cooldown after 3 failures, a longer one after 5,
// and a hard lock at 8.
var DefaultRetryPolicy = RetryPolicy{
	Tiers: []RetryTier{
		{Attempts: 3, Cooldown: 1 * time.Second},
		{Attempts: 5, Cooldown: 30 * time.Second},
	},
	LockoutThreshold: 8,
}

// RetryState tracks a single wallet's PIN attempt history.
type RetryState struct {
	FailedAttempts int
	LockedUntil    time.Time
	Blocked        bool
}

// RegisterFailure records a failed PIN attempt and returns the updated
// state, applying the policy's cooldown/lockout schedule.
func (p RetryPolicy) RegisterFailure(state RetryState, now time.Time) RetryState {
	state.FailedAttempts++

	if p.LockoutThreshold > 0 && state.FailedAttempts >= p.LockoutThreshold {
		state.Blocked = true
		return state
	}

	var cooldown time.Duration
	for _, tier := range p.Tiers {
		if state.FailedAttempts >= tier.Attempts {
			cooldown = tier.Cooldown
		}
	}
	if cooldown > 0 {
		state.LockedUntil = now.Add(cooldown)
	}
	return state
}

// RegisterSuccess resets the attempt counter and any cooldown.
func (p RetryPolicy) RegisterSuccess(state RetryState) RetryState {
	return RetryState{}
}

// CheckAllowed returns nil if a PIN attempt may proceed now, or an
// error describing why it is currently blocked.
func (p RetryPolicy) CheckAllowed(state RetryState, now time.Time) error {
	if state.Blocked {
		return ErrWalletBlocked
	}
	if now.Before(state.LockedUntil) {
		return ErrWalletInCooldown
	}
	return nil
}
