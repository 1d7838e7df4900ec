package accountserver

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/google/uuid"
)

// RegistrationRequest is the unsigned data a wallet submits to register
// a new account: its hardware-attested key's public key (evidenced by
// an attestation the caller verifies separately, via pkg/attestedkey)
// and its initial PIN key's public key.
type RegistrationRequest struct {
	HardwareVerifyingKey *ecdsa.PublicKey
	PinVerifyingKey      *ecdsa.PublicKey
}

// Registrar creates new wallet accounts.
type Registrar struct {
	repo WalletUserRepository
}

// NewRegistrar constructs a Registrar backed by repo.
func NewRegistrar(repo WalletUserRepository) *Registrar {
	return &Registrar{repo: repo}
}

// Register creates a new WalletUser for req and persists it, returning
// the newly assigned wallet ID.
func (r *Registrar) Register(ctx context.Context, req RegistrationRequest) (string, error) {
	user := &WalletUser{
		ID:                    uuid.NewString(),
		HardwareVerifyingKey: req.HardwareVerifyingKey,
		PinVerifyingKey:      req.PinVerifyingKey,
	}
	if err := r.repo.Save(ctx, user); err != nil {
		return "", fmt.Errorf("accountserver: save new wallet: %w", err)
	}
	return user.ID, nil
}

// ChangePinPhase identifies where a PIN-change transaction currently
// stands. A PIN change is two-phase so that a crash or lost connection
// between the two phases leaves the account server able to roll back to
// the previous PIN key rather than stranding the wallet with neither
// key accepted.
type ChangePinPhase int

const (
	// ChangePinNone means no PIN change is in progress.
	ChangePinNone ChangePinPhase = iota
	// ChangePinStarted means a new PIN key has been recorded as
	// pending but not yet committed; both the old and new PIN keys
	// are still accepted.
	ChangePinStarted
	// ChangePinCommitted means the new PIN key is now the sole key
	// accepted for this wallet.
	ChangePinCommitted
)

// ChangePinState tracks an in-progress PIN change for a wallet.
type ChangePinState struct {
	Phase          ChangePinPhase
	PendingPinKey  *ecdsa.PublicKey
	PreviousPinKey *ecdsa.PublicKey
}

// PinChanger manages the two-phase PIN-change protocol for a wallet.
type PinChanger struct {
	repo  WalletUserRepository
	store map[string]*ChangePinState
}

// NewPinChanger constructs a PinChanger backed by repo.
func NewPinChanger(repo WalletUserRepository) *PinChanger {
	return &PinChanger{repo: repo, store: make(map[string]*ChangePinState)}
}

// Start records newPinKey as pending for walletID. The wallet's
// existing PIN key remains valid for ChallengeResponse verification
// until Commit or Rollback is called, so an interrupted client can
// retry the change or fall back to the old PIN without being locked
// out.
func (c *PinChanger) Start(ctx context.Context, user *WalletUser, newPinKey *ecdsa.PublicKey) error {
	if existing, ok := c.store[user.ID]; ok && existing.Phase != ChangePinNone {
		return ErrPinChangeInProgress
	}
	c.store[user.ID] = &ChangePinState{
		Phase:          ChangePinStarted,
		PendingPinKey:  newPinKey,
		PreviousPinKey: user.PinVerifyingKey,
	}
	return nil
}

// Commit makes the pending PIN key the wallet's sole accepted PIN key.
func (c *PinChanger) Commit(ctx context.Context, user *WalletUser) error {
	state, ok := c.store[user.ID]
	if !ok || state.Phase != ChangePinStarted {
		return ErrPinChangeNotStarted
	}

	user.PinVerifyingKey = state.PendingPinKey
	if err := c.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("accountserver: commit pin change: %w", err)
	}

	state.Phase = ChangePinCommitted
	delete(c.store, user.ID)
	return nil
}

// Rollback discards the pending PIN key, leaving the wallet's previous
// PIN key as the sole accepted key. Used when the client reports the
// new PIN key could not be confirmed.
func (c *PinChanger) Rollback(ctx context.Context, user *WalletUser) error {
	state, ok := c.store[user.ID]
	if !ok || state.Phase != ChangePinStarted {
		return ErrPinChangeNotStarted
	}
	delete(c.store, user.ID)
	return nil
}

// State returns the in-progress change-PIN state for walletID, if any.
func (c *PinChanger) State(walletID string) (ChangePinState, bool) {
	state, ok := c.store[walletID]
	if !ok {
		return ChangePinState{}, false
	}
	return *state, true
}
