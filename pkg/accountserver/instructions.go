package accountserver

import (
	"context"
	"crypto/ecdsa"
	"fmt"
)

// WalletUser identifies a registered wallet and its known verification
// keys (hardware + PIN) plus its current sequence number.
type WalletUser struct {
	ID               string
	HardwareVerifyingKey *ecdsa.PublicKey
	PinVerifyingKey       *ecdsa.PublicKey
	SequenceNumber        uint64
	Retry                 RetryState
}

// KeyStore generates and uses wrapped signing keys on behalf of wallets,
// standing in for the HSM the production account server delegates to.
// Identifiers are opaque strings chosen by the account server at
// generation time and referenced by the wallet in later Sign calls.
type KeyStore interface {
	// GenerateKeys creates len(identifiers) fresh keys for walletID, one
	// per identifier, returning each key's public key in the same order.
	GenerateKeys(ctx context.Context, walletID string, identifiers []string) ([]*ecdsa.PublicKey, error)
	// SignMultiple signs each payload under its associated key
	// identifier, previously created via GenerateKeys for walletID.
	SignMultiple(ctx context.Context, walletID string, payloads map[string][]byte) (map[string][]byte, error)
}

// WalletUserRepository persists WalletUser records and their generated
// key public material.
type WalletUserRepository interface {
	Find(ctx context.Context, walletID string) (*WalletUser, error)
	Save(ctx context.Context, user *WalletUser) error
	SaveKeys(ctx context.Context, walletID string, identifiers []string, publicKeys []*ecdsa.PublicKey) error
	FindKeys(ctx context.Context, walletID string, identifiers []string) ([]string, error)
}

// CheckPinResult is the (empty) result of a CheckPin instruction: its
// only effect is confirming the PIN/hardware double-signature verified
// and resetting the retry counter.
type CheckPinResult struct{}

// GenerateKeyResult carries the public keys generated for a
// GenerateKey instruction, keyed by the identifier the wallet supplied.
type GenerateKeyResult struct {
	PublicKeys map[string]*ecdsa.PublicKey `json:"public_keys"`
}

// SignResult carries the signatures produced for a Sign instruction,
// keyed by the identifier the wallet supplied.
type SignResult struct {
	SignaturesByIdentifier map[string][]byte `json:"signatures_by_identifier"`
}

// GenerateKeyPayload requests len(Identifiers) fresh keys.
type GenerateKeyPayload struct {
	Identifiers []string `json:"identifiers"`
}

// SignPayload requests signatures over each entry's DataToSign under
// the key identified by its Identifier.
type SignPayload struct {
	Messages []SignMessage `json:"messages"`
}

// SignMessage is a single (identifier, payload) pair to sign.
type SignMessage struct {
	Identifier string `json:"identifier"`
	DataToSign []byte `json:"data_to_sign"`
}

// InstructionHandler executes one verified instruction against wallet
// state and a KeyStore, returning the instruction-specific result.
type InstructionHandler struct {
	repo  WalletUserRepository
	store KeyStore
}

// NewInstructionHandler constructs a handler backed by repo and store.
func NewInstructionHandler(repo WalletUserRepository, store KeyStore) *InstructionHandler {
	return &InstructionHandler{repo: repo, store: store}
}

// HandleCheckPin validates that the double-signed envelope already
// verified (by the caller, via ParseAndVerify) and resets the wallet's
// retry counter; CheckPin itself carries no further server-side effect.
func (h *InstructionHandler) HandleCheckPin(ctx context.Context, user *WalletUser) (CheckPinResult, error) {
	user.Retry = DefaultRetryPolicy.RegisterSuccess(user.Retry)
	if err := h.repo.Save(ctx, user); err != nil {
		return CheckPinResult{}, fmt.Errorf("accountserver: save wallet after check_pin: %w", err)
	}
	return CheckPinResult{}, nil
}

// HandleGenerateKey generates one fresh key per requested identifier
// and persists the resulting public keys against the wallet.
func (h *InstructionHandler) HandleGenerateKey(ctx context.Context, user *WalletUser, payload GenerateKeyPayload) (GenerateKeyResult, error) {
	pubKeys, err := h.store.GenerateKeys(ctx, user.ID, payload.Identifiers)
	if err != nil {
		return GenerateKeyResult{}, fmt.Errorf("accountserver: generate keys: %w", err)
	}
	if len(pubKeys) != len(payload.Identifiers) {
		return GenerateKeyResult{}, fmt.Errorf("accountserver: key store returned %d keys for %d identifiers", len(pubKeys), len(payload.Identifiers))
	}

	result := GenerateKeyResult{PublicKeys: make(map[string]*ecdsa.PublicKey, len(payload.Identifiers))}
	for i, id := range payload.Identifiers {
		result.PublicKeys[id] = pubKeys[i]
	}

	if err := h.repo.SaveKeys(ctx, user.ID, payload.Identifiers, pubKeys); err != nil {
		return GenerateKeyResult{}, fmt.Errorf("accountserver: persist generated keys: %w", err)
	}
	return result, nil
}

// HandleSign looks up the wrapped keys referenced by payload and signs
// each associated message, failing the whole instruction if any
// identifier is unknown to this wallet.
func (h *InstructionHandler) HandleSign(ctx context.Context, user *WalletUser, payload SignPayload) (SignResult, error) {
	identifiers := make([]string, len(payload.Messages))
	byIdentifier := make(map[string][]byte, len(payload.Messages))
	for i, m := range payload.Messages {
		identifiers[i] = m.Identifier
		byIdentifier[m.Identifier] = m.DataToSign
	}

	known, err := h.repo.FindKeys(ctx, user.ID, identifiers)
	if err != nil {
		return SignResult{}, fmt.Errorf("accountserver: look up keys: %w", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}
	for _, id := range identifiers {
		if _, ok := knownSet[id]; !ok {
			return SignResult{}, fmt.Errorf("%w: %q", ErrKeyNotFound, id)
		}
	}

	signatures, err := h.store.SignMultiple(ctx, user.ID, byIdentifier)
	if err != nil {
		return SignResult{}, fmt.Errorf("accountserver: sign: %w", err)
	}
	return SignResult{SignaturesByIdentifier: signatures}, nil
}
