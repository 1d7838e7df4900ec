// Package attestedkey provides a unified abstraction over Apple App
// Attest keys and Android Key Attestation keys, mirroring the two
// platform attestation models behind a single Handle interface.
//
// Within a process, each key identifier may only be claimed once: the
// package keeps a global registry of identifiers currently in use and
// refuses to hand out a second Handle for the same identifier until the
// first is released.
package attestedkey

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"sync"
)

// Platform identifies which attestation model backs a Handle.
type Platform int

const (
	// PlatformApple indicates the key is backed by Apple App Attest.
	PlatformApple Platform = iota
	// PlatformAndroid indicates the key is backed by Android Key Attestation.
	PlatformAndroid
)

func (p Platform) String() string {
	switch p {
	case PlatformApple:
		return "apple"
	case PlatformAndroid:
		return "android"
	default:
		return "unknown"
	}
}

var (
	// ErrIdentifierInUse is returned when a key identifier is already
	// claimed by another live Handle in this process.
	ErrIdentifierInUse = errors.New("attestedkey: identifier already in use in this process")

	// ErrCounterRegression is returned when an Android key attestation's
	// assertion counter is lower than the last value observed for that
	// identifier. It is surfaced rather than silently accepted, since a
	// regression can mean either a legitimate reinstall (new counter
	// baseline) or a replayed attestation; the caller decides.
	ErrCounterRegression = errors.New("attestedkey: assertion counter regressed")

	// ErrRevoked is returned when the attested key's certificate chain
	// is found on the issuing CA's revocation list.
	ErrRevoked = errors.New("attestedkey: attestation certificate revoked")
)

// Bridge performs the platform-specific operations a Handle delegates
// to: the native App Attest / Key Attestation surface. Production
// binaries provide one bridge implementation per target platform; tests
// use a mock.
type Bridge interface {
	Platform() Platform
	GenerateIdentifier(ctx context.Context) (string, error)
	Attest(ctx context.Context, identifier string, challenge []byte) (*Attestation, error)
	Sign(ctx context.Context, identifier string, payload []byte) ([]byte, error)
	PublicKey(ctx context.Context, identifier string) (crypto.PublicKey, error)
	Delete(ctx context.Context, identifier string) error
}

// Attestation carries the platform-specific attestation evidence
// produced by Bridge.Attest.
type Attestation struct {
	Platform Platform

	// Apple: the raw App Attest attestation object (CBOR).
	AppleAttestationObject []byte

	// Android: the DER certificate chain rooted at the hardware
	// attestation root, leaf-first, and the parsed KeyDescription
	// extracted from the leaf certificate.
	AndroidCertificateChain [][]byte
	AndroidKeyDescription   *KeyDescription
}

var (
	identifiersMu sync.Mutex
	identifiers   = make(map[string]struct{})
)

func claim(identifier string) bool {
	identifiersMu.Lock()
	defer identifiersMu.Unlock()
	if _, taken := identifiers[identifier]; taken {
		return false
	}
	identifiers[identifier] = struct{}{}
	return true
}

func release(identifier string) {
	identifiersMu.Lock()
	defer identifiersMu.Unlock()
	delete(identifiers, identifier)
}

// Handle represents a single attested key claimed for the lifetime of
// the Handle. Close must be called to release the identifier for reuse
// within the process; it is safe to call Close more than once.
type Handle struct {
	bridge     Bridge
	identifier string

	mu       sync.Mutex
	released bool
}

// newHandle claims identifier for bridge, returning ErrIdentifierInUse
// if another live Handle already holds it.
func newHandle(bridge Bridge, identifier string) (*Handle, error) {
	if !claim(identifier) {
		return nil, ErrIdentifierInUse
	}
	return &Handle{bridge: bridge, identifier: identifier}, nil
}

// Identifier returns the key identifier this Handle was created for.
func (h *Handle) Identifier() string { return h.identifier }

// Platform returns which attestation model backs this Handle.
func (h *Handle) Platform() Platform { return h.bridge.Platform() }

// Sign produces a raw signature over payload using the attested key.
func (h *Handle) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	return h.bridge.Sign(ctx, h.identifier, payload)
}

// PublicKey returns the public key of the attested key, where the
// platform exposes one directly (Android; Apple keys are identified by
// their attestation certificate chain instead).
func (h *Handle) PublicKey(ctx context.Context) (crypto.PublicKey, error) {
	return h.bridge.PublicKey(ctx, h.identifier)
}

// Delete asks the platform to delete the underlying key material, then
// releases the identifier.
func (h *Handle) Delete(ctx context.Context) error {
	if err := h.bridge.Delete(ctx, h.identifier); err != nil {
		return err
	}
	return h.Close()
}

// Close releases the identifier, allowing it to be claimed again by a
// subsequent Holder.Attest/AttestedKey call. It mirrors the Rust side's
// Drop-triggered release of the process-global identifier set.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	release(h.identifier)
	h.released = true
	return nil
}

// Holder is the entry point for acquiring attested keys. It wraps a
// single platform Bridge and enforces the process-wide identifier
// uniqueness invariant around it.
type Holder struct {
	bridge Bridge
}

// NewHolder constructs a Holder backed by bridge.
func NewHolder(bridge Bridge) *Holder {
	return &Holder{bridge: bridge}
}

// GenerateIdentifier asks the platform to mint a fresh key identifier.
// It does not claim the identifier; claiming happens in Attest.
func (h *Holder) GenerateIdentifier(ctx context.Context) (string, error) {
	return h.bridge.GenerateIdentifier(ctx)
}

// Attest claims identifier, performs platform key/app attestation
// against challenge, and returns the resulting Handle and evidence. If
// attestation fails, the identifier is released so a retry can reuse it.
func (h *Holder) Attest(ctx context.Context, identifier string, challenge []byte) (*Handle, *Attestation, error) {
	handle, err := newHandle(h.bridge, identifier)
	if err != nil {
		return nil, nil, err
	}

	attestation, err := h.bridge.Attest(ctx, identifier, challenge)
	if err != nil {
		_ = handle.Close()
		return nil, nil, fmt.Errorf("attestedkey: attest %q: %w", identifier, err)
	}
	return handle, attestation, nil
}

// AttestedKey claims an existing, already-attested identifier for use
// (signing, deletion) without repeating attestation.
func (h *Holder) AttestedKey(identifier string) (*Handle, error) {
	return newHandle(h.bridge, identifier)
}
