package attestedkey

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockBridge is an in-memory Bridge implementation for tests and local
// development, standing in for the native App Attest / Key Attestation
// surface.
type MockBridge struct {
	platform Platform

	mu   sync.Mutex
	keys map[string]*ecdsa.PrivateKey
}

// NewMockBridge constructs a MockBridge for the given platform.
func NewMockBridge(platform Platform) *MockBridge {
	return &MockBridge{platform: platform, keys: make(map[string]*ecdsa.PrivateKey)}
}

func (m *MockBridge) Platform() Platform { return m.platform }

func (m *MockBridge) GenerateIdentifier(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (m *MockBridge) Attest(_ context.Context, identifier string, challenge []byte) (*Attestation, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.keys[identifier] = priv
	m.mu.Unlock()

	switch m.platform {
	case PlatformApple:
		return &Attestation{
			Platform:               PlatformApple,
			AppleAttestationObject: append([]byte("mock-apple-attestation:"), challenge...),
		}, nil
	default:
		return &Attestation{
			Platform: PlatformAndroid,
			AndroidKeyDescription: &KeyDescription{
				AttestationChallenge: challenge,
				KeyMintSecurityLevel: SecurityLevelTrustedEnvironment,
				HardwareEnforced: AuthorizationList{
					RootOfTrust: &RootOfTrust{
						DeviceLocked:      true,
						VerifiedBootState: VerifiedBootStateVerified,
					},
				},
			},
		}, nil
	}
}

func (m *MockBridge) Sign(_ context.Context, identifier string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	priv, ok := m.keys[identifier]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("attestedkey: mock bridge has no key for %q", identifier)
	}
	return priv.Sign(rand.Reader, payload, crypto.SHA256)
}

func (m *MockBridge) PublicKey(_ context.Context, identifier string) (crypto.PublicKey, error) {
	m.mu.Lock()
	priv, ok := m.keys[identifier]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("attestedkey: mock bridge has no key for %q", identifier)
	}
	return &priv.PublicKey, nil
}

func (m *MockBridge) Delete(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, identifier)
	return nil
}
