package openid4vci

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// HolderState is the phase of a single holder-driven issuance session, the
// OpenID4VCI analogue of the ISO 23220-3 provisioning conversation modeled
// by the original client's start_issuance/finish_issuance/stop_issuance.
type HolderState int

const (
	HolderIdle HolderState = iota
	HolderAwaitingToken
	HolderAwaitingCredentials
	HolderCompleted
	HolderFailed
)

func (s HolderState) String() string {
	switch s {
	case HolderIdle:
		return "idle"
	case HolderAwaitingToken:
		return "awaiting_token"
	case HolderAwaitingCredentials:
		return "awaiting_credentials"
	case HolderCompleted:
		return "completed"
	case HolderFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrHolderSessionNotIdle       = errors.New("openid4vci: holder session already started")
	ErrHolderTokenNotReady        = errors.New("openid4vci: no access token obtained yet")
	ErrHolderInvalidCopyCount     = errors.New("openid4vci: copy count must be at least 1")
	ErrHolderNoCredentialsIssued  = errors.New("openid4vci: issuer returned no credentials")
	ErrHolderCredentialCountShort = errors.New("openid4vci: issuer returned fewer credentials than requested")
)

// ProofKey is one device-bound key generated for a single credential copy.
// Implementations wrap an attested or PIN-derived signer reachable only
// through the account server's GenerateKey/Sign instructions — the proof
// key's private material never enters this package.
type ProofKey interface {
	Identifier() string
	PublicKey() *ecdsa.PublicKey
	// Sign returns an ASN.1 DER ECDSA signature over digest, matching the
	// crypto.Signer convention used throughout pkg/accountserver.
	Sign(ctx context.Context, digest []byte) ([]byte, error)
}

// ProofKeyBinder generates the batch of per-copy device keys a
// HolderSession binds its credential proofs to. A production
// implementation calls the wallet's account server GenerateKey
// instruction once per copy and returns keys that delegate Sign back to
// the account server's Sign instruction.
type ProofKeyBinder interface {
	GenerateKeys(ctx context.Context, count int) ([]ProofKey, error)
}

// TokenClient exchanges a pre-authorized or authorization code grant for
// an access token and first c_nonce.
type TokenClient interface {
	RequestToken(ctx context.Context, req TokenRequest) (*TokenResponse, error)
}

// CredentialClient posts a batch credential request and returns the
// issuer's response.
type CredentialClient interface {
	RequestCredentials(ctx context.Context, req BatchCredentialRequest, accessToken string) (*BatchCredentialResponse, error)
}

// IssuedCopy pairs one issued credential with the device key it is bound
// to, so the caller can persist both together.
type IssuedCopy struct {
	Identifier string
	PublicKey  *ecdsa.PublicKey
	Credential Credential
}

// HolderSession drives a single issuance conversation from token request
// through batch credential retrieval, mirroring the state the original
// client's IssuanceSessionState kept between start_issuance and
// finish_issuance: the reply only has to be consulted once, after which
// the session either holds issued copies or a terminal error.
type HolderSession struct {
	issuerIdentifier     string
	format                string
	credentialIdentifier  string
	tokenClient           TokenClient
	credentialClient      CredentialClient
	keyBinder             ProofKeyBinder

	mu     sync.Mutex
	state  HolderState
	token  *TokenResponse
	err    error
	issued []IssuedCopy
}

// NewHolderSession constructs an idle session for issuerIdentifier (the
// credential issuer's identifier, used as the proof JWT audience),
// requesting credentials of format under credentialIdentifier.
func NewHolderSession(issuerIdentifier, format, credentialIdentifier string, tokenClient TokenClient, credentialClient CredentialClient, keyBinder ProofKeyBinder) *HolderSession {
	return &HolderSession{
		issuerIdentifier:    issuerIdentifier,
		format:              format,
		credentialIdentifier: credentialIdentifier,
		tokenClient:          tokenClient,
		credentialClient:     credentialClient,
		keyBinder:            keyBinder,
		state:                HolderIdle,
	}
}

// State reports the session's current phase.
func (s *HolderSession) State() HolderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the session into HolderFailed, if any.
func (s *HolderSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// RequestToken exchanges req for an access token, moving Idle ->
// AwaitingToken -> AwaitingCredentials. It fails the session on error,
// matching start_issuance's behaviour of aborting before any key
// material is generated.
func (s *HolderSession) RequestToken(ctx context.Context, req TokenRequest) error {
	s.mu.Lock()
	if s.state != HolderIdle {
		s.mu.Unlock()
		return ErrHolderSessionNotIdle
	}
	s.state = HolderAwaitingToken
	s.mu.Unlock()

	resp, err := s.tokenClient.RequestToken(ctx, req)
	if err != nil {
		s.fail(fmt.Errorf("openid4vci: request token: %w", err))
		return err
	}

	s.mu.Lock()
	s.token = resp
	s.state = HolderAwaitingCredentials
	s.mu.Unlock()
	return nil
}

// RequestCredentials generates copies device keys, builds one proof JWT
// per key bound to the current c_nonce, and posts a single batch
// credential request — the OpenID4VCI equivalent of finish_issuance's
// keys_and_responses/construct_mdocs fan-out. The session only moves to
// Completed once the issuer has returned at least as many credentials as
// keys were generated; any failure moves it to Failed without losing the
// already-generated keys' identifiers, so the caller can still tell the
// account server which attempted keys to discard.
func (s *HolderSession) RequestCredentials(ctx context.Context, copies int) ([]IssuedCopy, error) {
	if copies < 1 {
		return nil, ErrHolderInvalidCopyCount
	}

	s.mu.Lock()
	if s.state != HolderAwaitingCredentials {
		s.mu.Unlock()
		return nil, ErrHolderTokenNotReady
	}
	token := s.token
	s.mu.Unlock()

	keys, err := s.keyBinder.GenerateKeys(ctx, copies)
	if err != nil {
		s.fail(fmt.Errorf("openid4vci: generate proof keys: %w", err))
		return nil, err
	}

	requests := make([]CredentialRequest, len(keys))
	for i, key := range keys {
		proof, err := s.buildProofJWT(ctx, key, token.CNonce)
		if err != nil {
			s.fail(fmt.Errorf("openid4vci: build proof jwt: %w", err))
			return nil, err
		}
		requests[i] = CredentialRequest{
			Format:               s.format,
			CredentialIdentifier: s.credentialIdentifier,
			Proof:                &Proof{ProofType: "jwt", JWT: proof},
		}
	}

	resp, err := s.credentialClient.RequestCredentials(ctx, BatchCredentialRequest{CredentialRequests: requests}, token.AccessToken)
	if err != nil {
		s.fail(fmt.Errorf("openid4vci: request batch credentials: %w", err))
		return nil, err
	}
	if len(resp.CredentialResponses) == 0 {
		s.fail(ErrHolderNoCredentialsIssued)
		return nil, ErrHolderNoCredentialsIssued
	}
	if len(resp.CredentialResponses) < len(keys) {
		s.fail(ErrHolderCredentialCountShort)
		return nil, ErrHolderCredentialCountShort
	}

	issued := make([]IssuedCopy, len(keys))
	for i, key := range keys {
		creds := resp.CredentialResponses[i].Credentials
		if len(creds) == 0 {
			s.fail(ErrHolderNoCredentialsIssued)
			return nil, ErrHolderNoCredentialsIssued
		}
		issued[i] = IssuedCopy{
			Identifier: key.Identifier(),
			PublicKey:  key.PublicKey(),
			Credential: creds[0],
		}
	}

	s.mu.Lock()
	s.issued = issued
	s.state = HolderCompleted
	s.mu.Unlock()
	return issued, nil
}

// Abort moves the session to Failed unconditionally, the equivalent of
// stop_issuance: the caller is expected to also notify the issuer's end
// session endpoint, which this package leaves to the transport layer.
func (s *HolderSession) Abort(reason error) {
	s.fail(reason)
}

func (s *HolderSession) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == HolderCompleted {
		return
	}
	s.state = HolderFailed
	s.err = err
}

// buildProofJWT signs an OpenID4VCI Appendix F.1 JWT proof over key,
// embedding its public key in the jwk header parameter since the issuer
// has no prior kid registered for a freshly generated device key. The
// signature is produced via key.Sign (ASN.1 DER, the pkg/accountserver
// convention) and re-encoded as the fixed-width R||S pair JOSE ES256
// requires, since neither attested nor PIN-derived keys expose a raw
// *ecdsa.PrivateKey for golang-jwt's built-in signer to use directly.
func (s *HolderSession) buildProofJWT(ctx context.Context, key ProofKey, nonce string) (string, error) {
	header := ProofJWTHeader{
		Alg: "ES256",
		Typ: "openid4vci-proof+jwt",
		Jwk: ecdsaPublicKeyToProofJWK(key.PublicKey()),
	}
	claims := ProofJWTClaims{
		Aud:   s.issuerIdentifier,
		Iat:   time.Now().Unix(),
		Nonce: nonce,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	digest := sha256.Sum256([]byte(signingInput))

	derSig, err := key.Sign(ctx, digest[:])
	if err != nil {
		return "", err
	}
	rs, err := asn1DERToFixedRS(derSig, 32)
	if err != nil {
		return "", err
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(rs), nil
}

func ecdsaPublicKeyToProofJWK(pub *ecdsa.PublicKey) *ProofJWK {
	size := (pub.Curve.Params().BitSize + 7) / 8
	return &ProofJWK{
		Kty: "EC",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(pub.X.FillBytes(make([]byte, size))),
		Y:   base64.RawURLEncoding.EncodeToString(pub.Y.FillBytes(make([]byte, size))),
	}
}

type asn1EcdsaSignature struct {
	R, S *big.Int
}

// asn1DERToFixedRS converts an ASN.1 DER ECDSA signature to the
// fixed-width big-endian R||S encoding required by JOSE ES256 (RFC 7518
// §3.4), zero-padding each component to size bytes.
func asn1DERToFixedRS(der []byte, size int) ([]byte, error) {
	var sig asn1EcdsaSignature
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, fmt.Errorf("openid4vci: decode ASN.1 signature: %w", err)
	}
	out := make([]byte, 2*size)
	sig.R.FillBytes(out[:size])
	sig.S.FillBytes(out[size:])
	return out, nil
}
