package openid4vp

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eudiwallet/pkg/sdjwtvc"
)

// HolderState is the phase of a single wallet-driven disclosure, modeled
// after the request/respond shape the original client's VpMessageClient
// trait exposes (get_authorization_request, send_authorization_response,
// send_error): there is no multi-round negotiation, only a single
// request object to satisfy and a single response to post.
type HolderState int

const (
	HolderIdle HolderState = iota
	HolderCompleted
	HolderFailed
)

func (s HolderState) String() string {
	switch s {
	case HolderIdle:
		return "idle"
	case HolderCompleted:
		return "completed"
	case HolderFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrHolderDCQLRequired        = errors.New("openid4vp: request object does not carry a dcql_query")
	ErrHolderNoMatchingCredential = errors.New("openid4vp: no stored credential satisfies a requested query")
	ErrHolderUnsupportedFormat   = errors.New("openid4vp: credential query format is not supported by this holder")
	ErrHolderSessionUsed         = errors.New("openid4vp: disclosure session has already been completed or failed")
)

// HolderKey is a device-bound key usable to produce a Key Binding JWT for
// one stored SD-JWT credential. Implementations delegate Sign back to the
// wallet's account server (or directly to attested hardware), exactly as
// pkg/accountserver's wrapped signers do — private key material never
// enters this package.
type HolderKey interface {
	Identifier() string
	PublicKey() *ecdsa.PublicKey
	Sign(ctx context.Context, digest []byte) ([]byte, error)
}

// SDJWTCredential is one SD-JWT VC held by the wallet, together with the
// device key its KB-JWT confirmation key points at.
type SDJWTCredential struct {
	VCT             string
	IssuerSignedJWT string
	Disclosures     []string
	Key             HolderKey
}

// CredentialStore resolves the stored SD-JWT credential that best
// satisfies a single DCQL credential query. A Disclosure is a full
// disclosure of every selectively-disclosable claim the wallet holds for
// a matched credential; trimming to only the claims a query asks for is
// left to the store, which has the attribute metadata needed to map
// ClaimQuery paths to disclosures.
type CredentialStore interface {
	FindSDJWT(q CredentialQuery) (*SDJWTCredential, bool)
}

// ResponsePoster delivers the encoded Authorization Response (or error)
// to responseURI, returning the Verifier's optional redirect target.
type ResponsePoster interface {
	Post(ctx context.Context, responseURI string, form url.Values) (redirectURI string, err error)
}

// HolderSession carries a single already-parsed Authorization Request
// through credential selection, VP token construction, and posting the
// response.
type HolderSession struct {
	request *RequestObject
	store   CredentialStore
	poster  ResponsePoster

	state HolderState
	err   error
}

// NewHolderSession constructs a session for an already-validated request
// object (signature and client_id trust having been checked upstream by
// the existing request_object.go / validator.go pipeline).
func NewHolderSession(request *RequestObject, store CredentialStore, poster ResponsePoster) *HolderSession {
	return &HolderSession{request: request, store: store, poster: poster, state: HolderIdle}
}

// State reports the session's current phase.
func (s *HolderSession) State() HolderState { return s.state }

// Err returns the error that moved the session to HolderFailed, if any.
func (s *HolderSession) Err() error { return s.err }

// Disclose selects one stored credential per DCQL credential query,
// builds its Key Binding JWT, and posts the Authorization Response to the
// request's response_uri, returning the Verifier's redirect target (if
// any). Only request objects using dcql_query are supported; the older
// presentation_exchange profile is out of scope.
func (s *HolderSession) Disclose(ctx context.Context) (string, error) {
	if s.state != HolderIdle {
		return "", ErrHolderSessionUsed
	}
	if s.request.DCQLQuery == nil || len(s.request.DCQLQuery.Credentials) == 0 {
		return "", s.fail(ErrHolderDCQLRequired)
	}

	presentations := make(map[string]string, len(s.request.DCQLQuery.Credentials))
	for _, query := range s.request.DCQLQuery.Credentials {
		if query.Format != "dc+sd-jwt" {
			return "", s.fail(fmt.Errorf("%w: %q", ErrHolderUnsupportedFormat, query.Format))
		}
		cred, ok := s.store.FindSDJWT(query)
		if !ok {
			return "", s.fail(fmt.Errorf("%w: query %q", ErrHolderNoMatchingCredential, query.ID))
		}
		presentation, err := s.presentSDJWT(ctx, cred)
		if err != nil {
			return "", s.fail(fmt.Errorf("openid4vp: build presentation for query %q: %w", query.ID, err))
		}
		presentations[query.ID] = presentation
	}

	vpToken, err := encodeVPToken(presentations)
	if err != nil {
		return "", s.fail(err)
	}

	form := url.Values{}
	form.Set("vp_token", vpToken)
	if s.request.State != "" {
		form.Set("state", s.request.State)
	}

	redirectURI, err := s.poster.Post(ctx, s.request.ResponseURI, form)
	if err != nil {
		return "", s.fail(fmt.Errorf("openid4vp: post authorization response: %w", err))
	}

	s.state = HolderCompleted
	return redirectURI, nil
}

// encodeVPToken renders the per-query presentation map to the wire form
// of vp_token: a bare string when exactly one credential was requested
// (matching the single-SD-JWT shape ResponseParameters.VPToken already
// assumes elsewhere in this package), or a JSON object keyed by query id
// when the request asked for more than one credential.
func encodeVPToken(presentations map[string]string) (string, error) {
	if len(presentations) == 1 {
		for _, p := range presentations {
			return p, nil
		}
	}
	encoded, err := json.Marshal(presentations)
	if err != nil {
		return "", fmt.Errorf("openid4vp: encode vp_token object: %w", err)
	}
	return string(encoded), nil
}

func (s *HolderSession) fail(err error) error {
	s.state = HolderFailed
	s.err = err
	return err
}

// presentSDJWT appends a Key Binding JWT to cred's disclosed token, bound
// to this request's nonce and client_id, and signed by cred's device key.
// The signature is produced via HolderKey.Sign (ASN.1 DER) and re-encoded
// to JOSE's fixed-width R||S form, for the same reason
// pkg/openid4vci.HolderSession hand-assembles its proof JWTs: neither
// attested nor PIN-derived keys expose a concrete *ecdsa.PrivateKey for
// golang-jwt's built-in ES256 signer to use.
func (s *HolderSession) presentSDJWT(ctx context.Context, cred *SDJWTCredential) (string, error) {
	disclosed := sdjwtvc.Combine(cred.IssuerSignedJWT, cred.Disclosures, "")

	sdHash, err := sdjwtvc.SDHash(disclosed, "sha-256")
	if err != nil {
		return "", fmt.Errorf("compute sd_hash: %w", err)
	}

	header := map[string]any{
		"typ": "kb+jwt",
		"alg": "ES256",
	}
	claims := jwt.MapClaims{
		"nonce":   s.request.Nonce,
		"aud":     s.request.ClientID,
		"iat":     time.Now().Unix(),
		"sd_hash": sdHash,
	}

	signer := &deviceKeySigner{key: cred.Key}
	kbJWT, err := sdjwtvc.SignWithSigner(ctx, header, claims, signer)
	if err != nil {
		return "", fmt.Errorf("sign key binding jwt: %w", err)
	}

	return sdjwtvc.CombineWithKeyBinding(disclosed, kbJWT), nil
}

// deviceKeySigner adapts a HolderKey (ASN.1 DER signatures) to
// sdjwtvc.Signer (fixed-width R||S signatures), the same adaptation
// pkg/openid4vci.HolderSession performs for proof JWTs.
type deviceKeySigner struct {
	key HolderKey
}

func (d *deviceKeySigner) Sign(ctx context.Context, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	der, err := d.key.Sign(ctx, digest[:])
	if err != nil {
		return nil, err
	}
	return asn1DERToFixedRS(der, 32)
}

func (d *deviceKeySigner) Algorithm() string { return "ES256" }
func (d *deviceKeySigner) KeyID() string     { return d.key.Identifier() }
func (d *deviceKeySigner) PublicKey() any     { return d.key.PublicKey() }

type ecdsaSignatureASN1 struct {
	R, S *big.Int
}

func asn1DERToFixedRS(der []byte, size int) ([]byte, error) {
	var sig ecdsaSignatureASN1
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, fmt.Errorf("decode ASN.1 signature: %w", err)
	}
	out := make([]byte, 2*size)
	sig.R.FillBytes(out[:size])
	sig.S.FillBytes(out[size:])
	return out, nil
}
