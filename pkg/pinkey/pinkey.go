// Package pinkey derives a deterministic ECDSA P-256 signing key from a
// wallet PIN and a per-wallet random salt.
//
// The derivation never stores the PIN or the derived scalar: every
// signing operation re-derives the private scalar from the PIN supplied
// for that operation and discards it once the signature is produced.
package pinkey

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// SaltSize is the length in bytes of a newly generated PIN salt.
const SaltSize = 32

// derivedKeyLength is the number of HKDF output bytes consumed to build
// the scalar: 32 bytes for the P-256 field size plus 8 bytes of extra
// entropy to keep the mod-reduction bias negligible.
const derivedKeyLength = 32 + 8

var curve = elliptic.P256()

// ErrInvalidPin is returned when the PIN is empty.
var ErrInvalidPin = errors.New("pinkey: pin must not be empty")

// NewSalt returns a fresh random salt suitable for deriving a PIN key.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// scalar derives the private scalar for (salt, pin) on P-256.
//
// HKDF-SHA256 is run with ikm=salt, an empty HKDF salt, and info=pin,
// producing derivedKeyLength bytes. The bytes are interpreted as a
// big-endian integer I and reduced to a scalar in [1, q-1] via
// 1 + (I mod (q-1)), where q is the curve order. The add-one step
// avoids ever producing the zero scalar without needing rejection
// sampling.
func scalar(salt, pin []byte) (*big.Int, error) {
	if len(pin) == 0 {
		return nil, ErrInvalidPin
	}
	kdf := hkdf.New(sha256.New, salt, nil, pin)
	derived := make([]byte, derivedKeyLength)
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, err
	}

	q := curve.Params().N
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))

	i := new(big.Int).SetBytes(derived)
	i.Mod(i, qMinusOne)
	i.Add(i, big.NewInt(1))
	return i, nil
}

// PublicKey returns the ECDSA public key corresponding to (salt, pin)
// without retaining the private scalar.
func PublicKey(salt, pin []byte) (*ecdsa.PublicKey, error) {
	d, err := scalar(salt, pin)
	if err != nil {
		return nil, err
	}
	x, y := curve.ScalarBaseMult(d.Bytes())
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// Signer is a crypto.Signer backed by the PIN key. It holds only the
// salt; the PIN is supplied per signing operation via WithPin and is
// never cached.
type Signer struct {
	salt []byte
	pin  []byte
	pub  *ecdsa.PublicKey
}

// NewSigner constructs a Signer for the given salt. Call WithPin before
// Sign to attach the PIN for a single operation.
func NewSigner(salt []byte) *Signer {
	return &Signer{salt: salt}
}

// WithPin returns a Signer bound to pin for exactly the operations
// performed through the returned value. The receiver is left unmodified.
func (s *Signer) WithPin(pin []byte) *Signer {
	return &Signer{salt: s.salt, pin: pin}
}

// Public implements crypto.Signer. It requires WithPin to have been
// called, since the public key depends on the PIN.
func (s *Signer) Public() crypto.PublicKey {
	if s.pub != nil {
		return s.pub
	}
	pub, err := PublicKey(s.salt, s.pin)
	if err != nil {
		return nil
	}
	s.pub = pub
	return pub
}

// Sign implements crypto.Signer. It re-derives the private scalar from
// the salt and the PIN attached via WithPin, signs digest, and discards
// the scalar before returning.
func (s *Signer) Sign(rnd io.Reader, digest []byte, _ crypto.SignerOpts) ([]byte, error) {
	d, err := scalar(s.salt, s.pin)
	if err != nil {
		return nil, err
	}
	priv := new(ecdsa.PrivateKey)
	priv.Curve = curve
	priv.D = d
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())

	if rnd == nil {
		rnd = rand.Reader
	}
	sig, err := ecdsa.SignASN1(rnd, priv, digest)
	d.SetInt64(0)
	return sig, err
}
