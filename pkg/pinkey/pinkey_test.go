package pinkey

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarDeterministic(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	pin := []byte("123456")

	d1, err := scalar(salt, pin)
	require.NoError(t, err)
	d2, err := scalar(salt, pin)
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "derivation must be deterministic for the same salt and pin")
}

func TestScalarDiffersByPinAndSalt(t *testing.T) {
	saltA, err := NewSalt()
	require.NoError(t, err)
	saltB, err := NewSalt()
	require.NoError(t, err)

	pinA := []byte("123456")
	pinB := []byte("654321")

	dA, err := scalar(saltA, pinA)
	require.NoError(t, err)
	dB, err := scalar(saltA, pinB)
	require.NoError(t, err)
	assert.NotEqual(t, dA, dB)

	dC, err := scalar(saltB, pinA)
	require.NoError(t, err)
	assert.NotEqual(t, dA, dC)
}

func TestScalarRejectsEmptyPin(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	_, err = scalar(salt, nil)
	assert.ErrorIs(t, err, ErrInvalidPin)
}

func TestScalarInRange(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	d, err := scalar(salt, []byte("000000"))
	require.NoError(t, err)

	qMinusOne := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
	assert.True(t, d.Sign() > 0)
	assert.True(t, d.Cmp(curve.Params().N) < 0)
	assert.True(t, d.Cmp(qMinusOne) <= 0, "d must be <= q-1")
}

func TestSignerSignAndVerify(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	pin := []byte("483920")
	signer := NewSigner(salt).WithPin(pin)

	pub, ok := signer.Public().(*ecdsa.PublicKey)
	require.True(t, ok)

	digest := sha256.Sum256([]byte("challenge-bytes"))
	sig, err := signer.Sign(nil, digest[:], nil)
	require.NoError(t, err)

	assert.True(t, ecdsa.VerifyASN1(pub, digest[:], sig))
}

func TestSignerSamePublicKeyForSamePin(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	pin := []byte("111222")

	pubA, err := PublicKey(salt, pin)
	require.NoError(t, err)
	pubB, err := PublicKey(salt, pin)
	require.NoError(t, err)

	assert.Equal(t, pubA, pubB)
}

func TestSignerWrongPinProducesDifferentSignatureKey(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	correct := NewSigner(salt).WithPin([]byte("111222"))
	wrong := NewSigner(salt).WithPin([]byte("999888"))

	digest := sha256.Sum256([]byte("some-payload"))
	sig, err := correct.Sign(nil, digest[:], nil)
	require.NoError(t, err)

	wrongPub, ok := wrong.Public().(*ecdsa.PublicKey)
	require.True(t, ok)

	assert.False(t, ecdsa.VerifyASN1(wrongPub, digest[:], sig))
}
