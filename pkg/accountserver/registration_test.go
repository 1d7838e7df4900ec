package accountserver

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *ecdsa.PublicKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return &priv.PublicKey
}

func TestRegisterCreatesWallet(t *testing.T) {
	repo := NewMemoryWalletUserRepository()
	registrar := NewRegistrar(repo)

	hwKey := newTestKey(t)
	pinKey := newTestKey(t)

	walletID, err := registrar.Register(context.Background(), RegistrationRequest{
		HardwareVerifyingKey: hwKey,
		PinVerifyingKey:      pinKey,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, walletID)

	user, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, hwKey, user.HardwareVerifyingKey)
	assert.Equal(t, pinKey, user.PinVerifyingKey)
}

func TestPinChangeStartCommitSwapsKey(t *testing.T) {
	repo := NewMemoryWalletUserRepository()
	registrar := NewRegistrar(repo)
	changer := NewPinChanger(repo)

	oldPinKey := newTestKey(t)
	walletID, err := registrar.Register(context.Background(), RegistrationRequest{
		HardwareVerifyingKey: newTestKey(t),
		PinVerifyingKey:      oldPinKey,
	})
	require.NoError(t, err)
	user, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)

	newPinKey := newTestKey(t)
	require.NoError(t, changer.Start(context.Background(), user, newPinKey))

	state, ok := changer.State(walletID)
	require.True(t, ok)
	assert.Equal(t, ChangePinStarted, state.Phase)
	assert.Equal(t, oldPinKey, state.PreviousPinKey)

	require.NoError(t, changer.Commit(context.Background(), user))
	assert.Equal(t, newPinKey, user.PinVerifyingKey)

	saved, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, newPinKey, saved.PinVerifyingKey)

	_, ok = changer.State(walletID)
	assert.False(t, ok)
}

func TestPinChangeRollbackKeepsOldKey(t *testing.T) {
	repo := NewMemoryWalletUserRepository()
	registrar := NewRegistrar(repo)
	changer := NewPinChanger(repo)

	oldPinKey := newTestKey(t)
	walletID, err := registrar.Register(context.Background(), RegistrationRequest{
		HardwareVerifyingKey: newTestKey(t),
		PinVerifyingKey:      oldPinKey,
	})
	require.NoError(t, err)
	user, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)

	require.NoError(t, changer.Start(context.Background(), user, newTestKey(t)))
	require.NoError(t, changer.Rollback(context.Background(), user))

	assert.Equal(t, oldPinKey, user.PinVerifyingKey)
	_, ok := changer.State(walletID)
	assert.False(t, ok)
}

func TestPinChangeCannotStartTwiceConcurrently(t *testing.T) {
	repo := NewMemoryWalletUserRepository()
	registrar := NewRegistrar(repo)
	changer := NewPinChanger(repo)

	walletID, err := registrar.Register(context.Background(), RegistrationRequest{
		HardwareVerifyingKey: newTestKey(t),
		PinVerifyingKey:      newTestKey(t),
	})
	require.NoError(t, err)
	user, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)

	require.NoError(t, changer.Start(context.Background(), user, newTestKey(t)))
	err = changer.Start(context.Background(), user, newTestKey(t))
	assert.ErrorIs(t, err, ErrPinChangeInProgress)
}

func TestPinChangeCommitWithoutStartFails(t *testing.T) {
	repo := NewMemoryWalletUserRepository()
	registrar := NewRegistrar(repo)
	changer := NewPinChanger(repo)

	walletID, err := registrar.Register(context.Background(), RegistrationRequest{
		HardwareVerifyingKey: newTestKey(t),
		PinVerifyingKey:      newTestKey(t),
	})
	require.NoError(t, err)
	user, err := repo.Find(context.Background(), walletID)
	require.NoError(t, err)

	err = changer.Commit(context.Background(), user)
	assert.ErrorIs(t, err, ErrPinChangeNotStarted)
}
