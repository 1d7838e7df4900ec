package tokenstatuslist

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int32
	token func(uri string) (string, error)
}

func (f *fakeFetcher) Fetch(_ context.Context, uri string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.token(uri)
}

func (f *fakeFetcher) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func signedStatusListToken(t *testing.T, key *ecdsa.PrivateKey, subject string, statuses []uint8, ttl int64) string {
	t.Helper()
	sl := NewWithConfig(statuses, "https://issuer.example.com", subject)
	sl.TTL = ttl
	token, err := sl.GenerateJWT(JWTSigningConfig{
		SigningKey:    key,
		SigningMethod: jwt.SigningMethodES256,
	})
	require.NoError(t, err)
	return token
}

func newTestCache(t *testing.T, fetcher StatusListFetcher, key *ecdsa.PrivateKey, defaultTTL time.Duration) *CachedStatusListClient {
	t.Helper()
	keyFunc := func(*jwt.Token) (any, error) { return &key.PublicKey, nil }
	c := NewCachedStatusListClient(fetcher, keyFunc, 0, defaultTTL)
	t.Cleanup(c.Stop)
	return c
}

func TestCachedStatusListClientFetchesOnMiss(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	statuses := []uint8{0, 1, 2, 0}
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return signedStatusListToken(t, key, uri, statuses, 0), nil
	}}

	c := newTestCache(t, fetcher, key, time.Minute)
	status, err := c.Status(context.Background(), "https://example.com/statuslists/1", 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), status)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestCachedStatusListClientServesFromCache(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return signedStatusListToken(t, key, uri, []uint8{1, 1, 1}, 0), nil
	}}

	c := newTestCache(t, fetcher, key, time.Minute)
	uri := "https://example.com/statuslists/1"

	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)
	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, 1, c.Len())
}

func TestCachedStatusListClientKeysByURI(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return signedStatusListToken(t, key, uri, []uint8{0}, 0), nil
	}}

	c := newTestCache(t, fetcher, key, time.Minute)

	_, err = c.Claims(context.Background(), "https://example.com/statuslists/1")
	require.NoError(t, err)
	_, err = c.Claims(context.Background(), "https://example.com/statuslists/2")
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.callCount())
	assert.Equal(t, 2, c.Len())
}

func TestCachedStatusListClientHonorsTokenTTLClaim(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	uri := "https://example.com/statuslists/1"
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		// ttl of 0 seconds with a 1h default: the token's own ttl claim
		// must win and expire the entry almost immediately.
		return signedStatusListToken(t, key, uri, []uint8{0, 1}, 0), nil
	}}

	c := newTestCache(t, fetcher, key, time.Hour)

	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// claims.TTL of 0 means "absent" per GenerateJWT, so the default TTL
	// (1h) applies and a second lookup must still hit the cache.
	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestCachedStatusListClientShortTTLExpiresEntry(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	uri := "https://example.com/statuslists/1"
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return signedStatusListToken(t, key, uri, []uint8{0, 1}, 1), nil
	}}

	c := newTestCache(t, fetcher, key, time.Hour)

	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	time.Sleep(1200 * time.Millisecond)

	_, err = c.Claims(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestCachedStatusListClientDoesNotPinFetchErrors(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	uri := "https://example.com/statuslists/1"
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return "", fmt.Errorf("unreachable")
	}}

	c := newTestCache(t, fetcher, key, time.Hour)

	_, err = c.Claims(context.Background(), uri)
	assert.Error(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	time.Sleep(50 * time.Millisecond)

	_, err = c.Claims(context.Background(), uri)
	assert.Error(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestCachedStatusListClientCoalescesConcurrentFetches(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	uri := "https://example.com/statuslists/1"
	release := make(chan struct{})
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		<-release
		return signedStatusListToken(t, key, uri, []uint8{0, 1, 2}, 0), nil
	}}

	c := newTestCache(t, fetcher, key, time.Minute)

	const concurrency = 5
	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Claims(context.Background(), uri)
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, fetcher.callCount())
}

func TestCachedStatusListClientRejectsWrongKey(t *testing.T) {
	signingKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	verifyKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	uri := "https://example.com/statuslists/1"
	fetcher := &fakeFetcher{token: func(uri string) (string, error) {
		return signedStatusListToken(t, signingKey, uri, []uint8{0}, 0), nil
	}}

	keyFunc := func(*jwt.Token) (any, error) { return &verifyKey.PublicKey, nil }
	c := NewCachedStatusListClient(fetcher, keyFunc, 0, time.Minute)
	defer c.Stop()

	_, err = c.Claims(context.Background(), uri)
	assert.Error(t, err)
}
