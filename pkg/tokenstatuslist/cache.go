package tokenstatuslist

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jellydator/ttlcache/v3"
)

// DefaultStatusListCacheTTL is the fallback TTL applied when a status
// list token carries no ttl claim of its own.
const DefaultStatusListCacheTTL = 5 * time.Minute

// failedFetchTTL is the TTL applied to a failed fetch: effectively
// uncached, so the very next lookup retries rather than pinning an
// error response for the default TTL the way a successful-but-stale
// response is allowed to.
const failedFetchTTL = time.Nanosecond

// StatusListFetcher retrieves the raw JWT status list token published at
// uri. Implementations perform the actual HTTP GET; this package only
// parses and caches the result.
type StatusListFetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

type statusListEntry struct {
	claims *JWTClaims
	err    error
}

// CachedStatusListClient wraps a StatusListFetcher with a bounded,
// TTL-aware cache keyed by status list URI. Concurrent lookups for a URI
// with no cached entry coalesce into a single underlying fetch, the same
// property the original client's moka-based cache provides via
// Cache::get_with.
type CachedStatusListClient struct {
	cache      *ttlcache.Cache[string, statusListEntry]
	fetcher    StatusListFetcher
	keyFunc    jwt.Keyfunc
	defaultTTL time.Duration
	loader     ttlcache.Loader[string, statusListEntry]
}

// NewCachedStatusListClient constructs a client backed by fetcher,
// verifying fetched tokens with keyFunc. capacity bounds the number of
// distinct status list URIs kept in memory (0 means unbounded);
// defaultTTL is used for tokens whose ttl claim is absent or zero.
func NewCachedStatusListClient(fetcher StatusListFetcher, keyFunc jwt.Keyfunc, capacity uint64, defaultTTL time.Duration) *CachedStatusListClient {
	if defaultTTL <= 0 {
		defaultTTL = DefaultStatusListCacheTTL
	}

	opts := []ttlcache.Option[string, statusListEntry]{
		ttlcache.WithTTL[string, statusListEntry](defaultTTL),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, statusListEntry](capacity))
	}

	c := &CachedStatusListClient{
		fetcher:    fetcher,
		keyFunc:    keyFunc,
		defaultTTL: defaultTTL,
	}
	c.cache = ttlcache.New(opts...)

	// Wrapped once (not per Get) so the suppression map it keeps
	// internally actually spans concurrent callers: this is what gives
	// concurrent lookups for the same missing uri the single-fetch
	// property the original client's moka-based Cache::get_with has.
	// The fetch this triggers is shared by every waiter, so it is run
	// with a background context rather than any one caller's ctx -
	// matching the original's behavior of keying the coalesced fetch off
	// whichever caller's future the underlying cache happened to pick.
	c.loader = ttlcache.NewSuppressedLoader(
		ttlcache.LoaderFunc[string, statusListEntry](c.load),
		nil,
	)
	go c.cache.Start()
	return c
}

// Claims returns the parsed, verified status list claims published at
// uri, fetching and caching them if not already cached or if the cached
// entry's TTL (taken from the token's own ttl claim when present) has
// expired.
func (c *CachedStatusListClient) Claims(_ context.Context, uri string) (*JWTClaims, error) {
	item := c.cache.Get(uri, ttlcache.WithLoader(c.loader))
	if item == nil {
		return nil, fmt.Errorf("tokenstatuslist: no cache entry produced for %q", uri)
	}

	entry := item.Value()
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.claims, nil
}

// Status returns the status value at index within the status list
// published at uri.
func (c *CachedStatusListClient) Status(ctx context.Context, uri string, index int) (uint8, error) {
	claims, err := c.Claims(ctx, uri)
	if err != nil {
		return 0, err
	}
	return GetStatusFromJWT(claims, index)
}

func (c *CachedStatusListClient) load(cache *ttlcache.Cache[string, statusListEntry], uri string) *ttlcache.Item[string, statusListEntry] {
	raw, err := c.fetcher.Fetch(context.Background(), uri)
	if err != nil {
		return cache.Set(uri, statusListEntry{err: fmt.Errorf("tokenstatuslist: fetch %q: %w", uri, err)}, failedFetchTTL)
	}

	claims, err := ParseJWT(raw, c.keyFunc)
	if err != nil {
		return cache.Set(uri, statusListEntry{err: fmt.Errorf("tokenstatuslist: parse status list from %q: %w", uri, err)}, failedFetchTTL)
	}

	ttl := c.defaultTTL
	if claims.TTL > 0 {
		ttl = time.Duration(claims.TTL) * time.Second
	}
	return cache.Set(uri, statusListEntry{claims: claims}, ttl)
}

// Stop stops the cache's background expiration goroutine.
func (c *CachedStatusListClient) Stop() {
	c.cache.Stop()
}

// Len returns the number of status lists currently cached.
func (c *CachedStatusListClient) Len() int {
	return c.cache.Len()
}
