package attestedkey

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultAndroidCRLURL is Google's published Android Key Attestation
// certificate status list.
const DefaultAndroidCRLURL = "https://android.googleapis.com/attestation/status"

// CRLStatus is the revocation status of a single certificate serial.
type CRLStatus string

const (
	CRLStatusRevoked   CRLStatus = "REVOKED"
	CRLStatusSuspended CRLStatus = "SUSPENDED"
)

// CRLEntry is one serial's entry in the Android attestation status list.
type CRLEntry struct {
	Status  CRLStatus `json:"status"`
	Expires *string   `json:"expires,omitempty"`
	Reason  *string   `json:"reason,omitempty"`
	Comment *string   `json:"comment,omitempty"`
}

type crlDocument struct {
	Entries map[string]CRLEntry `json:"entries"`
}

// AndroidRevocationList fetches and caches the Android Key Attestation
// status list, refreshing it at most once per TTL.
type AndroidRevocationList struct {
	url        string
	httpClient *http.Client
	cache      *ttlcache.Cache[string, map[string]CRLEntry]
	ttl        time.Duration
}

const crlCacheKey = "crl"

// NewAndroidRevocationList constructs a revocation list client that
// caches the fetched status document for ttl (0 selects one hour,
// matching the "Cache-Control: max-age=3600" Google serves).
func NewAndroidRevocationList(httpClient *http.Client, ttl time.Duration) *AndroidRevocationList {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	cache := ttlcache.New[string, map[string]CRLEntry](
		ttlcache.WithTTL[string, map[string]CRLEntry](ttl),
	)
	go cache.Start()
	return &AndroidRevocationList{
		url:        DefaultAndroidCRLURL,
		httpClient: httpClient,
		cache:      cache,
		ttl:        ttl,
	}
}

// WithURL overrides the status-list URL, for testing against a mock server.
func (l *AndroidRevocationList) WithURL(url string) *AndroidRevocationList {
	l.url = url
	return l
}

// Stop stops the cache's background expiration goroutine.
func (l *AndroidRevocationList) Stop() {
	l.cache.Stop()
}

func (l *AndroidRevocationList) fetch(ctx context.Context) (map[string]CRLEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attestedkey: fetch android crl: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attestedkey: android crl returned status %d", resp.StatusCode)
	}

	var doc crlDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("attestedkey: decode android crl: %w", err)
	}

	normalized := make(map[string]CRLEntry, len(doc.Entries))
	for serialHex, entry := range doc.Entries {
		serial, ok := new(big.Int).SetString(serialHex, 16)
		if !ok {
			continue
		}
		normalized[serial.String()] = entry
	}
	return normalized, nil
}

func (l *AndroidRevocationList) entries(ctx context.Context) (map[string]CRLEntry, error) {
	if item := l.cache.Get(crlCacheKey); item != nil {
		return item.Value(), nil
	}
	entries, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(crlCacheKey, entries, l.ttl)
	return entries, nil
}

// RevokedEntry pairs a certificate from the checked chain with its
// revocation-list entry.
type RevokedEntry struct {
	Certificate *x509.Certificate
	Entry       CRLEntry
}

// CheckChain returns the entries in chain that appear on the Android
// Key Attestation status list, in chain order. An empty, nil-error
// result means none of the certificates are revoked or suspended.
func (l *AndroidRevocationList) CheckChain(ctx context.Context, chain []*x509.Certificate) ([]RevokedEntry, error) {
	entries, err := l.entries(ctx)
	if err != nil {
		return nil, err
	}

	var revoked []RevokedEntry
	for _, cert := range chain {
		if cert.SerialNumber == nil {
			continue
		}
		if entry, ok := entries[cert.SerialNumber.String()]; ok {
			revoked = append(revoked, RevokedEntry{Certificate: cert, Entry: entry})
		}
	}
	return revoked, nil
}

// VerifyNotRevoked is a convenience wrapper that returns ErrRevoked if
// any certificate in chain is REVOKED. SUSPENDED entries are returned
// via revoked but do not themselves trigger ErrRevoked, since a
// suspension is a softer, reviewable state than outright revocation.
func (l *AndroidRevocationList) VerifyNotRevoked(ctx context.Context, chain []*x509.Certificate) (revoked []RevokedEntry, err error) {
	revoked, err = l.CheckChain(ctx, chain)
	if err != nil {
		return nil, err
	}
	for _, r := range revoked {
		if r.Entry.Status == CRLStatusRevoked {
			return revoked, ErrRevoked
		}
	}
	return revoked, nil
}
