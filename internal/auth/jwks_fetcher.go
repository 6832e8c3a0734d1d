package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CachedJWKSFetcher fetches and caches the identity provider's JWKS.
// The provider serves its signing keys at {issuer}/.well-known/jwks.json;
// keys rotate rarely, so a TTL cache with refresh-on-unknown-kid is enough.
type CachedJWKSFetcher struct {
	issuer     string
	httpClient *http.Client
	cached     *JWKS
	expiresAt  time.Time
	cacheTTL   time.Duration
	mu         sync.RWMutex
}

// NewCachedJWKSFetcher creates a JWKS fetcher for the given issuer
func NewCachedJWKSFetcher(issuer string, cacheTTL time.Duration) *CachedJWKSFetcher {
	return &CachedJWKSFetcher{
		issuer: issuer,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cacheTTL: cacheTTL,
	}
}

// FetchPublicKey fetches the public key the given token was signed with.
// Implements KeyFetcher.
func (f *CachedJWKSFetcher) FetchPublicKey(ctx context.Context, token string) (interface{}, error) {
	kid, err := ExtractKeyID(token)
	if err != nil {
		return nil, fmt.Errorf("failed to extract key ID: %w", err)
	}

	jwks, err := f.getJWKS(ctx)
	if err != nil {
		return nil, err
	}

	jwk, err := jwks.FindKeyByID(kid)
	if err != nil {
		// Unknown kid may mean the provider rotated keys - refresh once
		jwks, err = f.fetchJWKS(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}
		f.cacheJWKS(jwks)

		jwk, err = jwks.FindKeyByID(kid)
		if err != nil {
			return nil, err
		}
	}

	return jwk.ToPublicKey()
}

// getJWKS returns the cached key set, fetching if missing or expired
func (f *CachedJWKSFetcher) getJWKS(ctx context.Context) (*JWKS, error) {
	f.mu.RLock()
	cached, expiresAt := f.cached, f.expiresAt
	f.mu.RUnlock()

	if cached != nil && time.Now().Before(expiresAt) {
		return cached, nil
	}

	jwks, err := f.fetchJWKS(ctx)
	if err != nil {
		return nil, err
	}

	f.cacheJWKS(jwks)

	return jwks, nil
}

// fetchJWKS fetches the key set from the provider
func (f *CachedJWKSFetcher) fetchJWKS(ctx context.Context) (*JWKS, error) {
	jwksURL := strings.TrimSuffix(f.issuer, "/") + "/.well-known/jwks.json"

	req, err := http.NewRequestWithContext(ctx, "GET", jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	if len(jwks.Keys) == 0 {
		return nil, fmt.Errorf("no keys found in JWKS")
	}

	return &jwks, nil
}

// cacheJWKS stores the key set with a fresh TTL
func (f *CachedJWKSFetcher) cacheJWKS(jwks *JWKS) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cached = jwks
	f.expiresAt = time.Now().Add(f.cacheTTL)
}
