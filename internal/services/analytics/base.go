package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	pkgcache "FractalPulse/pkg/cache"
	"FractalPulse/pkg/config"
	xhttp "FractalPulse/pkg/http"
)

// HTTPServiceBase centralizes client construction and JSON request handling
// for the forecasting-engine HTTP clients.
type HTTPServiceBase struct {
	baseURL  string
	apiKey   string
	client   *xhttp.Client
	retries  int
	cache    pkgcache.Service
	cacheTTL time.Duration
}

// NewHTTPServiceBase builds an HTTP client with timeout and base URL from config.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	timeout := cfg.Upstream.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	retries := cfg.Upstream.RetryAttempts
	if retries <= 0 {
		retries = 3
	}
	return &HTTPServiceBase{
		baseURL:  cfg.Upstream.BaseURL,
		apiKey:   cfg.Upstream.APIKey,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		retries:  retries,
		cache:    pkgcache.NewMemoryCache(),
		cacheTTL: 2 * time.Second,
	}
}

// SetCache overrides the response memoization cache. TTL <= 0 disables caching.
func (b *HTTPServiceBase) SetCache(c pkgcache.Service, ttl time.Duration) {
	b.cache = c
	b.cacheTTL = ttl
}

func cacheKey(path string, query map[string][]string) string {
	return "upstream:" + path + "?" + url.Values(query).Encode()
}

// GetJSON issues a GET against `path` under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("upstream http client not initialized")
	}
	headers := map[string]string{"Accept": "application/json"}
	if b.apiKey != "" {
		headers["Authorization"] = "Bearer " + b.apiKey
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		Headers:     headers,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// GetJSONWithRetry retries transient failures with linear backoff.
// Successful responses are memoized briefly to absorb fan-out bursts.
func (b *HTTPServiceBase) GetJSONWithRetry(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	key := cacheKey(path, query)
	if b.cache != nil && b.cacheTTL > 0 {
		var raw string
		if err := b.cache.Get(ctx, key, &raw); err == nil {
			if err := json.Unmarshal([]byte(raw), dest); err == nil {
				return nil
			}
		}
	}
	var err error
	for i := 1; i <= b.retries; i++ {
		err = b.GetJSON(ctx, path, query, dest)
		if err == nil {
			if b.cache != nil && b.cacheTTL > 0 {
				if raw, merr := json.Marshal(dest); merr == nil {
					_ = b.cache.Set(ctx, key, string(raw), b.cacheTTL)
				}
			}
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func symbolQuery(symbol, horizon string) map[string][]string {
	q := map[string][]string{"symbol": {symbol}}
	if horizon != "" {
		q["horizon"] = []string{horizon}
	}
	return q
}
