package analytics

import (
	"context"
	"testing"
	"time"

	"FractalPulse/internal/domain/models"
	pkgcache "FractalPulse/pkg/cache"
	"FractalPulse/pkg/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upstream.BaseURL = "http://127.0.0.1:0"
	cfg.Upstream.Timeout = 100 * time.Millisecond
	cfg.Upstream.RetryAttempts = 1
	return cfg
}

func TestInjectedCacheServesMemoizedResponse(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	key := cacheKey("/phase/current", symbolQuery("BTC", ""))
	if err := mem.Set(context.Background(), key, `{"currentPhase":"MARKUP","confidence":0.7}`, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	p := NewHTTPPhaseProvider(testConfig())
	p.SetCache(mem, time.Minute)

	// base URL is unreachable, so a result proves the cache path
	got, err := p.Phase(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	if got.CurrentPhase != models.PhaseMarkup {
		t.Fatalf("phase: got %s", got.CurrentPhase)
	}
	if got.Confidence == nil || *got.Confidence != 0.7 {
		t.Fatalf("confidence: got %v", got.Confidence)
	}
}

func TestPhaseDecodeOmittedConfidenceIsNil(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	key := cacheKey("/phase/current", symbolQuery("SPX", ""))
	if err := mem.Set(context.Background(), key, `{"currentPhase":"RECOVERY"}`, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	p := NewHTTPPhaseProvider(testConfig())
	p.SetCache(mem, time.Minute)

	got, err := p.Phase(context.Background(), "SPX")
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	if got.Confidence != nil {
		t.Fatalf("omitted confidence must decode as nil, got %v", *got.Confidence)
	}
}
