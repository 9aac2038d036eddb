package analytics

import (
	"context"
	"fmt"
	"time"

	"FractalPulse/internal/domain/models"
	domsvc "FractalPulse/internal/domain/service"
	pkgcache "FractalPulse/pkg/cache"
	"FractalPulse/pkg/config"
)

type HTTPDiagnosticsProvider struct{ base *HTTPServiceBase }

func NewHTTPDiagnosticsProvider(cfg *config.Config) *HTTPDiagnosticsProvider {
	return &HTTPDiagnosticsProvider{base: NewHTTPServiceBase(cfg)}
}

// SetCache overrides the provider's response memoization backend.
func (p *HTTPDiagnosticsProvider) SetCache(c pkgcache.Service, ttl time.Duration) { p.base.SetCache(c, ttl) }

type diagnosticsResponse struct {
	Reliability  float64 `json:"reliability"`
	Entropy      float64 `json:"entropy"`
	QualityScore float64 `json:"qualityScore"`
}

func (p *HTTPDiagnosticsProvider) Diagnostics(ctx context.Context, symbol, horizon string) (models.Diagnostics, error) {
	var dr diagnosticsResponse
	if err := p.base.GetJSONWithRetry(ctx, "/diagnostics", symbolQuery(symbol, horizon), &dr); err != nil {
		return models.Diagnostics{}, fmt.Errorf("fetch diagnostics: %w", err)
	}
	return models.Diagnostics{
		Reliability:  dr.Reliability,
		Entropy:      dr.Entropy,
		QualityScore: dr.QualityScore,
	}, nil
}

var _ domsvc.DiagnosticsProvider = (*HTTPDiagnosticsProvider)(nil)
