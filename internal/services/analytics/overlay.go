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

type HTTPOverlayProvider struct{ base *HTTPServiceBase }

func NewHTTPOverlayProvider(cfg *config.Config) *HTTPOverlayProvider {
	return &HTTPOverlayProvider{base: NewHTTPServiceBase(cfg)}
}

// SetCache overrides the provider's response memoization backend.
func (p *HTTPOverlayProvider) SetCache(c pkgcache.Service, ttl time.Duration) { p.base.SetCache(c, ttl) }

type overlayResponse struct {
	Matches []struct {
		Phase string `json:"phase"`
	} `json:"matches"`
	Stats *struct {
		AvgMaxDD float64 `json:"avgMaxDD"`
	} `json:"stats"`
}

func (p *HTTPOverlayProvider) Overlay(ctx context.Context, symbol, horizon string) (models.Overlay, error) {
	var or overlayResponse
	if err := p.base.GetJSONWithRetry(ctx, "/overlay/matches", symbolQuery(symbol, horizon), &or); err != nil {
		return models.Overlay{}, fmt.Errorf("fetch overlay: %w", err)
	}

	out := models.Overlay{}
	for _, m := range or.Matches {
		out.Matches = append(out.Matches, models.OverlayMatch{Phase: models.Phase(m.Phase)})
	}
	if or.Stats != nil {
		out.Stats = &models.OverlayStats{AvgMaxDD: or.Stats.AvgMaxDD}
	}
	return out, nil
}

var _ domsvc.OverlayProvider = (*HTTPOverlayProvider)(nil)
