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

type HTTPPhaseProvider struct{ base *HTTPServiceBase }

func NewHTTPPhaseProvider(cfg *config.Config) *HTTPPhaseProvider {
	return &HTTPPhaseProvider{base: NewHTTPServiceBase(cfg)}
}

// SetCache overrides the provider's response memoization backend.
func (p *HTTPPhaseProvider) SetCache(c pkgcache.Service, ttl time.Duration) { p.base.SetCache(c, ttl) }

type phaseResponse struct {
	CurrentPhase string   `json:"currentPhase"`
	Confidence   *float64 `json:"confidence"`
}

func (p *HTTPPhaseProvider) Phase(ctx context.Context, symbol string) (models.PhaseSnapshot, error) {
	var pr phaseResponse
	if err := p.base.GetJSONWithRetry(ctx, "/phase/current", symbolQuery(symbol, ""), &pr); err != nil {
		return models.PhaseSnapshot{}, fmt.Errorf("fetch phase: %w", err)
	}
	return models.PhaseSnapshot{
		CurrentPhase: models.Phase(pr.CurrentPhase),
		Confidence:   pr.Confidence,
	}, nil
}

var _ domsvc.PhaseProvider = (*HTTPPhaseProvider)(nil)
