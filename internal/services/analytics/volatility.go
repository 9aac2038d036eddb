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

type HTTPVolatilityProvider struct{ base *HTTPServiceBase }

func NewHTTPVolatilityProvider(cfg *config.Config) *HTTPVolatilityProvider {
	return &HTTPVolatilityProvider{base: NewHTTPServiceBase(cfg)}
}

// SetCache overrides the provider's response memoization backend.
func (p *HTTPVolatilityProvider) SetCache(c pkgcache.Service, ttl time.Duration) { p.base.SetCache(c, ttl) }

type volatilityResponse struct {
	Regime string `json:"regime"`
}

func (p *HTTPVolatilityProvider) Volatility(ctx context.Context, symbol string) (models.Volatility, error) {
	var vr volatilityResponse
	if err := p.base.GetJSONWithRetry(ctx, "/volatility/regime", symbolQuery(symbol, ""), &vr); err != nil {
		return models.Volatility{}, fmt.Errorf("fetch volatility: %w", err)
	}
	return models.Volatility{Regime: models.VolRegime(vr.Regime)}, nil
}

var _ domsvc.VolatilityProvider = (*HTTPVolatilityProvider)(nil)
