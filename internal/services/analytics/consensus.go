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

type HTTPConsensusProvider struct{ base *HTTPServiceBase }

func NewHTTPConsensusProvider(cfg *config.Config) *HTTPConsensusProvider {
	return &HTTPConsensusProvider{base: NewHTTPServiceBase(cfg)}
}

// SetCache overrides the provider's response memoization backend.
func (p *HTTPConsensusProvider) SetCache(c pkgcache.Service, ttl time.Duration) { p.base.SetCache(c, ttl) }

type consensusResponse struct {
	Score      float64 `json:"score"`
	Dir        string  `json:"dir"`
	Dispersion float64 `json:"dispersion"`
}

func (p *HTTPConsensusProvider) Consensus(ctx context.Context, symbol, horizon string) (models.Consensus, error) {
	var cr consensusResponse
	if err := p.base.GetJSONWithRetry(ctx, "/consensus", symbolQuery(symbol, horizon), &cr); err != nil {
		return models.Consensus{}, fmt.Errorf("fetch consensus: %w", err)
	}
	return models.Consensus{
		Score:      cr.Score,
		Dir:        models.Direction(cr.Dir),
		Dispersion: cr.Dispersion,
	}, nil
}

var _ domsvc.ConsensusProvider = (*HTTPConsensusProvider)(nil)
