package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FractalPulse/internal/domain/models"
	domrepo "FractalPulse/internal/domain/repository"
	domsvc "FractalPulse/internal/domain/service"
	"FractalPulse/internal/services/classify"
)

// HeaderComposer fans out to the upstream providers, assembles a snapshot
// bundle, and derives the terminal header. A provider failure never fails
// the compose: the missing piece is left absent and recorded in Errors,
// and classification falls back to its documented defaults.
type HeaderComposer struct {
	consensus   domsvc.ConsensusProvider
	diagnostics domsvc.DiagnosticsProvider
	phase       domsvc.PhaseProvider
	overlay     domsvc.OverlayProvider
	volatility  domsvc.VolatilityProvider
	timeout     time.Duration
}

func NewHeaderComposer(
	consensus domsvc.ConsensusProvider,
	diagnostics domsvc.DiagnosticsProvider,
	phase domsvc.PhaseProvider,
	overlay domsvc.OverlayProvider,
	volatility domsvc.VolatilityProvider,
) *HeaderComposer {
	return &HeaderComposer{
		consensus:   consensus,
		diagnostics: diagnostics,
		phase:       phase,
		overlay:     overlay,
		volatility:  volatility,
		timeout:     10 * time.Second,
	}
}

// Compose fetches all analytics for symbol concurrently and derives the header.
func (c *HeaderComposer) Compose(ctx context.Context, symbol string, horizon domrepo.Horizon) (*models.SignalHeader, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	hz := string(horizon)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bundle := &models.SnapshotBundle{
		Symbol:    symbol,
		Horizon:   hz,
		Timestamp: time.Now(),
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 5)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.consensus.Consensus(ctx, symbol, hz)
		ch <- item{"consensus", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.diagnostics.Diagnostics(ctx, symbol, hz)
		ch <- item{"diagnostics", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.phase.Phase(ctx, symbol)
		ch <- item{"phase", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.overlay.Overlay(ctx, symbol, hz)
		ch <- item{"overlay", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.volatility.Volatility(ctx, symbol)
		ch <- item{"volatility", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	errs := map[string]string{}
	for it := range ch {
		if it.err != nil {
			errs[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "consensus":
			v := it.val.(models.Consensus)
			bundle.Consensus = &v
		case "diagnostics":
			v := it.val.(models.Diagnostics)
			bundle.Diagnostics = &v
		case "phase":
			v := it.val.(models.PhaseSnapshot)
			bundle.Phase = &v
		case "overlay":
			v := it.val.(models.Overlay)
			bundle.Overlay = &v
		case "volatility":
			v := it.val.(models.Volatility)
			bundle.Volatility = &v
		}
	}

	return BuildHeader(bundle, errs), nil
}

// BuildHeader derives the classification for a bundle and packages it with
// the raw tooltip values. Total over nil/partial bundles.
func BuildHeader(bundle *models.SnapshotBundle, errs map[string]string) *models.SignalHeader {
	n := classify.Normalize(bundle)
	cls := classify.Classify(n)

	h := &models.SignalHeader{
		Signal:          cls.Signal,
		ConfidenceScore: cls.ConfidenceScore,
		ConfidenceLevel: cls.ConfidenceLevel,
		Phase:           cls.Phase,
		PhaseConfidence: cls.PhaseConfidence,
		RiskLevel:       cls.RiskLevel,

		ConsensusScore: n.ConsensusScore,
		Dispersion:     n.Dispersion,
		Reliability:    n.Reliability,
		Entropy:        n.Entropy,
		QualityScore:   n.Quality,
		AvgMaxDD:       n.AvgMaxDD,
		VolRegime:      n.Regime,
	}
	if bundle != nil {
		h.Symbol = bundle.Symbol
		h.Horizon = bundle.Horizon
		h.Timestamp = bundle.Timestamp
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	if len(errs) > 0 {
		h.Errors = errs
	}
	return h
}
