package classify

import (
	"FractalPulse/internal/domain/models"
)

// Defaults substituted for absent bundle fields. Diagnostics default to the
// midpoint so a missing feed reads as "no information" rather than zero
// confidence.
const (
	defaultReliability     = 0.5
	defaultEntropy         = 0.5
	defaultQuality         = 0.5
	defaultPhaseConfidence = 0.5
)

// Normalized is the fully defaulted view of a snapshot bundle. Defaulting
// policy lives here, decision rules in Classify, so each is testable alone.
type Normalized struct {
	ConsensusScore  float64
	Dir             models.Direction // empty when upstream had no lean
	Dispersion      float64
	Reliability     float64
	Entropy         float64
	Quality         float64
	Phase           models.Phase
	PhaseConfidence float64
	AvgMaxDD        float64
	Regime          models.VolRegime // empty when absent
}

// Normalize substitutes documented defaults for every absent field of b.
// A nil bundle is valid and yields the all-defaults view.
func Normalize(b *models.SnapshotBundle) Normalized {
	n := Normalized{
		Reliability:     defaultReliability,
		Entropy:         defaultEntropy,
		Quality:         defaultQuality,
		Phase:           models.PhaseUnknown,
		PhaseConfidence: defaultPhaseConfidence,
	}
	if b == nil {
		return n
	}

	if c := b.Consensus; c != nil {
		n.ConsensusScore = c.Score
		n.Dir = c.Dir
		n.Dispersion = c.Dispersion
	}
	if d := b.Diagnostics; d != nil {
		n.Reliability = d.Reliability
		n.Entropy = d.Entropy
		n.Quality = d.QualityScore
	}
	phaseSet := false
	if p := b.Phase; p != nil {
		if p.CurrentPhase != "" {
			n.Phase = p.CurrentPhase
			phaseSet = true
		}
		if p.Confidence != nil {
			n.PhaseConfidence = *p.Confidence
		}
	}
	if o := b.Overlay; o != nil {
		// phase falls back to the first overlay match when no snapshot phase
		if !phaseSet && len(o.Matches) > 0 && o.Matches[0].Phase != "" {
			n.Phase = o.Matches[0].Phase
		}
		if o.Stats != nil {
			n.AvgMaxDD = o.Stats.AvgMaxDD
		}
	}
	if v := b.Volatility; v != nil {
		n.Regime = v.Regime
	}
	return n
}
