package classify

import (
	"FractalPulse/internal/domain/models"
)

// Confidence blend weights and band thresholds.
const (
	wReliability = 0.4
	wCertainty   = 0.3 // weight on (1 - entropy)
	wQuality     = 0.3

	confidenceMediumAt = 40.0
	confidenceHighAt   = 70.0
)

// Risk escalation thresholds on average max drawdown.
const (
	ddCrisisAbove   = 0.15
	ddElevatedAbove = 0.08
)

// Classification is the derived header state: four independent
// classifications over one normalized bundle.
type Classification struct {
	Signal          models.Signal
	ConfidenceScore float64 // always clamped to [0,100]
	ConfidenceLevel models.ConfidenceLevel
	Phase           models.Phase
	PhaseConfidence float64
	RiskLevel       models.RiskLevel
}

// Derive maps a snapshot bundle to its classification. Total over all
// partial or nil bundles; never returns an error or a zero Signal.
func Derive(b *models.SnapshotBundle) Classification {
	return Classify(Normalize(b))
}

// Classify runs the decision rules over an already-normalized bundle.
func Classify(n Normalized) Classification {
	score := confidenceScore(n)
	return Classification{
		Signal:          signalFor(n),
		ConfidenceScore: score,
		ConfidenceLevel: confidenceLevel(score),
		Phase:           n.Phase,
		PhaseConfidence: n.PhaseConfidence,
		RiskLevel:       riskFor(n),
	}
}

// signalFor evaluates the signal rules in order; first match wins.
// NEUTRAL is never produced here: every branch resolves to BUY, SELL, HOLD,
// or the upstream lean, which is itself one of those three. NEUTRAL exists
// only as the display default for unrecognized stored values.
func signalFor(n Normalized) models.Signal {
	switch {
	case n.Dir == models.DirBuy && n.ConsensusScore > 0.3:
		return models.SignalBuy
	case n.Dir == models.DirSell && n.ConsensusScore > 0.3:
		return models.SignalSell
	case n.ConsensusScore > 0.5:
		if n.Dir != "" {
			return models.Signal(n.Dir)
		}
		return models.SignalHold
	default:
		return models.SignalHold
	}
}

func confidenceScore(n Normalized) float64 {
	raw := n.Reliability*wReliability + (1-n.Entropy)*wCertainty + n.Quality*wQuality
	return clamp(raw*100, 0, 100)
}

func confidenceLevel(score float64) models.ConfidenceLevel {
	switch {
	case score < confidenceMediumAt:
		return models.ConfidenceLow
	case score < confidenceHighAt:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceHigh
	}
}

// riskFor checks CRISIS conditions before ELEVATED; drawdown and regime
// compose as OR within each tier, not cumulatively across tiers.
func riskFor(n Normalized) models.RiskLevel {
	switch {
	case n.AvgMaxDD > ddCrisisAbove || n.Regime == models.VolCrisis || n.Regime == models.VolExpansion:
		return models.RiskCrisis
	case n.AvgMaxDD > ddElevatedAbove || n.Regime == models.VolHigh:
		return models.RiskElevated
	default:
		return models.RiskNormal
	}
}

// SignalOrNeutral maps a raw stored/display value onto the signal enum,
// defaulting anything unrecognized to NEUTRAL.
func SignalOrNeutral(s string) models.Signal {
	switch models.Signal(s) {
	case models.SignalBuy, models.SignalSell, models.SignalHold, models.SignalNeutral:
		return models.Signal(s)
	default:
		return models.SignalNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
