package models

import "time"

// Direction is the consensus lean across forecasting horizons.
type Direction string

const (
	DirBuy  Direction = "BUY"
	DirSell Direction = "SELL"
	DirHold Direction = "HOLD"
)

// Phase is a market-regime label supplied by upstream phase detection.
type Phase string

const (
	PhaseAccumulation Phase = "ACCUMULATION"
	PhaseMarkup       Phase = "MARKUP"
	PhaseDistribution Phase = "DISTRIBUTION"
	PhaseMarkdown     Phase = "MARKDOWN"
	PhaseRecovery     Phase = "RECOVERY"
	PhaseUnknown      Phase = "UNKNOWN"
)

// VolRegime is the upstream volatility regime label.
type VolRegime string

const (
	VolLow       VolRegime = "LOW"
	VolNormal    VolRegime = "NORMAL"
	VolHigh      VolRegime = "HIGH"
	VolExpansion VolRegime = "EXPANSION"
	VolCrisis    VolRegime = "CRISIS"
)

// Consensus is the upstream agreement score and directional lean.
type Consensus struct {
	Score      float64   // [0,1]
	Dir        Direction // empty when upstream has no lean
	Dispersion float64   // [0,1], display-only
}

// Diagnostics carries trustworthiness measures of the forecast set.
type Diagnostics struct {
	Reliability  float64 // [0,1]
	Entropy      float64 // [0,1], lower is more certain
	QualityScore float64 // [0,1]
}

// PhaseSnapshot is the current detected market phase. Confidence is nil when
// the upstream payload omits the key; a present zero is a real value.
type PhaseSnapshot struct {
	CurrentPhase Phase
	Confidence   *float64 // [0,1]
}

// OverlayMatch is one historical analog match.
type OverlayMatch struct {
	Phase Phase
}

// OverlayStats aggregates statistics over the matched analogs.
type OverlayStats struct {
	AvgMaxDD float64 // average max drawdown across matches
}

// Overlay is the backend-computed set of historical analog matches.
type Overlay struct {
	Matches []OverlayMatch
	Stats   *OverlayStats
}

// Volatility is the upstream volatility regime snapshot.
type Volatility struct {
	Regime VolRegime
}

// SnapshotBundle is one poll cycle's analytics for a symbol. Every field
// except Symbol may be absent; classification substitutes documented
// defaults rather than failing.
type SnapshotBundle struct {
	Symbol    string
	Horizon   string
	Timestamp time.Time

	Consensus   *Consensus
	Diagnostics *Diagnostics
	Phase       *PhaseSnapshot
	Overlay     *Overlay
	Volatility  *Volatility
}
