package models

import "time"

// Signal is the derived trading signal shown in the terminal header.
// NEUTRAL is a display fallback for unrecognized values; derivation itself
// only emits BUY, SELL, or HOLD.
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalHold    Signal = "HOLD"
	SignalNeutral Signal = "NEUTRAL"
)

// ConfidenceLevel bands the confidence score at fixed 40/70 thresholds.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// RiskLevel escalates CRISIS > ELEVATED > NORMAL; checks short-circuit in
// that priority order.
type RiskLevel string

const (
	RiskNormal   RiskLevel = "NORMAL"
	RiskElevated RiskLevel = "ELEVATED"
	RiskCrisis   RiskLevel = "CRISIS"
)

// SignalHeader is the derived terminal header for one symbol: the four
// classifications plus the raw inputs surfaced in tooltips. It is recomputed
// from each snapshot bundle and has no identity of its own.
type SignalHeader struct {
	Symbol    string    `json:"symbol"`
	Horizon   string    `json:"horizon"`
	Timestamp time.Time `json:"timestamp"`

	Signal          Signal          `json:"signal"`
	ConfidenceScore float64         `json:"confidenceScore"` // [0,100]
	ConfidenceLevel ConfidenceLevel `json:"confidenceLevel"`
	Phase           Phase           `json:"phase"`
	PhaseConfidence float64         `json:"phaseConfidence"`
	RiskLevel       RiskLevel       `json:"riskLevel"`

	// Raw upstream values for tooltips.
	ConsensusScore float64   `json:"consensusScore"`
	Dispersion     float64   `json:"dispersion"`
	Reliability    float64   `json:"reliability"`
	Entropy        float64   `json:"entropy"`
	QualityScore   float64   `json:"qualityScore"`
	AvgMaxDD       float64   `json:"avgMaxDD"`
	VolRegime      VolRegime `json:"volRegime"`

	// Per-provider fetch failures; nil when the bundle was complete.
	Errors map[string]string `json:"errors,omitempty"`
}
