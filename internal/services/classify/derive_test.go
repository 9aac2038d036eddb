package classify

import (
	"testing"

	"FractalPulse/internal/domain/models"
)

func TestSignalFollowsDirAboveThreshold(t *testing.T) {
	for _, dir := range []models.Direction{models.DirBuy, models.DirSell} {
		for _, score := range []float64{0.31, 0.5, 0.9, 1.0} {
			c := Derive(&models.SnapshotBundle{
				Consensus: &models.Consensus{Score: score, Dir: dir},
			})
			if string(c.Signal) != string(dir) {
				t.Fatalf("dir=%s score=%v: got signal %s", dir, score, c.Signal)
			}
		}
	}
}

func TestSignalHoldAtOrBelowThreshold(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Consensus: &models.Consensus{Score: 0.3, Dir: models.DirBuy},
	})
	if c.Signal != models.SignalHold {
		t.Fatalf("score=0.3 must not trigger dir branch, got %s", c.Signal)
	}
}

func TestSignalDirlessHighScore(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Consensus: &models.Consensus{Score: 0.6},
	})
	if c.Signal != models.SignalHold {
		t.Fatalf("score>0.5 without dir should hold, got %s", c.Signal)
	}

	c = Derive(&models.SnapshotBundle{
		Consensus: &models.Consensus{Score: 0.6, Dir: models.DirHold},
	})
	if c.Signal != models.SignalHold {
		t.Fatalf("score>0.5 dir=HOLD should hold, got %s", c.Signal)
	}
}

func TestConfidenceClampedForPathologicalInputs(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Diagnostics: &models.Diagnostics{Reliability: 2, Entropy: -1, QualityScore: 3},
	})
	if c.ConfidenceScore < 0 || c.ConfidenceScore > 100 {
		t.Fatalf("confidence out of range: %v", c.ConfidenceScore)
	}
	if c.ConfidenceScore != 100 {
		t.Fatalf("expected clamp to 100, got %v", c.ConfidenceScore)
	}

	c = Derive(&models.SnapshotBundle{
		Diagnostics: &models.Diagnostics{Reliability: -5, Entropy: 4, QualityScore: -2},
	})
	if c.ConfidenceScore != 0 {
		t.Fatalf("expected clamp to 0, got %v", c.ConfidenceScore)
	}
}

func TestConfidenceLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  models.ConfidenceLevel
	}{
		{39.999, models.ConfidenceLow},
		{40.0, models.ConfidenceMedium},
		{69.999, models.ConfidenceMedium},
		{70.0, models.ConfidenceHigh},
	}
	for _, tc := range cases {
		if got := confidenceLevel(tc.score); got != tc.want {
			t.Fatalf("score=%v: got %s want %s", tc.score, got, tc.want)
		}
	}
}

func TestRiskDrawdownAloneTriggersCrisis(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Overlay:    &models.Overlay{Stats: &models.OverlayStats{AvgMaxDD: 0.20}},
		Volatility: &models.Volatility{Regime: models.VolLow},
	})
	if c.RiskLevel != models.RiskCrisis {
		t.Fatalf("avgMaxDD=0.20 regime=LOW: got %s", c.RiskLevel)
	}
}

func TestRiskRegimeAloneTriggersCrisis(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Overlay:    &models.Overlay{Stats: &models.OverlayStats{AvgMaxDD: 0.05}},
		Volatility: &models.Volatility{Regime: models.VolExpansion},
	})
	if c.RiskLevel != models.RiskCrisis {
		t.Fatalf("regime=EXPANSION: got %s", c.RiskLevel)
	}
}

func TestRiskElevatedTier(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Overlay: &models.Overlay{Stats: &models.OverlayStats{AvgMaxDD: 0.10}},
	})
	if c.RiskLevel != models.RiskElevated {
		t.Fatalf("avgMaxDD=0.10: got %s", c.RiskLevel)
	}

	c = Derive(&models.SnapshotBundle{
		Volatility: &models.Volatility{Regime: models.VolHigh},
	})
	if c.RiskLevel != models.RiskElevated {
		t.Fatalf("regime=HIGH: got %s", c.RiskLevel)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	b := &models.SnapshotBundle{
		Consensus:   &models.Consensus{Score: 0.42, Dir: models.DirBuy, Dispersion: 0.2},
		Diagnostics: &models.Diagnostics{Reliability: 0.7, Entropy: 0.3, QualityScore: 0.6},
		Phase:       &models.PhaseSnapshot{CurrentPhase: models.PhaseRecovery, Confidence: fptr(0.8)},
		Overlay:     &models.Overlay{Stats: &models.OverlayStats{AvgMaxDD: 0.04}},
		Volatility:  &models.Volatility{Regime: models.VolNormal},
	}
	a, b2 := Derive(b), Derive(b)
	if a != b2 {
		t.Fatalf("same input produced different outputs: %+v vs %+v", a, b2)
	}
}

func TestDeriveEmptyBundle(t *testing.T) {
	for _, b := range []*models.SnapshotBundle{nil, {}} {
		c := Derive(b)
		if c.Signal != models.SignalHold {
			t.Fatalf("empty bundle signal: got %s", c.Signal)
		}
		// reliability=entropy=quality=0.5 -> 0.5*0.4 + 0.5*0.3 + 0.5*0.3 = 0.50
		if c.ConfidenceScore != 50 {
			t.Fatalf("empty bundle confidence: got %v", c.ConfidenceScore)
		}
		if c.ConfidenceLevel != models.ConfidenceMedium {
			t.Fatalf("empty bundle level: got %s", c.ConfidenceLevel)
		}
		if c.Phase != models.PhaseUnknown {
			t.Fatalf("empty bundle phase: got %s", c.Phase)
		}
		if c.RiskLevel != models.RiskNormal {
			t.Fatalf("empty bundle risk: got %s", c.RiskLevel)
		}
	}
}

func TestDeriveFullScenario(t *testing.T) {
	c := Derive(&models.SnapshotBundle{
		Consensus:   &models.Consensus{Score: 0.6, Dir: models.DirSell},
		Diagnostics: &models.Diagnostics{Reliability: 0.9, Entropy: 0.1, QualityScore: 0.8},
		Phase:       &models.PhaseSnapshot{CurrentPhase: models.PhaseMarkup, Confidence: fptr(0.7)},
		Overlay:     &models.Overlay{Stats: &models.OverlayStats{AvgMaxDD: 0.03}},
		Volatility:  &models.Volatility{Regime: models.VolLow},
	})
	if c.Signal != models.SignalSell {
		t.Fatalf("signal: got %s", c.Signal)
	}
	// 0.9*0.4 + 0.9*0.3 + 0.8*0.3 = 0.87 -> 87
	if c.ConfidenceScore < 86.999 || c.ConfidenceScore > 87.001 {
		t.Fatalf("confidence: got %v", c.ConfidenceScore)
	}
	if c.ConfidenceLevel != models.ConfidenceHigh {
		t.Fatalf("level: got %s", c.ConfidenceLevel)
	}
	if c.Phase != models.PhaseMarkup {
		t.Fatalf("phase: got %s", c.Phase)
	}
	if c.PhaseConfidence != 0.7 {
		t.Fatalf("phase confidence: got %v", c.PhaseConfidence)
	}
	if c.RiskLevel != models.RiskNormal {
		t.Fatalf("risk: got %s", c.RiskLevel)
	}
}

func TestSignalOrNeutral(t *testing.T) {
	if got := SignalOrNeutral("BUY"); got != models.SignalBuy {
		t.Fatalf("got %s", got)
	}
	if got := SignalOrNeutral("garbage"); got != models.SignalNeutral {
		t.Fatalf("got %s", got)
	}
	if got := SignalOrNeutral(""); got != models.SignalNeutral {
		t.Fatalf("got %s", got)
	}
}
