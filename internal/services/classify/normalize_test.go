package classify

import (
	"testing"

	"FractalPulse/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func TestNormalizeNilBundle(t *testing.T) {
	n := Normalize(nil)
	if n.Reliability != 0.5 || n.Entropy != 0.5 || n.Quality != 0.5 {
		t.Fatalf("diagnostics defaults wrong: %+v", n)
	}
	if n.ConsensusScore != 0 || n.Dir != "" {
		t.Fatalf("consensus defaults wrong: %+v", n)
	}
	if n.Phase != models.PhaseUnknown || n.PhaseConfidence != 0.5 {
		t.Fatalf("phase defaults wrong: %+v", n)
	}
	if n.AvgMaxDD != 0 || n.Regime != "" {
		t.Fatalf("risk defaults wrong: %+v", n)
	}
}

func TestNormalizePhaseFallbackToOverlay(t *testing.T) {
	n := Normalize(&models.SnapshotBundle{
		Overlay: &models.Overlay{
			Matches: []models.OverlayMatch{{Phase: models.PhaseDistribution}},
		},
	})
	if n.Phase != models.PhaseDistribution {
		t.Fatalf("expected overlay fallback, got %s", n.Phase)
	}
}

func TestNormalizeSnapshotPhaseWins(t *testing.T) {
	n := Normalize(&models.SnapshotBundle{
		Phase: &models.PhaseSnapshot{CurrentPhase: models.PhaseMarkdown, Confidence: fptr(0.9)},
		Overlay: &models.Overlay{
			Matches: []models.OverlayMatch{{Phase: models.PhaseAccumulation}},
		},
	})
	if n.Phase != models.PhaseMarkdown {
		t.Fatalf("snapshot phase should win, got %s", n.Phase)
	}
	if n.PhaseConfidence != 0.9 {
		t.Fatalf("phase confidence: got %v", n.PhaseConfidence)
	}
}

func TestNormalizeZeroPhaseConfidenceKept(t *testing.T) {
	// present-but-zero confidence is a real value, not an absence
	n := Normalize(&models.SnapshotBundle{
		Phase: &models.PhaseSnapshot{CurrentPhase: models.PhaseMarkup, Confidence: fptr(0)},
	})
	if n.PhaseConfidence != 0 {
		t.Fatalf("zero confidence must not be defaulted, got %v", n.PhaseConfidence)
	}
}

func TestNormalizeAbsentPhaseConfidenceDefaults(t *testing.T) {
	// a snapshot whose confidence key is missing still gets the midpoint
	n := Normalize(&models.SnapshotBundle{
		Phase: &models.PhaseSnapshot{CurrentPhase: models.PhaseMarkup},
	})
	if n.Phase != models.PhaseMarkup {
		t.Fatalf("phase: got %s", n.Phase)
	}
	if n.PhaseConfidence != 0.5 {
		t.Fatalf("absent confidence must default to 0.5, got %v", n.PhaseConfidence)
	}
}

func TestNormalizeOverlayWithoutStats(t *testing.T) {
	n := Normalize(&models.SnapshotBundle{
		Overlay: &models.Overlay{Matches: []models.OverlayMatch{{}}},
	})
	if n.AvgMaxDD != 0 {
		t.Fatalf("missing stats: got %v", n.AvgMaxDD)
	}
	if n.Phase != models.PhaseUnknown {
		t.Fatalf("empty match phase must not apply, got %s", n.Phase)
	}
}
