package colregs

import (
	"errors"
	"math"
	"testing"

	"marops-sim/internal/geometry"
)

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	a, err := NewAssessor(AssessorConfig{})
	if err != nil {
		t.Fatalf("NewAssessor: %v", err)
	}
	return a
}

func TestAssessCritical(t *testing.T) {
	a := newTestAssessor(t)
	osVel := geometry.HeadingToVelocity(0, 10)
	tsVel := geometry.HeadingToVelocity(180, 10)
	risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, osVel, geometry.Position{X: 0, Y: 300}, tsVel)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if risk.Level != RiskCritical {
		t.Errorf("expected critical, got %s", risk.Level)
	}
	if !risk.IsDangerous || !risk.RequiresAction {
		t.Errorf("critical must be dangerous and actionable: %+v", risk)
	}
}

func TestAssessHigh(t *testing.T) {
	a := newTestAssessor(t)
	osVel := geometry.HeadingToVelocity(0, 10)
	tsVel := geometry.HeadingToVelocity(180, 10)
	risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, osVel, geometry.Position{X: 0, Y: 8000}, tsVel)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	// 8000m closing at 20 m/s: tcpa 400s, dcpa ~0 -> high band.
	if risk.Level != RiskHigh {
		t.Errorf("expected high, got %s (dcpa %v tcpa %v)", risk.Level, risk.DCPA, risk.TCPA)
	}
	if !risk.IsDangerous {
		t.Error("expected dangerous")
	}
}

func TestAssessSafeParallel(t *testing.T) {
	a := newTestAssessor(t)
	vel := geometry.HeadingToVelocity(0, 10)
	risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, vel, geometry.Position{X: 500, Y: 0}, vel)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if !math.IsInf(risk.TCPA, 1) {
		t.Errorf("expected infinite tcpa, got %v", risk.TCPA)
	}
	if risk.Level != RiskSafe || risk.IsDangerous || risk.RequiresAction {
		t.Errorf("parallel vessels must be safe: %+v", risk)
	}
}

func TestAssessRecedingNeverDangerous(t *testing.T) {
	a := newTestAssessor(t)
	osVel := geometry.HeadingToVelocity(0, 10)
	tsVel := geometry.HeadingToVelocity(180, 10)
	// Close astern but opening: negative tcpa.
	risk, err := a.Assess(geometry.Position{X: 0, Y: 1000}, osVel, geometry.Position{X: 100, Y: 0}, tsVel)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if risk.TCPA >= 0 {
		t.Fatalf("expected negative tcpa, got %v", risk.TCPA)
	}
	if risk.Level != RiskSafe {
		t.Errorf("receding target must be safe, got %s", risk.Level)
	}
}

func TestAssessConstantBearing(t *testing.T) {
	a := newTestAssessor(t)
	osVel := geometry.HeadingToVelocity(0, 10)
	tsVel := geometry.HeadingToVelocity(180, 10)
	risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, osVel, geometry.Position{X: 0, Y: 1000}, tsVel)
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if math.Abs(risk.BearingRate) > 0.1 {
		t.Errorf("collision course should hold bearing steady, rate %v", risk.BearingRate)
	}
}

func TestRiskMonotonicityInDCPA(t *testing.T) {
	a := newTestAssessor(t)
	// Fixed closing geometry, shrinking lateral offset: dcpa decreases
	// while tcpa stays put, severity must not decrease.
	prev := -1
	for _, offset := range []float64{2500, 1900, 900, 400, 100} {
		osVel := geometry.HeadingToVelocity(0, 10)
		tsVel := geometry.HeadingToVelocity(180, 10)
		risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, osVel, geometry.Position{X: offset, Y: 2000}, tsVel)
		if err != nil {
			t.Fatalf("Assess: %v", err)
		}
		if risk.Level.Severity() < prev {
			t.Errorf("offset %v: severity dropped from %d to %d", offset, prev, risk.Level.Severity())
		}
		prev = risk.Level.Severity()
	}
}

func TestRiskMonotonicityInTCPA(t *testing.T) {
	a := newTestAssessor(t)
	// Head-on closure from shrinking range: dcpa ~0 throughout, tcpa
	// decreasing toward zero, severity must not decrease.
	prev := -1
	for _, rangeM := range []float64{30000, 20000, 10000, 5000, 1000} {
		osVel := geometry.HeadingToVelocity(0, 10)
		tsVel := geometry.HeadingToVelocity(180, 10)
		risk, err := a.Assess(geometry.Position{X: 0, Y: 0}, osVel, geometry.Position{X: 0, Y: rangeM}, tsVel)
		if err != nil {
			t.Fatalf("Assess: %v", err)
		}
		if risk.Level.Severity() < prev {
			t.Errorf("range %v: severity dropped from %d to %d", rangeM, prev, risk.Level.Severity())
		}
		prev = risk.Level.Severity()
	}
}

func TestMostDangerousTarget(t *testing.T) {
	a := newTestAssessor(t)
	osPos := geometry.Position{X: 0, Y: 0}
	osVel := geometry.HeadingToVelocity(0, 10)
	targets := []Target{
		// Far away and safe.
		{Pos: geometry.Position{X: 3000, Y: 3000}, Vel: geometry.HeadingToVelocity(180, 10)},
		// Near but receding.
		{Pos: geometry.Position{X: 100, Y: -100}, Vel: geometry.HeadingToVelocity(180, 10)},
		// Collision course.
		{Pos: geometry.Position{X: 0, Y: 500}, Vel: geometry.HeadingToVelocity(180, 10)},
	}
	idx, risk, err := a.MostDangerousTarget(osPos, osVel, targets)
	if err != nil {
		t.Fatalf("MostDangerousTarget: %v", err)
	}
	if idx != 2 {
		t.Errorf("expected target 2, got %d", idx)
	}
	if !risk.IsDangerous {
		t.Errorf("expected dangerous assessment: %+v", risk)
	}
}

func TestMostDangerousTargetTieBreak(t *testing.T) {
	a := newTestAssessor(t)
	osPos := geometry.Position{X: 0, Y: 0}
	osVel := geometry.HeadingToVelocity(0, 10)
	tsVel := geometry.HeadingToVelocity(180, 10)
	// Both critical; the nearer one reaches CPA first and must win.
	targets := []Target{
		{Pos: geometry.Position{X: 0, Y: 2500}, Vel: tsVel},
		{Pos: geometry.Position{X: 0, Y: 500}, Vel: tsVel},
	}
	idx, _, err := a.MostDangerousTarget(osPos, osVel, targets)
	if err != nil {
		t.Fatalf("MostDangerousTarget: %v", err)
	}
	if idx != 1 {
		t.Errorf("expected the nearer target to win the tie, got %d", idx)
	}
}

func TestMostDangerousTargetEmpty(t *testing.T) {
	a := newTestAssessor(t)
	idx, _, err := a.MostDangerousTarget(geometry.Position{}, geometry.Velocity{}, nil)
	if err != nil {
		t.Fatalf("MostDangerousTarget: %v", err)
	}
	if idx != -1 {
		t.Errorf("expected -1 for empty targets, got %d", idx)
	}
}

func TestNewAssessorRejectsBadConfig(t *testing.T) {
	if _, err := NewAssessor(AssessorConfig{ActionLevel: "extreme"}); !errors.Is(err, geometry.ErrInvalidInput) {
		t.Errorf("unknown action level: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewAssessor(AssessorConfig{Thresholds: []RiskThreshold{{Level: RiskLow, DCPAMaxM: 100, TCPAMaxS: 100}, {Level: RiskCritical, DCPAMaxM: 10, TCPAMaxS: 10}}}); !errors.Is(err, geometry.ErrInvalidInput) {
		t.Errorf("out-of-order thresholds: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewAssessor(AssessorConfig{Thresholds: []RiskThreshold{{Level: RiskHigh, DCPAMaxM: -5, TCPAMaxS: 100}}}); !errors.Is(err, geometry.ErrInvalidInput) {
		t.Errorf("negative bound: expected ErrInvalidInput, got %v", err)
	}
}

func TestRiskLevelOrder(t *testing.T) {
	order := []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Severity() <= order[i-1].Severity() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
		if !order[i].AtLeast(order[i-1]) {
			t.Errorf("%s.AtLeast(%s) should hold", order[i], order[i-1])
		}
	}
	if RiskLevel("bogus").Valid() {
		t.Error("unknown level must not validate")
	}
}

func TestRecommendedActionEscalates(t *testing.T) {
	for _, lvl := range []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical} {
		if RecommendedAction(RiskAssessment{Level: lvl}) == "" {
			t.Errorf("empty recommendation for %s", lvl)
		}
	}
}
