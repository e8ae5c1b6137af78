package colregs

import (
	"fmt"
	"math"

	"marops-sim/internal/geometry"
)

// RiskThreshold admits a risk level when dcpa < DCPAMaxM and the time to
// closest approach is in [0, TCPAMaxS).
type RiskThreshold struct {
	Level   RiskLevel
	DCPAMaxM float64
	TCPAMaxS float64
}

// DefaultRiskThresholds returns the stock threshold table, ordered most to
// least severe.
func DefaultRiskThresholds() []RiskThreshold {
	return []RiskThreshold{
		{Level: RiskCritical, DCPAMaxM: 200, TCPAMaxS: 300},
		{Level: RiskHigh, DCPAMaxM: 500, TCPAMaxS: 600},
		{Level: RiskMedium, DCPAMaxM: 1000, TCPAMaxS: 1200},
		{Level: RiskLow, DCPAMaxM: 2000, TCPAMaxS: 1800},
	}
}

// AssessorConfig holds the assessor tunables, fixed at construction.
type AssessorConfig struct {
	// Thresholds is evaluated first match wins, so it must be ordered most
	// to least severe. Empty means DefaultRiskThresholds.
	Thresholds []RiskThreshold
	// ActionLevel is the lowest level that sets RequiresAction.
	ActionLevel RiskLevel
}

// Assessor scores collision risk from CPA projection and bearing rate.
type Assessor struct {
	cfg AssessorConfig
}

// NewAssessor validates the threshold table and returns an assessor.
func NewAssessor(cfg AssessorConfig) (*Assessor, error) {
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = DefaultRiskThresholds()
	}
	if cfg.ActionLevel == "" {
		cfg.ActionLevel = RiskMedium
	}
	if !cfg.ActionLevel.Valid() {
		return nil, fmt.Errorf("assessor config: %w: unknown action level %q", geometry.ErrInvalidInput, cfg.ActionLevel)
	}
	prev := math.MaxInt
	for _, th := range cfg.Thresholds {
		if !th.Level.Valid() || th.Level == RiskSafe {
			return nil, fmt.Errorf("assessor config: %w: threshold level %q", geometry.ErrInvalidInput, th.Level)
		}
		if err := geometry.CheckFinite(th.DCPAMaxM, th.TCPAMaxS); err != nil {
			return nil, fmt.Errorf("assessor config: %w", err)
		}
		if th.DCPAMaxM <= 0 || th.TCPAMaxS <= 0 {
			return nil, fmt.Errorf("assessor config: %w: non-positive bounds for %s", geometry.ErrInvalidInput, th.Level)
		}
		if th.Level.Severity() >= prev {
			return nil, fmt.Errorf("assessor config: %w: thresholds must run most to least severe", geometry.ErrInvalidInput)
		}
		prev = th.Level.Severity()
	}
	return &Assessor{cfg: cfg}, nil
}

// Config returns a copy of the assessor's configuration.
func (a *Assessor) Config() AssessorConfig {
	return a.cfg
}

// Assess scores the collision risk posed by one target from a snapshot of
// positions and velocity vectors. A negative or infinite TCPA never rates
// above SAFE: there is no current closing risk.
func (a *Assessor) Assess(osPos geometry.Position, osVel geometry.Velocity, tsPos geometry.Position, tsVel geometry.Velocity) (RiskAssessment, error) {
	if err := geometry.CheckFinite(osPos.X, osPos.Y, osVel.VX, osVel.VY, tsPos.X, tsPos.Y, tsVel.VX, tsVel.VY); err != nil {
		return RiskAssessment{}, err
	}

	dcpa, tcpa := geometry.CPA(osPos, osVel, tsPos, tsVel)
	risk := RiskAssessment{
		DCPA:        dcpa,
		TCPA:        tcpa,
		Distance:    geometry.Distance(osPos, tsPos),
		BearingRate: geometry.BearingRate(osPos, osVel, tsPos, tsVel),
		Level:       RiskSafe,
	}
	if tcpa >= 0 && !math.IsInf(tcpa, 1) {
		for _, th := range a.cfg.Thresholds {
			if dcpa < th.DCPAMaxM && tcpa < th.TCPAMaxS {
				risk.Level = th.Level
				break
			}
		}
	}
	risk.IsDangerous = risk.Level.Severity() > RiskSafe.Severity()
	risk.RequiresAction = risk.Level.AtLeast(a.cfg.ActionLevel)
	return risk, nil
}

// Target pairs one position/velocity snapshot for batch assessment.
type Target struct {
	Pos geometry.Position
	Vel geometry.Velocity
}

// MostDangerousTarget assesses every target and returns the index and
// assessment of the worst one: highest risk level, ties broken by smaller
// TCPA. The index is -1 when targets is empty.
func (a *Assessor) MostDangerousTarget(osPos geometry.Position, osVel geometry.Velocity, targets []Target) (int, RiskAssessment, error) {
	worst := -1
	var worstRisk RiskAssessment
	for i, tgt := range targets {
		risk, err := a.Assess(osPos, osVel, tgt.Pos, tgt.Vel)
		if err != nil {
			return -1, RiskAssessment{}, fmt.Errorf("target %d: %w", i, err)
		}
		if worst < 0 {
			worst, worstRisk = i, risk
			continue
		}
		switch {
		case risk.Level.Severity() > worstRisk.Level.Severity():
			worst, worstRisk = i, risk
		case risk.Level == worstRisk.Level && risk.TCPA < worstRisk.TCPA:
			worst, worstRisk = i, risk
		}
	}
	return worst, worstRisk, nil
}

// RecommendedAction returns guidance text for an assessment, escalating in
// specificity with severity.
func RecommendedAction(risk RiskAssessment) string {
	switch risk.Level {
	case RiskCritical:
		return "IMMEDIATE ACTION: make a large, unmistakable alteration of course and/or reduce speed now."
	case RiskHigh:
		return "Take early and substantial avoiding action; make the maneuver obvious to the other vessel."
	case RiskMedium:
		return "Prepare to maneuver; watch for constant bearing with decreasing range."
	case RiskLow:
		return "Monitor the target and reassess on the next update."
	default:
		return "No action required."
	}
}
