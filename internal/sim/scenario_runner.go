package sim

import (
	"time"

	"marops-sim/internal/colregs"
	"marops-sim/internal/scenario"
	"marops-sim/internal/telemetry"
)

// advanceScenario checks the active phase's trigger against this tick's
// encounters and applies the next phase's helm orders when it fires.
// The caller holds s.mu.
func (s *Simulator) advanceScenario(encounters []telemetry.EncounterRow, ts time.Time) {
	if s.phase < 0 {
		// Enter the first phase on the first tick.
		if len(s.scn.Phases) == 0 {
			return
		}
		s.enterPhase(0, ts)
	}

	phase := s.scn.Phases[s.phase]
	if phase.Trigger == nil {
		return
	}
	if !s.triggerFired(*phase.Trigger, encounters, ts) {
		return
	}
	next, ok := s.scn.PhaseIndex(phase.Trigger.Next)
	if !ok {
		return
	}
	s.enterPhase(next, ts)
}

func (s *Simulator) triggerFired(t scenario.Trigger, encounters []telemetry.EncounterRow, ts time.Time) bool {
	switch {
	case t.RangeBelowM > 0:
		for _, e := range encounters {
			if e.DistanceM < t.RangeBelowM {
				return true
			}
		}
	case t.RiskAtLeast != "":
		want := colregs.RiskLevel(t.RiskAtLeast)
		for _, e := range encounters {
			if e.RiskLevel.AtLeast(want) {
				return true
			}
		}
	case t.Encounter != "":
		want := colregs.EncounterType(t.Encounter)
		for _, e := range encounters {
			if e.Encounter == want {
				return true
			}
		}
	case t.AfterS > 0:
		return ts.Sub(s.phaseTime).Seconds() >= t.AfterS
	}
	return false
}

// enterPhase applies the phase's helm orders to the matching vessels.
func (s *Simulator) enterPhase(idx int, ts time.Time) {
	s.phase = idx
	s.phaseTime = ts
	phase := s.scn.Phases[idx]
	s.log.Info("scenario phase", "scenario", s.scn.Name, "phase", phase.Name)

	vessels := make(map[string]*telemetry.Vessel)
	for _, f := range s.fleets {
		for _, v := range f.Vessels {
			vessels[v.ID] = v
		}
	}
	for _, v := range s.scnShips {
		vessels[v.ID] = v
	}

	for _, o := range phase.Orders {
		v, ok := vessels[o.VesselID]
		if !ok {
			s.log.Warn("helm order for unknown vessel", "vessel", o.VesselID)
			continue
		}
		if o.HeadingDeg != nil {
			v.HeadingDeg = *o.HeadingDeg
		}
		if o.SpeedMS != nil {
			v.SpeedMS = *o.SpeedMS
		}
	}
}
