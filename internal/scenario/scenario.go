// Scripted encounter scenarios with phased helm orders
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marops-sim/internal/colregs"
	"marops-sim/internal/geometry"
	"marops-sim/internal/telemetry"
)

// ShipSpec places one vessel at a start position with an initial course.
type ShipSpec struct {
	ID         string  `yaml:"id"`
	Class      string  `yaml:"class"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	HeadingDeg float64 `yaml:"heading_deg"`
	SpeedMS    float64 `yaml:"speed_ms"`
}

// Order changes course or speed for one vessel when a phase begins.
// Nil fields leave the current value unchanged.
type Order struct {
	VesselID   string   `yaml:"vessel_id"`
	HeadingDeg *float64 `yaml:"heading_deg"`
	SpeedMS    *float64 `yaml:"speed_ms"`
}

// Trigger decides when the scenario advances to the named next phase.
// Exactly one of the condition fields should be set: RangeBelowM fires
// once any contact closes inside the given range, RiskAtLeast fires once
// any contact reaches the given risk level, Encounter fires once any
// contact is classified as the given encounter type, and AfterS fires on
// elapsed time since the previous phase change.
type Trigger struct {
	RangeBelowM float64 `yaml:"range_below_m"`
	RiskAtLeast string  `yaml:"risk_at_least"`
	Encounter   string  `yaml:"encounter"`
	AfterS      float64 `yaml:"after_s"`
	Next        string  `yaml:"next"`
}

// Phase is one stage of a scripted encounter.
type Phase struct {
	Name    string   `yaml:"name"`
	Orders  []Order  `yaml:"orders"`
	Trigger *Trigger `yaml:"trigger"`
}

// Scenario is a deterministic encounter script: one own ship, a fixed set
// of targets, and an ordered list of phases.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	OwnShip     ShipSpec   `yaml:"own_ship"`
	Targets     []ShipSpec `yaml:"targets"`
	Phases      []Phase    `yaml:"phases"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.OwnShip.ID == "" {
		return nil, fmt.Errorf("scenario %q: own_ship.id is required", sc.Name)
	}
	for i, p := range sc.Phases {
		if p.Trigger == nil {
			continue
		}
		if p.Trigger.RiskAtLeast != "" && !colregs.RiskLevel(p.Trigger.RiskAtLeast).Valid() {
			return nil, fmt.Errorf("scenario %q: phase %d: unknown risk level %q", sc.Name, i, p.Trigger.RiskAtLeast)
		}
		if p.Trigger.Encounter != "" && !colregs.EncounterType(p.Trigger.Encounter).Valid() {
			return nil, fmt.Errorf("scenario %q: phase %d: unknown encounter type %q", sc.Name, i, p.Trigger.Encounter)
		}
		if p.Trigger.Next == "" {
			return nil, fmt.Errorf("scenario %q: phase %d: trigger needs a next phase", sc.Name, i)
		}
		if _, ok := sc.PhaseIndex(p.Trigger.Next); !ok {
			return nil, fmt.Errorf("scenario %q: phase %d: unknown next phase %q", sc.Name, i, p.Trigger.Next)
		}
	}
	return &sc, nil
}

// PhaseIndex resolves a phase name to its index.
func (s *Scenario) PhaseIndex(name string) (int, bool) {
	for i, p := range s.Phases {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Vessels builds the runtime vessels for the scenario.
func (s *Scenario) Vessels() (own *telemetry.Vessel, targets []*telemetry.Vessel) {
	own = specVessel(s.OwnShip, telemetry.RoleOwnShip)
	for _, t := range s.Targets {
		targets = append(targets, specVessel(t, telemetry.RoleTraffic))
	}
	return own, targets
}

func specVessel(spec ShipSpec, role string) *telemetry.Vessel {
	class := spec.Class
	if class == "" {
		class = telemetry.ClassCargo
	}
	return &telemetry.Vessel{
		ID:         spec.ID,
		Name:       spec.ID,
		Class:      class,
		Role:       role,
		Position:   geometry.Position{X: spec.X, Y: spec.Y},
		HeadingDeg: spec.HeadingDeg,
		SpeedMS:    spec.SpeedMS,
	}
}
