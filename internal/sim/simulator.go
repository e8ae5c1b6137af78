// Simulator orchestrating vessels, encounter classification, and telemetry ticks
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"marops-sim/internal/colregs"
	"marops-sim/internal/config"
	"marops-sim/internal/geometry"
	"marops-sim/internal/logging"
	"marops-sim/internal/scenario"
	"marops-sim/internal/telemetry"
	"marops-sim/internal/traffic"

	"github.com/google/uuid"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.VesselRow) error
}

// EncounterWriter handles encounter evaluation rows.
type EncounterWriter interface {
	WriteEncounter(telemetry.EncounterRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.VesselRow) error
}

// Optional: encounter writers may support batch mode
type batchEncounterWriter interface {
	WriteEncounters([]telemetry.EncounterRow) error
}

// Fleet holds runtime vessels for one own-ship fleet.
type Fleet struct {
	Name    string
	Class   string
	Vessels []*telemetry.Vessel
}

// Simulator advances own ships and traffic each tick, classifies every
// own-ship/target pair under the COLREGS rules, and writes telemetry and
// encounter rows.
type Simulator struct {
	fleetID      string
	fleets       []Fleet
	teleGen      *telemetry.Generator
	traffic      *traffic.Engine
	classifier   *colregs.Classifier
	assessor     *colregs.Assessor
	writer       TelemetryWriter
	encWriter    EncounterWriter
	tickInterval time.Duration
	cfg          *config.SimulationConfig
	log          *slog.Logger
	now          func() time.Time

	scn       *scenario.Scenario
	scnShips  []*telemetry.Vessel
	phase     int
	phaseTime time.Time

	mu             sync.Mutex
	lastEncounters []telemetry.EncounterRow
	mostDangerous  map[string]telemetry.EncounterRow
}

// NewSimulator initializes own ships and background traffic from config.
func NewSimulator(fleetID string, cfg *config.SimulationConfig, writer TelemetryWriter, eWriter EncounterWriter, tickInterval time.Duration) (*Simulator, error) {
	classifier, err := colregs.NewClassifier(cfg.Colregs.ClassifierConfig())
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	assessorCfg, err := cfg.Colregs.AssessorConfig()
	if err != nil {
		return nil, err
	}
	assessor, err := colregs.NewAssessor(assessorCfg)
	if err != nil {
		return nil, fmt.Errorf("assessor: %w", err)
	}

	sim := &Simulator{
		fleetID:       fleetID,
		teleGen:       telemetry.NewGenerator(fleetID),
		classifier:    classifier,
		assessor:      assessor,
		writer:        writer,
		encWriter:     eWriter,
		tickInterval:  tickInterval,
		cfg:           cfg,
		log:           logging.New(),
		now:           func() time.Time { return time.Now().UTC() },
		mostDangerous: make(map[string]telemetry.EncounterRow),
	}

	zones := make([]traffic.Zone, len(cfg.Zones))
	byName := make(map[string]traffic.Zone, len(cfg.Zones))
	for i, z := range cfg.Zones {
		zones[i] = traffic.Zone{
			Name:    z.Name,
			Center:  geometry.Position{X: z.CenterX, Y: z.CenterY},
			RadiusM: z.RadiusM,
		}
		byName[z.Name] = zones[i]
	}

	for _, fc := range cfg.Fleets {
		zone, ok := byName[fc.Zone]
		if !ok {
			zone = zones[0]
		}
		f := Fleet{Name: fc.Name, Class: fc.Class}
		for i := 0; i < fc.Count; i++ {
			f.Vessels = append(f.Vessels, &telemetry.Vessel{
				ID:         generateVesselID(fc.Name, i),
				Name:       fmt.Sprintf("%s-%d", fc.Name, i),
				Class:      fc.Class,
				Role:       telemetry.RoleOwnShip,
				Position:   geometry.Position{X: zone.Center.X + float64(i)*200, Y: zone.Center.Y},
				HeadingDeg: fc.HeadingDeg,
				SpeedMS:    fc.SpeedMS,
			})
		}
		sim.fleets = append(sim.fleets, f)
	}

	count := cfg.Traffic.CountPerZone
	if count < 0 {
		count = 0
	}
	sim.traffic = traffic.NewEngine(count, zones, cfg.Traffic.Classes, rand.New(rand.NewSource(time.Now().UnixNano())))

	return sim, nil
}

// ApplyScenario replaces the configured fleets and traffic with the
// vessels of a scripted scenario. Phase triggers are evaluated every tick.
func (s *Simulator) ApplyScenario(sc *scenario.Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	own, targets := sc.Vessels()
	s.fleets = []Fleet{{Name: sc.Name, Class: own.Class, Vessels: []*telemetry.Vessel{own}}}
	s.scnShips = targets
	s.scn = sc
	s.phase = -1
	s.phaseTime = s.now()
}

// Run starts the simulation loop, blocking until the context is canceled.
func (s *Simulator) Run(ctx context.Context) {
	s.log = logging.FromContext(ctx)
	s.log.Info("simulator starting", "tick_interval", s.tickInterval.String())
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-ctx.Done():
			s.log.Info("simulator stopping")
			return
		}
	}
}

// tick advances kinematics, evaluates all encounter pairs, and writes rows.
func (s *Simulator) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := s.tickInterval.Seconds()
	ts := s.now()

	var rows []telemetry.VesselRow
	for _, f := range s.fleets {
		for _, v := range f.Vessels {
			row := s.teleGen.Advance(v, dt)
			row.Timestamp = ts
			rows = append(rows, row)
		}
	}

	var targets []*telemetry.Vessel
	if s.scn != nil {
		for _, v := range s.scnShips {
			v.Step(dt)
			row := s.teleGen.Snapshot(v)
			row.Timestamp = ts
			rows = append(rows, row)
			targets = append(targets, v)
		}
	} else {
		s.traffic.Step(dt)
		for _, v := range s.traffic.Vessels {
			row := s.teleGen.Snapshot(v)
			row.Timestamp = ts
			rows = append(rows, row)
			targets = append(targets, v)
		}
	}

	encounters := s.evaluateEncounters(targets, ts)

	if s.scn != nil {
		s.advanceScenario(encounters, ts)
	}

	s.lastEncounters = encounters

	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(rows); err != nil {
			s.log.Error("telemetry batch write failed", "error", err)
		}
	} else {
		for _, row := range rows {
			if err := s.writer.Write(row); err != nil {
				s.log.Error("telemetry write failed", "vessel", row.VesselID, "error", err)
			}
		}
	}

	if len(encounters) > 0 && s.encWriter != nil {
		if bw, ok := s.encWriter.(batchEncounterWriter); ok {
			if err := bw.WriteEncounters(encounters); err != nil {
				s.log.Error("encounter batch write failed", "error", err)
			}
		} else {
			for _, e := range encounters {
				if err := s.encWriter.WriteEncounter(e); err != nil {
					s.log.Error("encounter write failed", "own_ship", e.OwnShipID, "target", e.TargetID, "error", err)
				}
			}
		}
	}
}

// evaluateEncounters classifies and risk-assesses every own-ship/target
// pair, including pairs of own ships from different fleets.
func (s *Simulator) evaluateEncounters(targets []*telemetry.Vessel, ts time.Time) []telemetry.EncounterRow {
	var ownShips []*telemetry.Vessel
	for _, f := range s.fleets {
		ownShips = append(ownShips, f.Vessels...)
	}

	var encounters []telemetry.EncounterRow
	for _, os := range ownShips {
		best := telemetry.EncounterRow{}
		haveBest := false
		consider := func(ts2 *telemetry.Vessel) {
			row, err := s.evaluatePair(os, ts2, ts)
			if err != nil {
				s.log.Error("encounter evaluation failed", "own_ship", os.ID, "target", ts2.ID, "error", err)
				return
			}
			encounters = append(encounters, row)
			if !haveBest || moreDangerous(row, best) {
				best = row
				haveBest = true
			}
		}
		for _, other := range ownShips {
			if other == os {
				continue
			}
			consider(other)
		}
		for _, t := range targets {
			consider(t)
		}
		if haveBest {
			s.mostDangerous[os.ID] = best
		} else {
			delete(s.mostDangerous, os.ID)
		}
	}
	return encounters
}

// evaluatePair runs classification and risk assessment for one pair.
func (s *Simulator) evaluatePair(os, tgt *telemetry.Vessel, ts time.Time) (telemetry.EncounterRow, error) {
	situation, err := s.classifier.Classify(os.Position, os.HeadingDeg, os.SpeedMS, tgt.Position, tgt.HeadingDeg, tgt.SpeedMS)
	if err != nil {
		return telemetry.EncounterRow{}, err
	}
	risk, err := s.assessor.Assess(os.Position, os.Velocity(), tgt.Position, tgt.Velocity())
	if err != nil {
		return telemetry.EncounterRow{}, err
	}

	row := telemetry.EncounterRow{
		FleetID:         s.fleetID,
		OwnShipID:       os.ID,
		TargetID:        tgt.ID,
		Encounter:       situation.Type,
		RelativeBearing: situation.RelativeBearing,
		DistanceM:       situation.Distance,
		DCPAM:           risk.DCPA,
		BearingRate:     risk.BearingRate,
		RiskLevel:       risk.Level,
		RequiresAction:  risk.RequiresAction,
		Timestamp:       ts,
	}
	if risk.TCPA >= 0 && !math.IsInf(risk.TCPA, 1) {
		row.Converging = true
		row.TCPASeconds = risk.TCPA
	}
	return row, nil
}

// moreDangerous reports whether a should outrank b when picking the most
// dangerous contact: higher severity first, then the smaller time to CPA.
func moreDangerous(a, b telemetry.EncounterRow) bool {
	sa, sb := a.RiskLevel.Severity(), b.RiskLevel.Severity()
	if sa != sb {
		return sa > sb
	}
	return tcpaForCompare(a) < tcpaForCompare(b)
}

func tcpaForCompare(r telemetry.EncounterRow) float64 {
	if !r.Converging {
		return math.Inf(1)
	}
	return r.TCPASeconds
}

// SpawnTraffic adds count background vessels of the given class at runtime.
func (s *Simulator) SpawnTraffic(count int, class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traffic.Spawn(count, class)
}

// FleetHealth summarizes encounter pressure per fleet.
type FleetHealth struct {
	Name           string `json:"name"`
	Total          int    `json:"total"`
	Dangerous      int    `json:"dangerous"`
	ActionRequired int    `json:"action_required"`
}

// Health returns aggregated encounter statistics for all fleets.
func (s *Simulator) Health() []FleetHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []FleetHealth
	for _, f := range s.fleets {
		h := FleetHealth{Name: f.Name, Total: len(f.Vessels)}
		for _, v := range f.Vessels {
			if e, ok := s.mostDangerous[v.ID]; ok {
				if e.RiskLevel != colregs.RiskSafe {
					h.Dangerous++
				}
				if e.RequiresAction {
					h.ActionRequired++
				}
			}
		}
		result = append(result, h)
	}
	return result
}

// GetConfig returns the simulation configuration.
func (s *Simulator) GetConfig() *config.SimulationConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// TelemetrySnapshot returns the latest state for all vessels.
func (s *Simulator) TelemetrySnapshot() []telemetry.VesselRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	var rows []telemetry.VesselRow
	for _, f := range s.fleets {
		for _, v := range f.Vessels {
			row := s.teleGen.Snapshot(v)
			row.Timestamp = ts
			rows = append(rows, row)
		}
	}
	for _, v := range s.backgroundVessels() {
		row := s.teleGen.Snapshot(v)
		row.Timestamp = ts
		rows = append(rows, row)
	}
	return rows
}

// Encounters returns the encounter rows produced by the most recent tick.
func (s *Simulator) Encounters() []telemetry.EncounterRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]telemetry.EncounterRow, len(s.lastEncounters))
	copy(out, s.lastEncounters)
	return out
}

// MostDangerous returns the highest-risk contact per own ship.
func (s *Simulator) MostDangerous() map[string]telemetry.EncounterRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]telemetry.EncounterRow, len(s.mostDangerous))
	for k, v := range s.mostDangerous {
		out[k] = v
	}
	return out
}

func (s *Simulator) backgroundVessels() []*telemetry.Vessel {
	if s.scn != nil {
		return s.scnShips
	}
	return s.traffic.Vessels
}

func generateVesselID(fleetName string, index int) string {
	// Include the vessel's index along with a UUID to guarantee uniqueness
	id := uuid.New().String()
	return fmt.Sprintf("%s-%d-%s", fleetName, index, id)
}
