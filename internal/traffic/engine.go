// Package traffic maintains and updates simulated target vessels.
package traffic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"marops-sim/internal/geometry"
	"marops-sim/internal/telemetry"
)

// Zone is a circular operating area in the local plane.
type Zone struct {
	Name    string
	Center  geometry.Position
	RadiusM float64
}

// speedEnvelope bounds cruise speed per vessel class, m/s.
var speedEnvelope = map[string][2]float64{
	telemetry.ClassCargo:   {6, 10},
	telemetry.ClassTanker:  {4, 8},
	telemetry.ClassFishing: {2, 6},
	telemetry.ClassFerry:   {8, 12},
	telemetry.ClassPatrol:  {10, 15},
}

// courseChangeProb is the per-tick chance a target alters course.
const courseChangeProb = 0.02

// Engine spawns target vessels inside zones and sails them straight with
// occasional bounded course changes, turning back toward the zone center
// when a vessel wanders out.
type Engine struct {
	zones   []Zone
	classes []string
	rand    *rand.Rand
	Vessels []*telemetry.Vessel
}

// NewEngine creates an engine with count targets per zone, drawing classes
// from the given list.
func NewEngine(count int, zones []Zone, classes []string, rnd *rand.Rand) *Engine {
	if len(classes) == 0 {
		classes = []string{telemetry.ClassCargo, telemetry.ClassTanker, telemetry.ClassFishing, telemetry.ClassFerry}
	}
	e := &Engine{zones: zones, classes: classes, rand: rnd}
	for _, z := range zones {
		for i := 0; i < count; i++ {
			e.Vessels = append(e.Vessels, e.spawn(z))
		}
	}
	return e
}

func (e *Engine) spawn(z Zone) *telemetry.Vessel {
	class := e.classes[e.rand.Intn(len(e.classes))]
	env, ok := speedEnvelope[class]
	if !ok {
		env = [2]float64{4, 10}
	}
	angle := e.rand.Float64() * 2 * math.Pi
	r := e.rand.Float64() * z.RadiusM
	return &telemetry.Vessel{
		ID:    uuid.New().String(),
		Name:  fmt.Sprintf("%s-%s", z.Name, class),
		Class: class,
		Role:  telemetry.RoleTraffic,
		Position: geometry.Position{
			X: z.Center.X + r*math.Sin(angle),
			Y: z.Center.Y + r*math.Cos(angle),
		},
		HeadingDeg: e.rand.Float64() * 360,
		SpeedMS:    env[0] + e.rand.Float64()*(env[1]-env[0]),
	}
}

// Spawn adds count new targets of the given class to the first zone.
func (e *Engine) Spawn(count int, class string) {
	if len(e.zones) == 0 {
		return
	}
	z := e.zones[0]
	for i := 0; i < count; i++ {
		v := e.spawn(z)
		if class != "" {
			v.Class = class
			if env, ok := speedEnvelope[class]; ok {
				v.SpeedMS = env[0] + e.rand.Float64()*(env[1]-env[0])
			}
		}
		e.Vessels = append(e.Vessels, v)
	}
}

// Step advances all targets by dt seconds.
func (e *Engine) Step(dt float64) {
	for _, v := range e.Vessels {
		if e.rand.Float64() < courseChangeProb {
			v.HeadingDeg = geometry.NormalizeAngle360(v.HeadingDeg + (e.rand.Float64()*60 - 30))
		}
		e.containInZone(v)
		v.Step(dt)
	}
}

// containInZone steers a vessel back toward its zone center once it leaves
// the zone radius.
func (e *Engine) containInZone(v *telemetry.Vessel) {
	z, ok := e.zoneFor(v)
	if !ok {
		return
	}
	if geometry.Distance(v.Position, z.Center) <= z.RadiusM {
		return
	}
	dx := z.Center.X - v.Position.X
	dy := z.Center.Y - v.Position.Y
	v.HeadingDeg = geometry.NormalizeAngle360(math.Atan2(dx, dy) * 180 / math.Pi)
}

func (e *Engine) zoneFor(v *telemetry.Vessel) (Zone, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, z := range e.zones {
		d := geometry.Distance(v.Position, z.Center)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Zone{}, false
	}
	return e.zones[best], true
}
