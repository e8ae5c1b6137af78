package telemetry

import "time"

// Generator produces telemetry rows for a fleet of vessels.
type Generator struct {
	FleetID string
}

// NewGenerator creates a telemetry generator for a given fleet.
func NewGenerator(fleetID string) *Generator {
	return &Generator{FleetID: fleetID}
}

// Advance moves the vessel by dt seconds of dead reckoning and returns a
// VesselRow ready for the writer.
func (g *Generator) Advance(v *Vessel, dt float64) VesselRow {
	v.Step(dt)
	return g.Snapshot(v)
}

// Snapshot returns a VesselRow for the vessel's current state without
// advancing it.
func (g *Generator) Snapshot(v *Vessel) VesselRow {
	return VesselRow{
		FleetID:    g.FleetID,
		VesselID:   v.ID,
		X:          v.Position.X,
		Y:          v.Position.Y,
		HeadingDeg: v.HeadingDeg,
		SpeedMS:    v.SpeedMS,
		Class:      v.Class,
		Role:       v.Role,
		Timestamp:  time.Now().UTC(),
	}
}
