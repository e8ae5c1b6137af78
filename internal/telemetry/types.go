// Telemetry row structs with greptime tags
package telemetry

import (
	"os"
	"time"

	"marops-sim/internal/colregs"
	"marops-sim/internal/geometry"
)

// VesselRow represents one vessel state record for GreptimeDB.
type VesselRow struct {
	FleetID    string    `json:"fleet_id"`  // TAG
	VesselID   string    `json:"vessel_id"` // TAG
	X          float64   `json:"x"`         // FIELD, meters
	Y          float64   `json:"y"`         // FIELD, meters
	HeadingDeg float64   `json:"heading_deg"`
	SpeedMS    float64   `json:"speed_ms"`
	Class      string    `json:"class"`
	Role       string    `json:"role"` // "own_ship" or "traffic"
	Timestamp  time.Time `json:"ts"`   // TIME INDEX
}

// VesselTableName holds the table name used when writing vessel telemetry
// to GreptimeDB. It defaults to "vessel_telemetry" but can be overridden
// via the GREPTIMEDB_TABLE environment variable.
var VesselTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "vessel_telemetry"
}()

func (VesselRow) TableName() string {
	return VesselTableName
}

// EncounterRow describes one own-ship/target evaluation: the COLREGS
// classification and the CPA risk assessment for a single pair in a single
// tick. Converging is false when there is no future closest approach (the
// projected TCPA was infinite or negative); TCPASeconds is 0 in that case.
type EncounterRow struct {
	FleetID         string                `json:"fleet_id"`    // TAG
	OwnShipID       string                `json:"own_ship_id"` // TAG
	TargetID        string                `json:"target_id"`   // TAG
	Encounter       colregs.EncounterType `json:"encounter_type"`
	RelativeBearing float64               `json:"relative_bearing"`
	DistanceM       float64               `json:"distance_m"`
	DCPAM           float64               `json:"dcpa_m"`
	TCPASeconds     float64               `json:"tcpa_s"`
	Converging      bool                  `json:"converging"`
	BearingRate     float64               `json:"bearing_rate_degs"`
	RiskLevel       colregs.RiskLevel     `json:"risk_level"`
	RequiresAction  bool                  `json:"requires_action"`
	Timestamp       time.Time             `json:"ts"` // TIME INDEX
}

// EncounterTableName defaults to "vessel_encounters", overridable via the
// ENCOUNTER_TABLE environment variable.
var EncounterTableName = func() string {
	if env := os.Getenv("ENCOUNTER_TABLE"); env != "" {
		return env
	}
	return "vessel_encounters"
}()

func (EncounterRow) TableName() string {
	return EncounterTableName
}

// Vessel holds runtime state for one simulated vessel.
type Vessel struct {
	ID         string
	Name       string
	Class      string
	Role       string
	Position   geometry.Position
	HeadingDeg float64
	SpeedMS    float64
}

// Vessel class constants.
const (
	ClassCargo   = "cargo"
	ClassTanker  = "tanker"
	ClassFishing = "fishing"
	ClassFerry   = "ferry"
	ClassPatrol  = "patrol"
)

// Vessel role constants.
const (
	RoleOwnShip = "own_ship"
	RoleTraffic = "traffic"
)

// Velocity returns the vessel's velocity vector from heading and speed.
func (v *Vessel) Velocity() geometry.Velocity {
	return geometry.HeadingToVelocity(v.HeadingDeg, v.SpeedMS)
}

// Step advances the vessel along its current heading by dt seconds.
func (v *Vessel) Step(dt float64) {
	vel := v.Velocity()
	v.Position.X += vel.VX * dt
	v.Position.Y += vel.VY * dt
}
