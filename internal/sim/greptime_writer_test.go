package sim

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"marops-sim/internal/colregs"
	"marops-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterVesselRows(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.VesselRow{
		{
			FleetID:    "f1",
			VesselID:   "v1",
			X:          100,
			Y:          -50,
			HeadingDeg: 45,
			SpeedMS:    7.5,
			Class:      telemetry.ClassCargo,
			Role:       telemetry.RoleOwnShip,
			Timestamp:  ts,
		},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, vesselTable: "vessel_telemetry"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	got := m.table.GetRows().Rows[0].Values[1].GetStringValue()
	if got != "v1" {
		t.Fatalf("vessel_id = %s, want v1", got)
	}
}

func TestGreptimeWriterEncounterRows(t *testing.T) {
	rows := []telemetry.EncounterRow{{
		FleetID:         "f1",
		OwnShipID:       "own-1",
		TargetID:        "tgt-1",
		Encounter:       colregs.EncounterHeadOn,
		RelativeBearing: 1.5,
		DistanceM:       1800,
		DCPAM:           40,
		TCPASeconds:     120,
		Converging:      true,
		RiskLevel:       colregs.RiskCritical,
		RequiresAction:  true,
		Timestamp:       time.Unix(0, 0).UTC(),
	}}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, encounterTable: "vessel_encounters"}

	if err := w.WriteEncounters(rows); err != nil {
		t.Fatalf("WriteEncounters: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	values := m.table.GetRows().Rows[0].Values
	if got := values[1].GetStringValue(); got != "own-1" {
		t.Fatalf("own_ship_id = %s, want own-1", got)
	}
	if got := values[3].GetStringValue(); got != string(colregs.EncounterHeadOn) {
		t.Fatalf("encounter_type = %s, want %s", got, colregs.EncounterHeadOn)
	}
	if got := values[8].GetBoolValue(); !got {
		t.Fatalf("converging = false, want true")
	}
}

func TestGreptimeWriterEmptyBatchIsNoop(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, vesselTable: "vessel_telemetry"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
	if m.table != nil {
		t.Fatalf("expected no write for empty batch")
	}
}
