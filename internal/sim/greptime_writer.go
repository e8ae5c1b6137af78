package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"marops-sim/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes vessel and encounter rows to GreptimeDB via the
// ingester client.
type GreptimeDBWriter struct {
	client         greptimeClient
	vesselTable    string
	encounterTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. The endpoint is
// host or host:port; the gRPC port defaults to 4001.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host := endpoint
	port := 4001
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}

	return &GreptimeDBWriter{
		client:         client,
		vesselTable:    telemetry.VesselTableName,
		encounterTable: telemetry.EncounterTableName,
	}, nil
}

// Write inserts a single vessel row.
func (w *GreptimeDBWriter) Write(row telemetry.VesselRow) error {
	return w.WriteBatch([]telemetry.VesselRow{row})
}

// WriteBatch inserts multiple vessel rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.VesselRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.vesselTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("fleet_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("vessel_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("x", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("y", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("heading_deg", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("speed_ms", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("class", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("role", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.FleetID, r.VesselID, r.X, r.Y, r.HeadingDeg, r.SpeedMS, r.Class, r.Role, r.Timestamp); err != nil {
			return err
		}
	}

	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteEncounter inserts a single encounter row.
func (w *GreptimeDBWriter) WriteEncounter(row telemetry.EncounterRow) error {
	return w.WriteEncounters([]telemetry.EncounterRow{row})
}

// WriteEncounters inserts multiple encounter rows.
func (w *GreptimeDBWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.encounterTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("fleet_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("own_ship_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("target_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("encounter_type", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("relative_bearing", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("distance_m", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("dcpa_m", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("tcpa_s", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("converging", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("bearing_rate_degs", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("risk_level", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("requires_action", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		err := tbl.AddRow(r.FleetID, r.OwnShipID, r.TargetID,
			string(r.Encounter), r.RelativeBearing, r.DistanceM,
			r.DCPAM, r.TCPASeconds, r.Converging, r.BearingRate,
			string(r.RiskLevel), r.RequiresAction, r.Timestamp)
		if err != nil {
			return err
		}
	}

	_, err = w.client.Write(context.Background(), tbl)
	return err
}
