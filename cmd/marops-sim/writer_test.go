package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marops-sim/internal/colregs"
	"marops-sim/internal/sim"
	"marops-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	tw, ew, cleanup, err := newWriters(nil, true, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", tw)
	}
	if _, ok := ew.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", ew)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	tw, ew, cleanup, err := newWriters(nil, false, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := tw.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", tw)
	}
	if _, ok := ew.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", ew)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.log")
	tw, ew, cleanup, err := newWriters(nil, true, false, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := tw.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", tw)
	}
	row := telemetry.VesselRow{FleetID: "f1", VesselID: "v1", Timestamp: time.Now()}
	if err := tw.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	enc := telemetry.EncounterRow{
		FleetID:   "f1",
		OwnShipID: "own-1",
		TargetID:  "v1",
		Encounter: colregs.EncounterOvertaking,
		RiskLevel: colregs.RiskLow,
		Timestamp: time.Now(),
	}
	if err := ew.WriteEncounter(enc); err != nil {
		t.Fatalf("write encounter failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	encInfo, err := os.Stat(path + ".encounters")
	if err != nil {
		t.Fatalf("stat encounters failed: %v", err)
	}
	if encInfo.Size() == 0 {
		t.Fatalf("expected encounter file to be non-empty")
	}
}
