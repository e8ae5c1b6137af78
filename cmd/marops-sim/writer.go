package main

import (
	"os"

	"golang.org/x/term"

	"marops-sim/internal/config"
	"marops-sim/internal/sim"
)

// newWriters sets up telemetry and encounter writers based on flags and env
// vars. It returns the writers and a cleanup function to close any resources.
func newWriters(cfg *config.SimulationConfig, printOnly, useTUI bool, logFile string) (sim.TelemetryWriter, sim.EncounterWriter, func(), error) {
	cleanup := func() {}

	if useTUI {
		tui := sim.NewTUIWriter(cfg)
		if logFile == "" {
			return tui, tui, func() { tui.Close() }, nil
		}
		fw, err := sim.NewFileWriter(logFile, logFile+".encounters")
		if err != nil {
			tui.Close()
			return nil, nil, nil, err
		}
		mw := sim.NewMultiWriter([]sim.TelemetryWriter{tui, fw}, []sim.EncounterWriter{tui, fw})
		return mw, mw, func() { fw.Close(); tui.Close() }, nil
	}

	writer, encWriter, err := baseWriters(cfg, printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return writer, encWriter, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".encounters")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := sim.NewMultiWriter([]sim.TelemetryWriter{writer, fw}, []sim.EncounterWriter{encWriter, fw})
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on the printOnly flag and
// env vars. STDOUT output is colorized only when attached to a terminal.
func baseWriters(cfg *config.SimulationConfig, printOnly bool) (sim.TelemetryWriter, sim.EncounterWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			w := sim.NewColorStdoutWriter(cfg)
			return w, w, nil
		}
		w := sim.NewJSONStdoutWriter()
		return w, w, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := sim.NewGreptimeDBWriter(endpoint, database)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}

// newTelemetryWriter creates a telemetry writer without encounter handling.
func newTelemetryWriter(cfg *config.SimulationConfig, printOnly bool) (sim.TelemetryWriter, error) {
	w, _, _, err := newWriters(cfg, printOnly, false, "")
	return w, err
}
