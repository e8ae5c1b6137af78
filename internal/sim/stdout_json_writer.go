package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"marops-sim/internal/telemetry"
)

// JSONStdoutWriter prints vessel and encounter rows as JSON to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a vessel row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.VesselRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple vessel rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.VesselRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEncounter outputs an encounter row in JSON format.
func (w *JSONStdoutWriter) WriteEncounter(e telemetry.EncounterRow) error {
	data, _ := json.Marshal(e)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEncounters outputs multiple encounter rows in JSON format.
func (w *JSONStdoutWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	for _, e := range rows {
		_ = w.WriteEncounter(e)
	}
	return nil
}
