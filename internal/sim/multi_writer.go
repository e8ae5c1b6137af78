package sim

import (
	"marops-sim/internal/telemetry"
)

// MultiWriter fan-outs vessel and encounter rows to multiple writers.
type MultiWriter struct {
	telewriters []TelemetryWriter
	encwriters  []EncounterWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TelemetryWriter, ews []EncounterWriter) *MultiWriter {
	return &MultiWriter{telewriters: tws, encwriters: ews}
}

// Write sends a vessel row to all writers.
func (mw *MultiWriter) Write(row telemetry.VesselRow) error {
	for _, w := range mw.telewriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple vessel rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.VesselRow) error {
	for _, w := range mw.telewriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEncounter sends an encounter row to all encounter writers.
func (mw *MultiWriter) WriteEncounter(row telemetry.EncounterRow) error {
	for _, w := range mw.encwriters {
		if err := w.WriteEncounter(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEncounters sends multiple encounter rows to all encounter writers,
// using batch if supported.
func (mw *MultiWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	for _, w := range mw.encwriters {
		if bw, ok := w.(batchEncounterWriter); ok {
			if err := bw.WriteEncounters(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEncounter(r); err != nil {
				return err
			}
		}
	}
	return nil
}
