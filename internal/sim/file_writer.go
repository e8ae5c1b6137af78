package sim

import (
	"encoding/json"
	"os"

	"marops-sim/internal/telemetry"
)

// FileWriter writes vessel and encounter rows to JSONL files.
type FileWriter struct {
	teleFile *os.File
	encFile  *os.File
	teleEnc  *json.Encoder
	encEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. encounterPath may be empty to skip
// the encounter log.
func NewFileWriter(telemetryPath, encounterPath string) (*FileWriter, error) {
	tf, err := os.Create(telemetryPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{teleFile: tf, teleEnc: json.NewEncoder(tf)}
	if encounterPath != "" {
		ef, err := os.Create(encounterPath)
		if err != nil {
			tf.Close()
			return nil, err
		}
		fw.encFile = ef
		fw.encEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// Write logs a single vessel row.
func (f *FileWriter) Write(row telemetry.VesselRow) error {
	return f.teleEnc.Encode(row)
}

// WriteBatch logs multiple vessel rows.
func (f *FileWriter) WriteBatch(rows []telemetry.VesselRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEncounter logs a single encounter row, if enabled.
func (f *FileWriter) WriteEncounter(e telemetry.EncounterRow) error {
	if f.encEnc == nil {
		return nil
	}
	return f.encEnc.Encode(e)
}

// WriteEncounters logs multiple encounter rows.
func (f *FileWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	for _, e := range rows {
		if err := f.WriteEncounter(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.teleFile != nil {
		if e := f.teleFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.encFile != nil {
		if e := f.encFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
