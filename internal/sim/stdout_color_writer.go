// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"marops-sim/internal/colregs"
	"marops-sim/internal/config"
	"marops-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints vessel and encounter rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.SimulationConfig
	out  io.Writer
	once sync.Once
}

var riskColors = map[colregs.RiskLevel]string{
	colregs.RiskSafe:     colorGreen,
	colregs.RiskLow:      colorCyan,
	colregs.RiskMedium:   colorYellow,
	colregs.RiskHigh:     colorMagenta,
	colregs.RiskCritical: colorRed,
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func riskColor(l colregs.RiskLevel) string {
	if c, ok := riskColors[l]; ok {
		return c
	}
	return colorGray
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Safe Distance (m):\t%.0f\n", w.cfg.Colregs.ClassifierConfig().SafeDistanceM)
	fmt.Fprintf(tw, "Head-on Bearing Tol (deg):\t%.1f\n", w.cfg.Colregs.ClassifierConfig().HeadOnBearingDeg)
	fmt.Fprintf(tw, "Traffic per Zone:\t%d\n", w.cfg.Traffic.CountPerZone)
	tw.Flush()

	fmt.Fprintln(w.out, "\nZones:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tCenter\tRadius (m)\n")
	for _, z := range w.cfg.Zones {
		fmt.Fprintf(tw, "%s%s%s\t(%.0f, %.0f)\t%.0f\n", colorBlue, z.Name, colorReset, z.CenterX, z.CenterY, z.RadiusM)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single vessel row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.VesselRow) error {
	w.once.Do(w.printOverview)

	roleColor := colorCyan
	if row.Role == telemetry.RoleOwnShip {
		roleColor = colorGreen
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sfleet=%s%s ", colorBlue, row.FleetID, colorReset)
	fmt.Fprintf(w.out, "%svessel=%s%s ", roleColor, row.VesselID, colorReset)
	fmt.Fprintf(w.out, "%sclass=%s%s ", colorMagenta, row.Class, colorReset)
	fmt.Fprintf(w.out, "%sx=%.1f%s ", colorGreen, row.X, colorReset)
	fmt.Fprintf(w.out, "%sy=%.1f%s ", colorYellow, row.Y, colorReset)
	fmt.Fprintf(w.out, "%shdg=%.1f%s ", colorCyan, row.HeadingDeg, colorReset)
	fmt.Fprintf(w.out, "%sspd=%.1f%s", colorYellow, row.SpeedMS, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple vessel rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.VesselRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEncounter prints an encounter evaluation to STDOUT. Safe pairs are
// skipped to keep the feed readable.
func (w *ColorStdoutWriter) WriteEncounter(e telemetry.EncounterRow) error {
	w.once.Do(w.printOverview)
	if e.Encounter == colregs.EncounterSafe && e.RiskLevel == colregs.RiskSafe {
		return nil
	}
	rc := riskColor(e.RiskLevel)
	fmt.Fprintf(w.out, "%s[%s]%s %sENCOUNTER%s own=%s target=%s type=%s brg=%.1f rng=%.0f dcpa=%.0f",
		colorGray, e.Timestamp.Format(time.RFC3339), colorReset,
		rc, colorReset, e.OwnShipID, e.TargetID, e.Encounter,
		e.RelativeBearing, e.DistanceM, e.DCPAM)
	if e.Converging {
		fmt.Fprintf(w.out, " tcpa=%.0fs", e.TCPASeconds)
	}
	fmt.Fprintf(w.out, " %srisk=%s%s", rc, e.RiskLevel, colorReset)
	if e.RequiresAction {
		fmt.Fprintf(w.out, " %sACTION%s", colorRed, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteEncounters prints multiple encounter evaluations.
func (w *ColorStdoutWriter) WriteEncounters(rows []telemetry.EncounterRow) error {
	for _, e := range rows {
		_ = w.WriteEncounter(e)
	}
	return nil
}
