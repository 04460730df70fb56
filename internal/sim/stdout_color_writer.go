// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"rocketintel-sim/internal/analysis"
	"rocketintel-sim/internal/config"
	"rocketintel-sim/internal/flight"
	"rocketintel-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints telemetry rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg           *config.SimulationConfig
	out           io.Writer
	once          sync.Once
	mu            sync.Mutex
	vehicleColors map[string]string
	colorIdx      int
}

var vehiclePalette = []string{colorCyan, colorMagenta, colorYellow, colorBlue, colorGreen}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.SimulationConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:           cfg,
		out:           os.Stdout,
		vehicleColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getVehicleColor(id string) string {
	if c, ok := w.vehicleColors[id]; ok {
		return c
	}
	c := vehiclePalette[w.colorIdx%len(vehiclePalette)]
	w.vehicleColors[id] = c
	w.colorIdx++
	return c
}

func severityColor(s flight.Severity) string {
	switch s {
	case flight.SeverityCritical:
		return colorRed
	case flight.SeverityWarning:
		return colorYellow
	}
	return colorGreen
}

func riskColor(r analysis.Risk) string {
	switch r {
	case analysis.RiskCritical, analysis.RiskHigh:
		return colorRed
	case analysis.RiskMedium:
		return colorYellow
	}
	return colorGreen
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Simulation Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Vehicles:\t%s\n", strings.Join(w.cfg.Vehicles, ", "))
	fmt.Fprintf(tw, "Profile:\t%s\n", w.cfg.Profile)
	fmt.Fprintf(tw, "Seed:\t%d\n", w.cfg.Seed)
	fmt.Fprintf(tw, "Commit Step (s):\t%.2f\n", w.cfg.TickStepS)
	fmt.Fprintf(tw, "Time Scale:\t%.1f\n", w.cfg.TimeScale)
	if w.cfg.Scenario != "" {
		fmt.Fprintf(tw, "Scenario:\t%s\n", w.cfg.Scenario)
	}
	fmt.Fprintf(tw, "Analysis:\t%t (every %.0fs)\n", w.cfg.Analysis.Enabled, w.cfg.Analysis.IntervalS)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single telemetry row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.TelemetryRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()

	vColor := w.getVehicleColor(row.VehicleID)
	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, analysis.MissionClock(row.MissionTime), colorReset)
	fmt.Fprintf(w.out, "%s%s%s ", vColor, row.RocketID, colorReset)
	fmt.Fprintf(w.out, "%sphase=%s%s ", colorBlue, row.Phase, colorReset)
	fmt.Fprintf(w.out, "%salt=%.0fm%s ", colorWhite, row.Altitude, colorReset)
	fmt.Fprintf(w.out, "%sspd=%.0fm/s%s ", colorYellow, row.Speed, colorReset)
	fmt.Fprintf(w.out, "%sacc=%.1fg%s ", colorCyan, row.Acceleration, colorReset)
	fmt.Fprintf(w.out, "%sfuel=%s%.1f%%%s ", colorMagenta, severityColor(row.Anomaly.Fuel), row.Fuel, colorReset)
	fmt.Fprintf(w.out, "temp=%s%.0fC%s ", severityColor(row.Anomaly.Temperature), row.Temperature, colorReset)
	fmt.Fprintf(w.out, "%spress=%.1fkPa%s ", colorGray, row.Pressure, colorReset)
	fmt.Fprintf(w.out, "%sthrust=%.0f%%%s ", colorGreen, row.ThrustMultiplier*100, colorReset)
	fmt.Fprintf(w.out, "%sstatus=%s%s", severityColor(row.Anomaly.Overall), row.Anomaly.Overall, colorReset)
	if row.Anomaly.Guidance != flight.SeverityNominal {
		fmt.Fprintf(w.out, " %sguidance%s", colorYellow, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple telemetry rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteAnalysis prints a risk assessment to STDOUT.
func (w *ColorStdoutWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	w.once.Do(w.printOverview)
	w.mu.Lock()
	defer w.mu.Unlock()
	vColor := w.getVehicleColor(row.VehicleID)
	fmt.Fprintf(w.out, "%s[%s]%s %sANALYSIS%s %s%s%s risk=%s%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset,
		vColor, row.VehicleID, colorReset,
		riskColor(analysis.Risk(row.OverallRisk)), row.OverallRisk, colorReset)
	for _, rec := range row.Recommendations {
		fmt.Fprintf(w.out, "\n    %s- %s%s", colorGray, rec, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}
