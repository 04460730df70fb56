// Package dashboard renders Grafana dashboards for the GreptimeDB tables.
package dashboard

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"rocketintel-sim/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

// DatasourceEnv names the variable holding the Grafana datasource uid.
const DatasourceEnv = "GREPTIMEDB_DATASOURCE_UID"

type panel struct {
	Title  string
	Column string
	Unit   string
}

type data struct {
	TelemetryTable string
	AnalysisTable  string
	Panels         []panel
}

var seriesPanels = []panel{
	{Title: "Altitude", Column: "altitude", Unit: "lengthm"},
	{Title: "Speed", Column: "speed", Unit: "velocityms"},
	{Title: "Acceleration", Column: "acceleration", Unit: "none"},
	{Title: "Fuel", Column: "fuel", Unit: "percent"},
	{Title: "Temperature", Column: "temperature", Unit: "celsius"},
	{Title: "Thrust multiplier", Column: "thrust_multiplier", Unit: "percentunit"},
}

var funcMap = template.FuncMap{
	"env": func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", key)
		}
		return v, nil
	},
	"add":  func(a, b int) int { return a + b },
	"mul":  func(a, b int) int { return a * b },
	"div":  func(a, b int) int { return a / b },
	"mod":  func(a, b int) int { return a % b },
}

// Names lists the embedded dashboards.
func Names() ([]string, error) {
	entries, err := templates.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	return names, nil
}

// RenderTo writes the named dashboard to w.
func RenderTo(w io.Writer, name string) error {
	t, err := template.New(name+".tmpl").Funcs(funcMap).ParseFS(templates, "templates/"+name+".tmpl")
	if err != nil {
		return err
	}
	return t.Execute(w, data{
		TelemetryTable: telemetry.TelemetryTableName,
		AnalysisTable:  telemetry.AnalysisTableName,
		Panels:         seriesPanels,
	})
}

// Render writes every embedded dashboard to outDir.
func Render(outDir string) error {
	names, err := Names()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, name := range names {
		f, err := os.Create(filepath.Join(outDir, name))
		if err != nil {
			return err
		}
		if err := RenderTo(f, name); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
