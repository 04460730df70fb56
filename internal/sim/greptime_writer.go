package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"rocketintel-sim/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

const (
	defaultGreptimePort  = 4001
	greptimeWriteTimeout = 5 * time.Second
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes telemetry and analyses to GreptimeDB via the
// ingester client. Tables are created by the server on first write.
type GreptimeDBWriter struct {
	client        greptimeClient
	table         string
	analysisTable string
}

// NewGreptimeDBWriter connects to endpoint (host or host:port). Empty
// table names fall back to the telemetry package defaults.
func NewGreptimeDBWriter(endpoint, database, tableName, analysisTable string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if tableName == "" {
		tableName = telemetry.TelemetryTableName
	}
	if analysisTable == "" {
		analysisTable = telemetry.AnalysisTableName
	}
	return &GreptimeDBWriter{client: client, table: tableName, analysisTable: analysisTable}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "grpc://")
	if !strings.Contains(endpoint, ":") {
		return endpoint, defaultGreptimePort, nil
	}
	host, p, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime endpoint %q: %w", endpoint, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", p, err)
	}
	return host, port, nil
}

// Write inserts a single telemetry row.
func (w *GreptimeDBWriter) Write(row telemetry.TelemetryRow) error {
	return w.WriteBatch([]telemetry.TelemetryRow{row})
}

// WriteBatch inserts multiple telemetry rows in one request.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	tags := []string{"run_id", "vehicle_id", "rocket_id"}
	for _, c := range tags {
		if err := tbl.AddTagColumn(c, types.STRING); err != nil {
			return err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"phase", types.STRING},
		{"mission_time", types.FLOAT64},
		{"altitude", types.FLOAT64},
		{"speed", types.FLOAT64},
		{"acceleration", types.FLOAT64},
		{"fuel", types.FLOAT64},
		{"temperature", types.FLOAT64},
		{"pressure", types.FLOAT64},
		{"thrust_multiplier", types.FLOAT64},
		{"thrust_kn", types.FLOAT64},
		{"status", types.STRING},
		{"engine_status", types.STRING},
		{"fuel_status", types.STRING},
		{"guidance_status", types.STRING},
		{"temperature_status", types.STRING},
		{"traj_x", types.FLOAT64},
		{"traj_y", types.FLOAT64},
		{"traj_z", types.FLOAT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		var tx, ty, tz float64
		if r.Trajectory != nil {
			tx, ty, tz = r.Trajectory.X, r.Trajectory.Y, r.Trajectory.Z
		}
		err := tbl.AddRow(
			r.RunID, r.VehicleID, r.RocketID,
			r.Phase.String(), r.MissionTime,
			r.Altitude, r.Speed, r.Acceleration, r.Fuel, r.Temperature, r.Pressure,
			r.ThrustMultiplier, r.ThrustKN,
			r.Anomaly.Overall.String(), r.Anomaly.Engine.String(), r.Anomaly.Fuel.String(),
			r.Anomaly.Guidance.String(), r.Anomaly.Temperature.String(),
			tx, ty, tz,
			r.Timestamp,
		)
		if err != nil {
			return err
		}
	}
	return w.write(w.table, tbl)
}

// WriteAnalysis inserts one analysis row.
func (w *GreptimeDBWriter) WriteAnalysis(row telemetry.AnalysisRow) error {
	tbl, err := table.New(w.analysisTable)
	if err != nil {
		return err
	}
	for _, c := range []string{"run_id", "vehicle_id"} {
		if err := tbl.AddTagColumn(c, types.STRING); err != nil {
			return err
		}
	}
	if err := tbl.AddFieldColumn("mission_time", types.FLOAT64); err != nil {
		return err
	}
	for _, c := range []string{"phase", "overall_risk"} {
		if err := tbl.AddFieldColumn(c, types.STRING); err != nil {
			return err
		}
	}
	if err := tbl.AddFieldColumn("predictions", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("recommendations", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	err = tbl.AddRow(row.RunID, row.VehicleID, row.MissionTime, row.Phase, row.OverallRisk,
		int64(len(row.Predictions)), strings.Join(row.Recommendations, "; "), row.Timestamp)
	if err != nil {
		return err
	}
	return w.write(w.analysisTable, tbl)
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table) error {
	ctx, cancel := context.WithTimeout(context.Background(), greptimeWriteTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write %s: %w", name, err)
	}
	return nil
}
