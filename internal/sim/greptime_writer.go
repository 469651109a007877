package sim

import (
	"context"
	"log"

	"iotsec-sim/internal/engine"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter writes audit and energy rows to GreptimeDB via the
// ingester client.
type GreptimeDBWriter struct {
	client      greptime.Client
	db          string
	auditTable  string
	energyTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates both
// tables if needed. Empty table names fall back to the row defaults.
func NewGreptimeDBWriter(endpoint, database, auditTable, energyTable string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	if auditTable == "" {
		auditTable = engine.ClassificationTableName
	}
	if energyTable == "" {
		energyTable = engine.EnergyTableName
	}

	auditDDL := `
CREATE TABLE IF NOT EXISTS ` + auditTable + ` (
  run_id STRING TAG,
  sender STRING TAG,
  verdict STRING,
  size_bytes BIGINT,
  sim_time_s DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, auditDDL); err != nil {
		return nil, err
	}

	energyDDL := `
CREATE TABLE IF NOT EXISTS ` + energyTable + ` (
  run_id STRING TAG,
  device_id STRING TAG,
  remaining_j DOUBLE,
  sim_time_s DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, energyDDL); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:      client,
		db:          database,
		auditTable:  auditTable,
		energyTable: energyTable,
	}, nil
}

// WriteClassification inserts a single audit row.
func (w *GreptimeDBWriter) WriteClassification(row engine.ClassificationRow) error {
	return w.WriteClassifications([]engine.ClassificationRow{row})
}

// WriteClassifications inserts multiple audit rows.
func (w *GreptimeDBWriter) WriteClassifications(rows []engine.ClassificationRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.auditTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("sender", types.StringType, 0)
	tbl.AddFieldColumn("verdict", types.StringType)
	tbl.AddFieldColumn("size_bytes", types.Int64Type)
	tbl.AddFieldColumn("sim_time_s", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("sender", r.Sender)
		tbl.AppendFieldValue("verdict", r.Verdict)
		tbl.AppendFieldValue("size_bytes", int64(r.SizeBytes))
		tbl.AppendFieldValue("sim_time_s", r.SimTimeS)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] audit write failed: %v", err)
		return err
	}
	return nil
}

// WriteEnergy inserts a single energy row.
func (w *GreptimeDBWriter) WriteEnergy(row engine.EnergyRow) error {
	return w.WriteEnergies([]engine.EnergyRow{row})
}

// WriteEnergies inserts multiple energy rows.
func (w *GreptimeDBWriter) WriteEnergies(rows []engine.EnergyRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.energyTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("device_id", types.StringType, 0)
	tbl.AddFieldColumn("remaining_j", types.Float64Type)
	tbl.AddFieldColumn("sim_time_s", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("device_id", r.DeviceID)
		tbl.AppendFieldValue("remaining_j", r.RemainingJ)
		tbl.AppendFieldValue("sim_time_s", r.SimTimeS)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] energy write failed: %v", err)
		return err
	}
	return nil
}
