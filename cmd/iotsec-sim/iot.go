package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"iotsec-sim/internal/config"
	"iotsec-sim/internal/engine"
	"iotsec-sim/internal/logging"
	"iotsec-sim/internal/sim"
)

var (
	iotPrintOnly  bool
	iotJSONOut    bool
	iotTUI        bool
	iotConfigPath string
	iotSchemaPath string
	iotLogFile    string
	iotTracePath  string
	iotAdminAddr  string
)

var iotCmd = &cobra.Command{
	Use:   "iot",
	Short: "Run the IoT energy and delivery scenario",
	Long:  "iot drives a fleet of battery-powered devices sending constant-rate traffic, draining a linear radio energy model and tracing every level change.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(iotConfigPath, iotSchemaPath)
		if err != nil {
			return err
		}

		log := logging.New()
		scenario := sim.NewIoTScenario(cfg)
		allow := scenario.AllowList()

		var trace engine.TraceAppender
		if iotTracePath != "" {
			tw, err := sim.NewTraceWriter(iotTracePath)
			if err != nil {
				return err
			}
			defer tw.Close()
			trace = tw
		}

		audit, energy, cleanup, err := newWriters(allow, iotPrintOnly, iotJSONOut, iotTUI, iotLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		eng := engine.New(uuid.NewString(), allow, trace, audit, energy, log)
		collector, err := attachMetrics(eng, iotAdminAddr)
		if err != nil {
			return err
		}

		ctx := logging.NewContext(context.Background(), log)
		summary, err := scenario.Run(ctx, eng)
		if err != nil {
			return err
		}

		cleanup()
		sim.PrintSummary(os.Stdout, summary)

		return serveAdmin(eng, collector, iotAdminAddr, log)
	},
}

func init() {
	iotCmd.Flags().BoolVar(&iotPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	iotCmd.Flags().BoolVar(&iotJSONOut, "json", false, "Print rows as JSON lines instead of colorized output")
	iotCmd.Flags().BoolVar(&iotTUI, "tui", false, "Render the run in an interactive terminal UI")
	iotCmd.Flags().StringVar(&iotConfigPath, "config", "config/iot.yaml", "Path to scenario configuration YAML")
	iotCmd.Flags().StringVar(&iotSchemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
	iotCmd.Flags().StringVar(&iotLogFile, "log-file", "", "Path prefix to export audit/energy logs (JSONL)")
	iotCmd.Flags().StringVar(&iotTracePath, "trace", "energy-log.txt", "Path to the CSV energy trace (empty to disable)")
	iotCmd.Flags().StringVar(&iotAdminAddr, "admin-addr", "", "Serve /status and /metrics on this address after the run (e.g. :8080)")
}
