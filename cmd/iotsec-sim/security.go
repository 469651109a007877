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
	secPrintOnly  bool
	secJSONOut    bool
	secTUI        bool
	secConfigPath string
	secSchemaPath string
	secLogFile    string
	secAdminAddr  string
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Run the wireless access-control scenario",
	Long:  "security schedules packets from configured senders against an access point and classifies every arrival against the allow-list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(secConfigPath, secSchemaPath)
		if err != nil {
			return err
		}

		log := logging.New()
		scenario := sim.NewSecurityScenario(cfg)
		allow := scenario.AllowList()

		audit, energy, cleanup, err := newWriters(allow, secPrintOnly, secJSONOut, secTUI, secLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		eng := engine.New(uuid.NewString(), allow, nil, audit, energy, log)
		collector, err := attachMetrics(eng, secAdminAddr)
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

		return serveAdmin(eng, collector, secAdminAddr, log)
	},
}

func init() {
	securityCmd.Flags().BoolVar(&secPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	securityCmd.Flags().BoolVar(&secJSONOut, "json", false, "Print rows as JSON lines instead of colorized output")
	securityCmd.Flags().BoolVar(&secTUI, "tui", false, "Render the run in an interactive terminal UI")
	securityCmd.Flags().StringVar(&secConfigPath, "config", "config/security.yaml", "Path to scenario configuration YAML")
	securityCmd.Flags().StringVar(&secSchemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
	securityCmd.Flags().StringVar(&secLogFile, "log-file", "", "Path prefix to export audit/energy logs (JSONL)")
	securityCmd.Flags().StringVar(&secAdminAddr, "admin-addr", "", "Serve /status and /metrics on this address after the run (e.g. :8080)")
}
