package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"iotsec-sim/internal/config"
	"iotsec-sim/internal/engine"
	"iotsec-sim/internal/logging"
	"iotsec-sim/internal/sim"
)

var (
	replayAudit      string
	replayEnergy     string
	replayIntended   int
	replayConfigPath string
	replaySchemaPath string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded audit and energy logs",
	Long:  "replay feeds recorded JSONL logs back through a fresh aggregation run and prints the resulting summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayAudit == "" && replayEnergy == "" {
			return fmt.Errorf("at least one of --audit or --energy is required")
		}

		cfg, err := config.Load(replayConfigPath, replaySchemaPath)
		if err != nil {
			return err
		}

		log := logging.New()
		allow, initial := replayPolicy(cfg)

		eng := engine.New(uuid.NewString(), allow, nil, nil, nil, log)
		if err := sim.ReplayLogFiles(replayAudit, replayEnergy, eng); err != nil {
			return err
		}

		summary, err := eng.Finalize(initial, replayIntended)
		if err != nil {
			return err
		}
		sim.PrintSummary(os.Stdout, summary)
		return nil
	},
}

// replayPolicy rebuilds the allow-list and initial energy budget from the
// scenario configuration so replayed rows classify the same way.
func replayPolicy(cfg *config.Scenario) (*engine.AllowList, map[engine.Identity]float64) {
	var ids []engine.Identity
	for _, addr := range cfg.AllowedAddresses() {
		ids = append(ids, engine.Identity(addr))
	}

	var initial map[engine.Identity]float64
	if cfg.Devices.Count > 0 {
		fleet := sim.NewIoTScenario(cfg)
		ids = append(ids, fleet.DeviceIDs()...)
		initial = fleet.InitialEnergy()
	}
	return engine.NewAllowList(ids...), initial
}

func init() {
	replayCmd.Flags().StringVar(&replayAudit, "audit", "", "Path to a recorded audit log (JSONL)")
	replayCmd.Flags().StringVar(&replayEnergy, "energy", "", "Path to a recorded energy log (JSONL)")
	replayCmd.Flags().IntVar(&replayIntended, "intended", 0, "Intended send count for the delivery ratio")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "config/security.yaml", "Path to scenario configuration YAML")
	replayCmd.Flags().StringVar(&replaySchemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
}
