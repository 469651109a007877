package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iotsec-sim",
	Short: "IoT access-control and energy simulation toolkit",
	Long:  "iotsec-sim runs wireless access-control and IoT energy scenarios and aggregates their telemetry.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(securityCmd)
	rootCmd.AddCommand(iotCmd)
	rootCmd.AddCommand(replayCmd)
}
