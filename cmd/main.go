package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quant-dashboard",
	Short: "A CLI for managing the Quant Dashboard services",
	Long: `Quant Dashboard serves a mock quantitative trading dashboard.

  dashboard-service serve   runs the HTTP API and the scheduled portfolio digest
  migrate up|down           manages the Postgres key-value table used by the postgres storage driver`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
