/*
main.go - Application entry point

PURPOSE:
  Command-line entry for the financial blueprint. Wires configuration,
  logging, the record store, the event publisher and the HTTP server.

COMMANDS:
  serve     HTTP API + background achievement scheduler (default)
  simulate  Run a savings simulation from flags and print the result

STARTUP SEQUENCE (serve):
  1. Load configuration (defaults, TOML, .env, environment)
  2. Initialize structured logging
  3. Open the store (SQLite or memory)
  4. Create the event publisher (Kafka or no-op)
  5. Start HTTP server and scheduler under one errgroup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler
  4. Close the publisher and the store

EXAMPLES:
  # Run with the default SQLite file
  ./server serve

  # Run with an in-memory store on another port
  DATA_BACKEND=memory PORT=3001 ./server

  # What-if savings projection
  ./server simulate --income 5000 --savings-goal 500 --months 12 \
      --expense housing=1500 --expense food=600

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
  - api/scheduler.go: Background achievement checks
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Financial blueprint API server",
	Long:          "Expense aggregation, savings simulation and achievements over a REST API.",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (default $FINANCE_CONFIG or ./finance.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
