package main

import (
	"context"
	"fmt"
	"os"

	"budgetflow/internal/backend"
	"budgetflow/internal/cli"
	"budgetflow/internal/log"
	"budgetflow/internal/sheets"
)

const usage = `usage: budgetflow <command> [flags]

commands:
  report      period snapshot (aggregate, top categories, insights)
  dashboard   snapshots of every period
  planned     planned items with their status
  pay         mark a planned item paid and record the transaction
  add         record a transaction
  delete      delete a transaction
  budget      show or update the budget
  categories  list known categories
  export      write a period report to the configured spreadsheet
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, logger := cli.Bootstrap(log.ComponentCLI)
	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	e := &env{
		app: app,
		out: os.Stdout,
		reportWriter: func(ctx context.Context) (sheets.ReportWriter, error) {
			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return nil, err
			}
			return backend.NewFactory(logger).CreateReportWriter(ctx, bcfg)
		},
	}

	if err := e.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if err == errUsage {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("Command failed", log.FieldOperation, os.Args[1], log.FieldError, err)
		fmt.Fprintln(os.Stderr, "error:", err)
		app.Close()
		os.Exit(1)
	}
}
