package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/demo"
	"github.com/evoforge/gad-go/pkg/logging"
	"github.com/evoforge/gad-go/pkg/storage"
)

var (
	runSeed        int64
	runGenerations int
	runConfigPath  string
	runDBPath      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a seeded sample evolution run through the engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sources := []config.Source{config.NewEnvSource()}
		if runConfigPath != "" {
			sources = append(sources, config.NewFileSource(runConfigPath))
		}
		cfg, err := config.Load(sources...)
		if err != nil {
			return err
		}
		configureLogging(cfg)

		builder, err := demo.NewBuilder(cfg, runSeed)
		if err != nil {
			return err
		}
		run, err := builder.BuildRun(ctx, runGenerations)
		if err != nil {
			return err
		}

		printRun(run)

		if runDBPath != "" {
			store, err := storage.Open(runDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveRun(ctx, run); err != nil {
				return err
			}
			for _, b := range builder.Tracker().Bundles() {
				if err := store.PutBundle(ctx, run.ID, b); err != nil {
					return err
				}
			}
			fmt.Printf("\nSaved run %s to %s\n", run.ID, runDBPath)
		}
		return nil
	},
}

func configureLogging(cfg *config.Config) {
	outputs := []logging.Output{logging.NewConsoleOutput(true)}
	if cfg.Logging.File != "" {
		if fo, err := logging.NewFileOutput(cfg.Logging.File); err == nil {
			outputs = append(outputs, fo)
		}
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Logging.Level),
		Outputs:  outputs,
	}))
}

func init() {
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "seed for the demo data generator")
	runCmd.Flags().IntVar(&runGenerations, "generations", 5, "maximum generations to evolve")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a YAML engine config")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "SQLite path to persist the run (optional)")
	rootCmd.AddCommand(runCmd)
}

func statusLabel(s core.RunStatus) string {
	switch s {
	case core.RunCompleted:
		return "completed"
	case core.RunStalled:
		return "stalled (breeding dead end)"
	default:
		return string(s)
	}
}
