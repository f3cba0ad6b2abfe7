package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evoforge/gad-go/pkg/storage"
)

var (
	inspectDBPath  string
	inspectRunID   string
	inspectBundles bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect runs stored in a SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := storage.Open(inspectDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if inspectRunID == "" {
			summaries, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("no runs stored")
				return nil
			}
			for _, s := range summaries {
				fmt.Printf("%s  %-40s %-10s generations=%d\n", s.ID, s.Name, s.Status, s.Generations)
			}
			return nil
		}

		run, err := store.LoadRun(ctx, inspectRunID)
		if err != nil {
			return err
		}
		printRun(run)

		if inspectBundles {
			bundles, err := store.BundlesForRun(ctx, inspectRunID)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s\n", title("DNA bundles"))
			for _, b := range bundles {
				fmt.Printf("  %-14s hash=%s parents=%d\n", b.CandidateID, b.ProvenanceHash[:12], len(b.ParentHashes))
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDBPath, "db", "gad.db", "SQLite database path")
	inspectCmd.Flags().StringVar(&inspectRunID, "run", "", "run id to inspect (lists runs when omitted)")
	inspectCmd.Flags().BoolVar(&inspectBundles, "bundles", false, "also print DNA bundles")
	rootCmd.AddCommand(inspectCmd)
}
