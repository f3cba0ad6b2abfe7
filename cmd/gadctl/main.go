package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gadctl",
	Short: "CLI for running and inspecting GAD evolution runs",
	Long: `A command-line interface for the gad-go evolution engine.

gadctl drives a full generation-to-generation cycle: candidates are scored
against quality dimensions, filtered by hard gates, ranked for Pareto
trade-offs, and used to allocate the next generation's budget across
generator agents. Runs can be persisted to SQLite and inspected later.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
