package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/evoforge/gad-go/pkg/core"
)

var (
	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	title    = color.New(color.Bold).SprintFunc()
)

func printRun(run *core.Run) {
	fmt.Printf("%s %s (%s)\n", title("Run:"), run.Name, run.ID)
	fmt.Printf("Status: %s\n", statusLabel(run.Status))
	if run.FinalCandidateID != "" {
		fmt.Printf("Final candidate: %s\n", run.FinalCandidateID)
	}

	for _, gen := range run.Generations {
		fmt.Printf("\n%s %s\n", title(fmt.Sprintf("Generation %d", gen.Number)), strings.Repeat("-", 40))
		fmt.Printf("  %s\n", gen.Summary)
		fmt.Printf("  avg=%.2f best=%.2f\n", gen.AvgScore, gen.BestScore)

		for _, c := range gen.Candidates {
			printCandidate(c)
		}

		if len(gen.UCBAllocations) > 0 {
			fmt.Println("  Bandit allocation:")
			for _, s := range gen.UCBAllocations {
				fmt.Printf("    %-16s mean=%.3f bonus=%.3f selected=%d next=%d\n",
					s.AgentID, s.MeanReward, s.ExplorationBonus, s.TimesSelected,
					gen.NextAllocation[s.AgentID])
			}
		}
	}
}

func printCandidate(c *core.Candidate) {
	mark := passMark("PASS")
	if !c.GatesPassed {
		mark = failMark("FAIL")
	}
	flags := ""
	if c.IsParetoFront {
		flags += " [pareto]"
	}
	if c.SelectedForBreeding {
		flags += " [survivor]"
	}
	fmt.Printf("  %-14s %s score=%6.2f agent=%s%s\n",
		c.ID, mark, c.EffectiveScore, c.GeneratorAgentID, flags)

	if !c.GatesPassed {
		for _, g := range c.GateResults {
			if g.Passed {
				continue
			}
			detail := ""
			if g.Threshold != nil && g.Actual != nil {
				detail = fmt.Sprintf(" (threshold %.2f, actual %.2f)", *g.Threshold, *g.Actual)
			}
			fmt.Printf("      %s %s%s\n", failMark("x"), g.GateName, detail)
		}
	}
}
