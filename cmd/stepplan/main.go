// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"stepplan/attr"
	"stepplan/internal/diag"
	"stepplan/internal/persistlog"
	"stepplan/internal/presets"
	"stepplan/internal/stepfile"
	"stepplan/planner"
	"stepplan/repl"
	"stepplan/step"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run builds a plan from either a directory of step records or a named
// preset, optionally resuming from a persisted log, and prints the result.
// Exit codes follow §6.3: 0 on a produced plan, 1 on a surfaced planner
// error.
func run(args []string) int {
	fs := flag.NewFlagSet("stepplan", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory of step records to load")
	preset := fs.String("preset", "", "named preset bundle to load (see -list-presets)")
	resume := fs.String("resume", "", "resume log path to recover prior state from")
	listPresets := fs.Bool("list-presets", false, "print known preset names and exit")
	interactive := fs.Bool("repl", false, "start the interactive REPL instead of planning once")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *listPresets {
		for _, name := range presets.Names() {
			fmt.Println(name)
		}
		return 0
	}

	if *interactive {
		repl.Start(os.Stdin, os.Stdout)
		return 0
	}

	var (
		store   *step.Store
		initial attr.AttributeSet
		err     error
	)

	switch {
	case *dir != "":
		store, err = stepfile.LoadDir(os.DirFS(*dir), ".", reportDiagnostic(*dir))
	case *preset != "":
		store, initial, err = presets.Load(*preset, reportDiagnostic(*preset))
	default:
		color.Red("stepplan: one of -dir or -preset is required")
		return 1
	}
	if err != nil {
		printErr(err)
		return 1
	}

	if *resume != "" {
		log, rerr := persistlog.Read(*resume)
		if rerr != nil {
			printErr(rerr)
			return 1
		}
		if log.HasState {
			initial = log.State
		}
		for _, short := range log.CompletedShorts() {
			store.MarkRequired(short, false)
		}
	}

	plan, cost, err := planner.Calculate(store, initial)
	if err != nil {
		printPlannerErr(err)
		return 1
	}

	for _, s := range plan {
		fmt.Printf("  %s (cost=%d)\n", s.Short, s.Cost)
	}
	color.Green("plan: %d step(s), total cost %d", len(plan), cost)
	return 0
}

func reportDiagnostic(filename string) func(diag.Diagnostic) {
	reporter := diag.NewReporter("")
	return func(d diag.Diagnostic) {
		fmt.Fprint(os.Stderr, reporter.Format(d))
	}
}

func printErr(err error) {
	color.Red("stepplan: %v", err)
}

func printPlannerErr(err error) {
	var unsatisfiable *planner.UnsatisfiableError
	var infeasible *planner.InfeasibleDependenciesError
	switch {
	case errors.As(err, &unsatisfiable):
		color.Red("stepplan: no feasible plan: %v", err)
	case errors.As(err, &infeasible):
		color.Red("stepplan: missing attributes %s: %v", infeasible.Missing, err)
	default:
		color.Red("stepplan: %v", err)
	}
}
