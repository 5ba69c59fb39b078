// SPDX-License-Identifier: Apache-2.0

// Package repl implements an interactive shell over a step.Store and a
// simulated AttributeSet, adapted from the teacher compiler's repl
// package: the same bufio.Scanner-over-io.Reader prompt loop, generalized
// from "parse one line of source" to a small colon-command dispatcher
// (:load, :require, :state, :plan, :reset).
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"stepplan/attr"
	"stepplan/internal/diag"
	"stepplan/internal/stepfile"
	"stepplan/planner"
	"stepplan/step"
)

const PROMPT = "stepplan> "

// REPL holds the session's current library and simulated state.
type REPL struct {
	store   *step.Store
	initial attr.AttributeSet
	out     io.Writer
}

// New returns an empty REPL, with no steps loaded and the empty initial
// state.
func New(out io.Writer) *REPL {
	return &REPL{store: step.NewStore(), out: out}
}

// Start runs the read-eval-print loop over in, writing prompts and output
// to the REPL's configured writer, until in is exhausted.
func Start(in io.Reader, out io.Writer) {
	r := New(out)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.dispatch(line)
	}
}

func (r *REPL) dispatch(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case ":load":
		r.load(rest)
	case ":require":
		r.require(rest)
	case ":state":
		r.state()
	case ":plan":
		r.plan()
	case ":reset":
		r.reset()
	default:
		fmt.Fprintf(r.out, "unknown command %q (try :load, :require, :state, :plan, :reset)\n", cmd)
	}
}

func (r *REPL) load(dir string) {
	if dir == "" {
		fmt.Fprintln(r.out, "usage: :load <directory>")
		return
	}
	store, err := stepfile.LoadDir(os.DirFS(dir), ".", func(d diag.Diagnostic) {
		color.New(color.FgYellow).Fprintf(r.out, "warning: %s\n", d.Message)
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(r.out, "load failed: %v\n", err)
		return
	}
	r.store = store
	color.New(color.FgGreen).Fprintf(r.out, "loaded %d step(s) from %s\n", store.Len(), dir)
}

func (r *REPL) require(short string) {
	if short == "" {
		fmt.Fprintln(r.out, "usage: :require <short>")
		return
	}
	if !r.store.MarkRequired(short, true) {
		fmt.Fprintf(r.out, "no step named %q in the loaded library\n", short)
		return
	}
	fmt.Fprintf(r.out, "%s marked required\n", short)
}

func (r *REPL) state() {
	fmt.Fprintf(r.out, "%s\n", r.initial)
}

func (r *REPL) plan() {
	plan, cost, err := planner.Calculate(r.store, r.initial)
	if err != nil {
		color.New(color.FgRed).Fprintf(r.out, "plan failed: %v\n", err)
		return
	}
	for _, s := range plan {
		fmt.Fprintf(r.out, "  %s (cost=%d)\n", s.Short, s.Cost)
	}
	fmt.Fprintf(r.out, "total cost: %d\n", cost)
}

func (r *REPL) reset() {
	r.store = step.NewStore()
	r.initial = attr.AttributeSet{}
	fmt.Fprintln(r.out, "library and state reset")
}
