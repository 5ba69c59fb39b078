// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"stepplan/attr"
	"stepplan/step"
)

func shorts(plan []*step.TestStep) []string {
	out := make([]string, len(plan))
	for i, s := range plan {
		out[i] = s.Short
	}
	return out
}

func equalShorts(t *testing.T, got []*step.TestStep, want []string) {
	t.Helper()
	g := shorts(got)
	if len(g) != len(want) {
		t.Fatalf("plan %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("plan %v, want %v", g, want)
		}
	}
}

// Scenario 1: linear chain.
func TestScenarioLinearChain(t *testing.T) {
	store := step.NewStore()
	store.Add(step.New("A", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.Require("x")),
	}))
	store.Add(step.New("B", "", "", 1, false, step.Operation{
		Dependencies: attr.New(attr.Require("x")),
		Changes:      attr.New(attr.Require("y")),
	}))
	store.Add(step.New("C", "", "", 1, true, step.Operation{
		Dependencies: attr.New(attr.Require("y")),
	}))

	plan, cost, err := Calculate(store, attr.AttributeSet{})
	require.NoError(t, err)
	equalShorts(t, plan, []string{"A", "B", "C"})
	require.Equal(t, 3, cost)
}

// Scenario 2: cycle through re-require.
func TestScenarioCycleThroughReRequire(t *testing.T) {
	store := step.NewStore()
	store.Add(step.New("one", "", "", 1, true, step.Operation{
		Dependencies: attr.New(attr.Require("two"), attr.Require("three")),
		Changes:      attr.New(attr.Forbid("three")),
	}))
	store.Add(step.New("two", "", "", 2, false, step.Operation{
		Dependencies: attr.New(attr.Require("three")),
		Changes:      attr.New(attr.Require("two"), attr.Forbid("three")),
	}))
	store.Add(step.New("three", "", "", 3, false, step.Operation{
		Dependencies: attr.New(attr.Require("banana")),
		Changes:      attr.New(attr.Require("three")),
	}))

	initial := attr.New(attr.Require("banana"))
	plan, cost, err := Calculate(store, initial)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	equalShorts(t, plan, []string{"three", "two", "three", "one"})
	if cost != 9 {
		t.Fatalf("cost = %d, want 9", cost)
	}
}

// Scenario 3: compound multiplexing.
func TestScenarioCompoundMultiplexing(t *testing.T) {
	store := step.NewStore()
	store.Add(step.New("one", "", "", 1, true, step.Operation{
		Dependencies: attr.New(attr.Require("two"), attr.Require("three"), attr.Require("four")),
		Changes:      attr.New(attr.Forbid("three")),
	}))
	store.Add(step.New("two_one", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.RequireValue("two", "1")),
	}))
	store.Add(step.New("two_two", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.RequireValue("two", "2")),
	}))
	store.Add(step.New("three_one", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.RequireValue("three", "1")),
	}))
	store.Add(step.New("three_two", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.RequireValue("three", "2")),
	}))
	store.Add(step.New("four", "", "", 1, false, step.Operation{
		Changes: attr.New(attr.Require("four")),
	}))

	plan, _, err := Calculate(store, attr.AttributeSet{})
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if len(plan) != 11 {
		t.Fatalf("plan length = %d, want 11: %v", len(plan), shorts(plan))
	}
	count := 0
	for _, s := range plan {
		if s.Short == "one" {
			count++
		}
	}
	if count != 4 {
		t.Fatalf("step one appears %d times, want 4", count)
	}
}

// Scenario 4: cheaper-setup amortisation, single required work step.
func TestScenarioAmortisedSetupSingleWork(t *testing.T) {
	store := step.NewStore()
	store.Add(step.New("work", "", "", 1, true, step.Operation{
		Dependencies: attr.New(attr.Require("prep")),
		Changes:      attr.New(attr.Forbid("prep")),
	}))
	store.Add(step.New("simple", "", "", 3, false, step.Operation{
		Changes: attr.New(attr.Require("prep")),
	}))
	store.Add(step.New("optimal", "", "", 1, false, step.Operation{
		Dependencies: attr.New(attr.Require("setup")),
		Changes:      attr.New(attr.Require("prep")),
	}))
	store.Add(step.New("setup", "", "", 3, false, step.Operation{
		Changes: attr.New(attr.Require("setup")),
	}))

	plan, cost, err := Calculate(store, attr.AttributeSet{})
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	equalShorts(t, plan, []string{"simple", "work"})
	if cost != 4 {
		t.Fatalf("cost = %d, want 4", cost)
	}
}

// Scenario 4: cheaper-setup amortisation, three required work steps.
func TestScenarioAmortisedSetupThreeWork(t *testing.T) {
	store := step.NewStore()
	work := step.Operation{
		Dependencies: attr.New(attr.Require("prep")),
		Changes:      attr.New(attr.Forbid("prep")),
	}
	store.Add(step.New("work1", "", "", 1, true, work))
	store.Add(step.New("work2", "", "", 1, true, step.Operation{
		Dependencies: work.Dependencies.Clone(),
		Changes:      work.Changes.Clone(),
	}))
	store.Add(step.New("work3", "", "", 1, true, step.Operation{
		Dependencies: work.Dependencies.Clone(),
		Changes:      work.Changes.Clone(),
	}))
	store.Add(step.New("simple", "", "", 3, false, step.Operation{
		Changes: attr.New(attr.Require("prep")),
	}))
	store.Add(step.New("optimal", "", "", 1, false, step.Operation{
		Dependencies: attr.New(attr.Require("setup")),
		Changes:      attr.New(attr.Require("prep")),
	}))
	store.Add(step.New("setup", "", "", 3, false, step.Operation{
		Changes: attr.New(attr.Require("setup")),
	}))

	plan, cost, err := Calculate(store, attr.AttributeSet{})
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	// solve resolves each required step's dependencies independently, by the
	// cheapest single use (§4.5.1): since no step it solves for work1 ever
	// establishes "setup", work2 and work3 each face the same from-scratch
	// choice and independently pick "simple" too. Amortising "setup" across
	// all three uses would be cheaper in aggregate (cost 9) but requires
	// weighing future required steps that have not been placed yet, which
	// solve's per-call, lookahead-free cost comparison does not do (§9: this
	// is the documented resolution of that open question — see DESIGN.md).
	// Each placement of a "work" step is symmetric with the ones already in
	// the skeleton (same Operation), so every insertion position ties on
	// total cost; ties resolve to the earliest position (§4.5.5), which
	// means each new required step is spliced in ahead of its predecessors.
	equalShorts(t, plan, []string{"simple", "work3", "simple", "work2", "simple", "work1"})
	if cost != 12 {
		t.Fatalf("cost = %d, want 12", cost)
	}
}

// Scenario 5: infeasible.
func TestScenarioInfeasible(t *testing.T) {
	store := step.NewStore()
	store.Add(step.New("needs-z", "", "", 1, true, step.Operation{
		Dependencies: attr.New(attr.Require("z")),
	}))

	_, _, err := Calculate(store, attr.AttributeSet{})
	require.Error(t, err)
	var unsatisfiable *UnsatisfiableError
	require.True(t, errors.As(err, &unsatisfiable), "expected *UnsatisfiableError, got %T: %v", err, err)
}

// Scenario 6: compound forbid during apply, at the planner/step level.
func TestScenarioCompoundForbidApply(t *testing.T) {
	state := attr.New(attr.RequireValue("installed", "candidate"), attr.Require("onaccess"))
	op := step.Operation{Changes: attr.New(attr.Forbid("installed"))}
	got := op.Apply(state)
	if got.String() != "onaccess" {
		t.Fatalf("got %q, want %q", got.String(), "onaccess")
	}
}
