// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"stepplan/attr"
	"stepplan/internal/compound"
	"stepplan/step"
)

// Progress is an advisory, suppressible callback reporting how many
// required steps have been placed into the skeleton so far, out of the
// total required (§5: "may be emitted... but this is advisory and must be
// suppressible"). A nil Progress is a no-op.
type Progress func(done, total int)

// Option configures a Calculate call.
type Option func(*config)

type config struct {
	maxDepth int
	progress Progress
}

// WithMaxDepth overrides solve's recursion depth bound (default 64).
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithProgress registers a progress callback invoked as each required step
// is placed during Calculate.
func WithProgress(p Progress) Option {
	return func(c *config) { c.progress = p }
}

// Calculate is the assembly driver (§4.5.4, §6.2 Planner::calculate): it
// compound-expands store's full library (§4.3), places each required step
// into a skeleton one at a time via bestInsertionPoint, then replays the
// finished skeleton once with solveForSequence to produce the final plan.
//
// Calculate is a pure function of store's current contents and initial:
// it does not mutate store, spawns no goroutines, and returns the same
// plan for the same inputs every time (§5, §8 determinism property).
func Calculate(store *step.Store, initial attr.AttributeSet, opts ...Option) (plan []*step.TestStep, cost int, err error) {
	cfg := config{maxDepth: defaultMaxDepth}
	for _, o := range opts {
		o(&cfg)
	}

	allSteps := store.AllSteps()
	keyMap := compound.BuildKeyMap(allSteps)
	expanded := compound.Expand(allSteps, keyMap)

	var required []*step.TestStep
	for _, s := range expanded {
		if s.Required {
			required = append(required, s)
		}
	}

	skeleton := make([]*step.TestStep, 0, len(required))
	for i, req := range required {
		pos, err := bestInsertionPoint(initial, skeleton, req, expanded, cfg.maxDepth)
		if err != nil {
			return nil, 0, &UnsatisfiableError{Step: req, Err: err}
		}
		skeleton = insertAt(skeleton, pos, req)
		if cfg.progress != nil {
			cfg.progress(i+1, len(required))
		}
	}

	finalCost, finalPlan, err := solveForSequence(initial, skeleton, expanded, cfg.maxDepth)
	if err != nil {
		return nil, 0, &UnsatisfiableError{Err: err}
	}
	return finalPlan, finalCost, nil
}

// insertAt returns a copy of seq with s inserted at position pos.
func insertAt(seq []*step.TestStep, pos int, s *step.TestStep) []*step.TestStep {
	out := make([]*step.TestStep, 0, len(seq)+1)
	out = append(out, seq[:pos]...)
	out = append(out, s)
	out = append(out, seq[pos:]...)
	return out
}
