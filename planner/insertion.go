// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"fmt"

	"stepplan/attr"
	"stepplan/step"
)

// bestInsertionPoint finds the position in sequence at which inserting
// newStep yields the cheapest full replay (§4.5.3). It sweeps position 0
// through len(sequence) inclusive, maintaining accumulated, the state just
// before the swept position:
//
//   - Branch A (hypothetical insertion): simulate solving newStep's
//     dependencies, applying newStep, then replaying the remainder of
//     sequence from there, and records the total cost.
//   - Branch B (advance): solves the dependencies of sequence[i] itself —
//     this is expected to succeed, since the skeleton built so far must
//     already be feasible — and advances accumulated past it.
//
// Ties go to the earliest position (§4.5.5). An error surfaces in two cases:
// when Branch B itself fails, meaning the already-placed skeleton is not
// feasible from state; and, as an *InfeasibleDependenciesError, when no
// position admits newStep at all.
func bestInsertionPoint(state attr.AttributeSet, sequence []*step.TestStep, newStep *step.TestStep, steps []*step.TestStep, maxDepth int) (int, error) {
	type result struct {
		pos  int
		cost int
	}
	var best *result
	accumulated := state.Clone()
	// prefixCost is the cost of replaying sequence[0:i] from the original
	// state, accumulated alongside accumulated as the sweep advances. Each
	// position's total must include it: sequence[0:i]'s cost does not
	// depend on where newStep ends up, but it still varies by position (a
	// later position has replayed more of the skeleton), so omitting it
	// would bias the comparison toward later positions regardless of
	// newStep's actual dependency cost there.
	prefixCost := 0

	considerPosition := func(pos int) {
		candidate := accumulated.Clone()
		depCost, depPlan, err := solve(candidate, newStep.Op.Dependencies, steps, 0, maxDepth)
		if err != nil {
			return
		}
		for _, h := range depPlan {
			candidate.ApplyChangesInPlace(h.Op.Changes)
		}
		candidate.ApplyChangesInPlace(newStep.Op.Changes)

		tailCost, _, err := solveForSequence(candidate, sequence[pos:], steps, maxDepth)
		if err != nil {
			return
		}

		total := prefixCost + depCost + int(newStep.Cost) + tailCost
		if best == nil || total < best.cost {
			best = &result{pos: pos, cost: total}
		}
	}

	for i := 0; i <= len(sequence); i++ {
		considerPosition(i)
		if i == len(sequence) {
			break
		}

		s := sequence[i]
		depCost, depPlan, err := solve(accumulated, s.Op.Dependencies, steps, 0, maxDepth)
		if err != nil {
			return 0, fmt.Errorf("planner: skeleton step %q infeasible from accumulated state %s: %w", s.Short, accumulated, err)
		}
		for _, h := range depPlan {
			accumulated.ApplyChangesInPlace(h.Op.Changes)
		}
		accumulated.ApplyChangesInPlace(s.Op.Changes)
		prefixCost += depCost + int(s.Cost)
	}

	if best == nil {
		req, disc := state.Differences(newStep.Op.Dependencies)
		return 0, &InfeasibleDependenciesError{
			State:   state,
			Target:  newStep.Op.Dependencies,
			Missing: unionAttrs(req, disc),
			Err:     errNoCandidate,
		}
	}
	return best.pos, nil
}
