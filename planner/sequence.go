// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"stepplan/attr"
	"stepplan/step"
)

// solveForSequence replays a proposed order of required steps, synthesising
// helper steps on the fly to satisfy each one's dependencies (§4.5.2). It
// walks seq left to right against a running copy of state, and aborts with
// an error the moment any step's dependencies cannot be resolved.
func solveForSequence(state attr.AttributeSet, seq []*step.TestStep, steps []*step.TestStep, maxDepth int) (cost int, plan []*step.TestStep, err error) {
	working := state.Clone()
	var out []*step.TestStep
	total := 0

	for _, s := range seq {
		depCost, depPlan, derr := solve(working, s.Op.Dependencies, steps, 0, maxDepth)
		if derr != nil {
			return 0, nil, derr
		}
		for _, h := range depPlan {
			working.ApplyChangesInPlace(h.Op.Changes)
		}
		out = append(out, depPlan...)
		total += depCost

		out = append(out, s)
		working.ApplyChangesInPlace(s.Op.Changes)
		total += int(s.Cost)
	}

	return total, out, nil
}
