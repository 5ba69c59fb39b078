// SPDX-License-Identifier: Apache-2.0
package planner

import (
	"errors"
	"fmt"

	"stepplan/attr"
	"stepplan/step"
)

// defaultMaxDepth bounds solve's recursion when the step library contains
// cycles (§9). The original source relied on the target shrinking with each
// recursive call and carried no explicit guard; this implementation
// documents a fixed depth bound instead; 64 comfortably exceeds any
// dependency chain observed in the test scenarios while still catching a
// genuine cycle quickly.
const defaultMaxDepth = 64

// solve finds the cheapest sequence of steps that brings state to contain
// target (§4.5.1). It returns the sequence's total cost and the ordered
// plan on success. Failure (no candidate reaches target within maxDepth) is
// reported via a non-nil error — this implementation's single failure
// encoding, replacing the historical source's two or three competing
// sentinel conventions (§9 open question).
func solve(state attr.AttributeSet, target attr.AttributeSet, steps []*step.TestStep, depth, maxDepth int) (cost int, plan []*step.TestStep, err error) {
	if depth > maxDepth {
		return 0, nil, fmt.Errorf("%w: depth %d solving for %s", errDepthExceeded, depth, target)
	}

	required, discard := state.Differences(target)
	if required.IsEmpty() && discard.IsEmpty() {
		return 0, nil, nil
	}

	type candidate struct {
		cost int
		plan []*step.TestStep
	}
	var best *candidate
	var missing attr.AttributeSet
	failure := errNoCandidate

	for _, c := range steps {
		if !c.Op.Changes.ContainsAny(required) && !c.Op.Changes.ContainsAny(discard) {
			continue
		}

		var subCost int
		var subPlan []*step.TestStep
		if c.Op.Valid(state) {
			subCost, subPlan = 0, nil
		} else {
			sc, sp, serr := solve(state, c.Op.Dependencies, steps, depth+1, maxDepth)
			if serr != nil {
				if errors.Is(serr, errDepthExceeded) {
					failure = serr
				}
				req, disc := state.Differences(c.Op.Dependencies)
				missing = unionAttrs(missing, req)
				missing = unionAttrs(missing, disc)
				continue
			}
			subCost, subPlan = sc, sp
		}

		totalCost := subCost + int(c.Cost)
		if best != nil && totalCost >= best.cost {
			continue
		}
		candidatePlan := make([]*step.TestStep, 0, len(subPlan)+1)
		candidatePlan = append(candidatePlan, subPlan...)
		candidatePlan = append(candidatePlan, c)
		best = &candidate{cost: totalCost, plan: candidatePlan}
	}

	if best == nil {
		return 0, nil, &InfeasibleDependenciesError{State: state, Target: target, Missing: missing, Err: failure}
	}

	simState := state.Clone()
	for _, s := range best.plan {
		simState.ApplyChangesInPlace(s.Op.Changes)
	}
	if simState.ContainsAll(target) {
		return best.cost, best.plan, nil
	}

	tailCost, tailPlan, err := solve(simState, target, steps, depth+1, maxDepth)
	if err != nil {
		return 0, nil, err
	}
	finalPlan := make([]*step.TestStep, 0, len(best.plan)+len(tailPlan))
	finalPlan = append(finalPlan, best.plan...)
	finalPlan = append(finalPlan, tailPlan...)
	return best.cost + tailCost, finalPlan, nil
}

// unionAttrs returns a set containing every attribute in a or b, keyed as
// usual by AttributeSet's upsert-by-key semantics.
func unionAttrs(a, b attr.AttributeSet) attr.AttributeSet {
	out := a.Clone()
	for _, x := range b.Attributes() {
		out.Insert(x)
	}
	return out
}
