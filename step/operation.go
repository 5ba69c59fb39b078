// SPDX-License-Identifier: Apache-2.0

// Package step implements the Operation/TestStep/Store layer that sits on
// top of attr: a TestStep names an Operation (a precondition/effect pair)
// plus scheduling metadata, and a Store holds an ordered library of steps.
package step

import "stepplan/attr"

// Operation is a precondition/effect pair: Dependencies must hold in a
// state for the operation to be eligible, and Changes describes how the
// state is mutated when the operation runs (§3, §4.4).
type Operation struct {
	Dependencies attr.AttributeSet
	Changes      attr.AttributeSet
}

// Valid reports whether state satisfies the operation's preconditions.
func (o Operation) Valid(state attr.AttributeSet) bool {
	return state.ContainsAll(o.Dependencies)
}

// Apply returns a new state with o.Changes merged into state. Dependencies
// express a precondition, not an invariant: the result may or may not still
// satisfy o.Dependencies (§4.4).
func (o Operation) Apply(state attr.AttributeSet) attr.AttributeSet {
	return state.ApplyChanges(o.Changes)
}

// ApplyInPlace mutates state by merging o.Changes into it.
func (o Operation) ApplyInPlace(state *attr.AttributeSet) {
	state.ApplyChangesInPlace(o.Changes)
}
