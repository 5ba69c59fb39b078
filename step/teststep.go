// SPDX-License-Identifier: Apache-2.0
package step

import "fmt"

// TestStep is a named Operation plus scheduling metadata: a non-negative
// cost, a required flag, a short identifier, a human description, and an
// opaque automation script (§3). TestSteps are created from a parsed
// record, held in a Store, and never mutated except via SetRequired.
type TestStep struct {
	Short       string
	Description string
	Script      string
	Cost        uint32
	Required    bool
	Op          Operation
}

// New builds a TestStep from the given fields. It applies no defaults; the
// step-record parser passes a cost of 0 when a record has no cost (§6.1).
func New(short, description, script string, cost uint32, required bool, op Operation) *TestStep {
	return &TestStep{
		Short:       short,
		Description: description,
		Script:      script,
		Cost:        cost,
		Required:    required,
		Op:          op,
	}
}

// SetRequired flips the step's required flag. It is the only mutation a
// TestStep undergoes after construction (§3).
func (s *TestStep) SetRequired(required bool) {
	s.Required = required
}

// String renders a short human summary, e.g. for REPL/CLI listings.
func (s *TestStep) String() string {
	return fmt.Sprintf("%s (cost=%d, required=%t): %s", s.Short, s.Cost, s.Required, s.Description)
}

// sameIdentity reports whether two steps share the dedup identity used by
// Store.Add: the pair (short, dependencies) (§3, §6.2).
func sameIdentity(a, b *TestStep) bool {
	return a.Short == b.Short && a.Op.Dependencies.Equal(b.Op.Dependencies)
}
