// SPDX-License-Identifier: Apache-2.0
package step

// Store holds an ordered library of TestSteps (§6.2). Insertion order is
// preserved after dedup: re-adding a step under the same (short,
// dependencies) identity removes the old entry and appends the new one at
// the end (§4.5.5), which is what makes candidate enumeration during
// planning deterministic.
//
// Store never copies a TestStep's Operation once stored; callers that want
// an independent copy should clone the attr.AttributeSets themselves before
// calling Add.
type Store struct {
	steps []*TestStep
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts s, or replaces an existing step sharing s's (short,
// dependencies) identity. A replaced step is removed from its old position
// and s is appended at the end, so the library's iteration order always
// reflects add/replace order, not first-seen order.
func (st *Store) Add(s *TestStep) {
	for i, existing := range st.steps {
		if sameIdentity(existing, s) {
			st.steps = append(st.steps[:i], st.steps[i+1:]...)
			break
		}
	}
	st.steps = append(st.steps, s)
}

// MarkRequired sets the required flag on every step in the library whose
// Short matches, and reports whether at least one step matched.
func (st *Store) MarkRequired(short string, required bool) bool {
	found := false
	for _, s := range st.steps {
		if s.Short == short {
			s.SetRequired(required)
			found = true
		}
	}
	return found
}

// Lookup returns the first step in the library with the given Short.
func (st *Store) Lookup(short string) (*TestStep, bool) {
	for _, s := range st.steps {
		if s.Short == short {
			return s, true
		}
	}
	return nil, false
}

// RequiredSteps returns every step currently flagged required, in library
// order. Compound-attribute expansion (§4.3) of bare compound dependencies
// is a planning-time concern performed by planner.Calculate over the full
// library, not here — see internal/compound and DESIGN.md for why that
// responsibility sits in the planner package rather than in Store.
func (st *Store) RequiredSteps() []*TestStep {
	var required []*TestStep
	for _, s := range st.steps {
		if s.Required {
			required = append(required, s)
		}
	}
	return required
}

// AllSteps returns every step in the library, in library order.
func (st *Store) AllSteps() []*TestStep {
	out := make([]*TestStep, len(st.steps))
	copy(out, st.steps)
	return out
}

// Len reports the number of steps currently in the library.
func (st *Store) Len() int {
	return len(st.steps)
}
