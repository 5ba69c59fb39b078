// SPDX-License-Identifier: Apache-2.0

// Package compound implements compound-attribute multiplexing (§4.3): a key
// that appears with two or more distinct values across a step library's
// changes is a "compound key", and any step whose dependencies reference
// that key in bare (valueless) form is expanded into one copy per value,
// cross-producted across every compound key it depends on.
package compound

import (
	"sort"

	"stepplan/step"
)

// BuildKeyMap scans every step's Changes for valued attributes and returns
// the compound key map: key -> sorted distinct values, restricted to keys
// that carry two or more distinct values. Keys with a single observed value
// are not compound and are omitted.
func BuildKeyMap(steps []*step.TestStep) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, s := range steps {
		for _, a := range s.Op.Changes.Attributes() {
			if !a.HasValue {
				continue
			}
			if seen[a.Key] == nil {
				seen[a.Key] = make(map[string]struct{})
			}
			seen[a.Key][a.Value] = struct{}{}
		}
	}

	keyMap := make(map[string][]string)
	for key, values := range seen {
		if len(values) < 2 {
			continue
		}
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		keyMap[key] = list
	}
	return keyMap
}

// Expand replaces every step whose dependencies reference a bare compound
// key with one copy per combination of values for the compound keys it
// depends on, rewriting each bare dependency key=value while preserving its
// polarity (§4.3). Steps that reference no compound key pass through
// unchanged. Calling Expand again on an already-expanded slice is a no-op,
// since expanded steps carry valued dependencies that no longer match any
// bare compound key (idempotent per §6.2).
func Expand(steps []*step.TestStep, keyMap map[string][]string) []*step.TestStep {
	if len(keyMap) == 0 {
		return steps
	}
	out := make([]*step.TestStep, 0, len(steps))
	for _, s := range steps {
		keys := compoundDepsOf(s, keyMap)
		if len(keys) == 0 {
			out = append(out, s)
			continue
		}
		out = append(out, expandOne(s, keys, keyMap)...)
	}
	return out
}

// compoundDepsOf returns the bare (valueless) dependency keys of s that
// appear in keyMap, in key-lexicographic order (the order
// AttributeSet.Attributes already returns).
func compoundDepsOf(s *step.TestStep, keyMap map[string][]string) []string {
	var keys []string
	for _, a := range s.Op.Dependencies.Attributes() {
		if a.HasValue {
			continue
		}
		if _, ok := keyMap[a.Key]; ok {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// expandOne produces one copy of s per combination of values for keys,
// each copy's dependencies rewritten from the bare key to key=value.
func expandOne(s *step.TestStep, keys []string, keyMap map[string][]string) []*step.TestStep {
	combos := cartesian(keys, keyMap)
	out := make([]*step.TestStep, 0, len(combos))
	for _, combo := range combos {
		deps := s.Op.Dependencies.Clone()
		for _, key := range keys {
			existing, _ := deps.Find(key)
			if existing.Forbidden {
				deps.ForbidValue(key, combo[key])
			} else {
				deps.RequireValue(key, combo[key])
			}
		}
		out = append(out, step.New(s.Short, s.Description, s.Script, s.Cost, s.Required, step.Operation{
			Dependencies: deps,
			Changes:      s.Op.Changes.Clone(),
		}))
	}
	return out
}

// cartesian returns every combination of values across keys, as key->value
// maps, varying the first key slowest and the last key fastest.
func cartesian(keys []string, keyMap map[string][]string) []map[string]string {
	combos := []map[string]string{{}}
	for _, k := range keys {
		var next []map[string]string
		for _, c := range combos {
			for _, v := range keyMap[k] {
				nc := make(map[string]string, len(c)+1)
				for existingKey, existingVal := range c {
					nc[existingKey] = existingVal
				}
				nc[k] = v
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}
