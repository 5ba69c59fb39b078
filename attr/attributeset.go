// SPDX-License-Identifier: Apache-2.0
package attr

import (
	"sort"
	"strings"
)

// AttributeSet is an ordered collection of Attributes keyed by a key-prefix
// equivalence class: at most one polarity/value pair may be present per key
// (§3). Internally it is a slice sorted by Key, giving total, stable,
// key-lexicographic iteration order (§4.5.5) and O(log n) lookup.
//
// The zero value is an empty AttributeSet, ready to use.
type AttributeSet struct {
	items []Attribute
}

// New builds an AttributeSet from the given attributes, applying the same
// upsert-by-key replacement semantics as repeated Insert calls.
func New(attrs ...Attribute) AttributeSet {
	var s AttributeSet
	for _, a := range attrs {
		s.Insert(a)
	}
	return s
}

// indexOf returns the slice position of key, and whether it is present.
func (s AttributeSet) indexOf(key string) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].Key >= key })
	if i < len(s.items) && s.items[i].Key == key {
		return i, true
	}
	return i, false
}

// Find returns the attribute stored under key, if any.
func (s AttributeSet) Find(key string) (Attribute, bool) {
	if i, ok := s.indexOf(key); ok {
		return s.items[i], true
	}
	return Attribute{}, false
}

// Insert upserts an attribute by its equivalence class (key): a new key is
// added in sorted position; an existing key's polarity/value pair is
// replaced (§3: "k then !k ends as !k"; "k=a then k=b ends as k=b"; "k then
// k=a ends as k=a").
func (s *AttributeSet) Insert(a Attribute) {
	i, ok := s.indexOf(a.Key)
	if ok {
		s.items[i] = a
		return
	}
	s.items = append(s.items, Attribute{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = a
}

// Require upserts a required, valueless attribute.
func (s *AttributeSet) Require(key string) { s.Insert(Require(key)) }

// Forbid upserts a forbidden, valueless attribute.
func (s *AttributeSet) Forbid(key string) { s.Insert(Forbid(key)) }

// RequireValue upserts a required, valued attribute.
func (s *AttributeSet) RequireValue(key, value string) { s.Insert(RequireValue(key, value)) }

// ForbidValue upserts a forbidden, valued attribute.
func (s *AttributeSet) ForbidValue(key, value string) { s.Insert(ForbidValue(key, value)) }

// Erase removes the equivalence class for key, reporting whether anything
// was removed.
func (s *AttributeSet) Erase(key string) bool {
	i, ok := s.indexOf(key)
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Len reports the number of distinct keys held.
func (s AttributeSet) Len() int { return len(s.items) }

// IsEmpty reports whether the set holds no attributes.
func (s AttributeSet) IsEmpty() bool { return len(s.items) == 0 }

// Attributes returns a copy of the set's contents in key-lexicographic
// order. Mutating the result does not affect s.
func (s AttributeSet) Attributes() []Attribute {
	out := make([]Attribute, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy of s.
func (s AttributeSet) Clone() AttributeSet {
	return AttributeSet{items: s.Attributes()}
}

// Equal reports whether s and o hold the same attributes.
func (s AttributeSet) Equal(o AttributeSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// ContainsAll reports whether s satisfies every attribute in needle (§4.2):
// every required attribute in needle must be present in s with the same
// value and polarity; every forbidden attribute in needle must be either
// absent from s or also forbidden in s.
func (s AttributeSet) ContainsAll(needle AttributeSet) bool {
	for _, n := range needle.items {
		match, ok := s.Find(n.Key)
		if n.Forbidden {
			if ok && !match.Forbidden {
				return false
			}
			continue
		}
		if !ok || match.Forbidden || !sameValue(match, n) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether at least one attribute in needle is present in
// s under the same key with the same polarity and the same value (§4.2).
// Unlike ContainsAll, a forbidden needle attribute matches only a forbidden
// entry in s, never an absent key:
//
//	haystack = [one, two, three],  needle =  two  -> match
//	haystack = [one, two, three],  needle = !two  -> no match
//	haystack = [one, !two, three], needle =  two  -> no match
//	haystack = [one, !two, three], needle = !two  -> match
func (s AttributeSet) ContainsAny(needle AttributeSet) bool {
	for _, n := range needle.items {
		match, ok := s.Find(n.Key)
		if ok && match.Forbidden == n.Forbidden && sameValue(match, n) {
			return true
		}
	}
	return false
}

// ApplyChanges returns a copy of s with changes merged in: each required
// attribute in changes is upserted, each forbidden attribute erases its
// whole key-equivalence class from the result, stripping any valued entry
// under that key regardless of the forbid's own value payload (§4.2, §8
// scenario 6: "installed=candidate,onaccess" + "!installed" -> "onaccess").
func (s AttributeSet) ApplyChanges(changes AttributeSet) AttributeSet {
	out := s.Clone()
	out.ApplyChangesInPlace(changes)
	return out
}

// ApplyChangesInPlace mutates s by merging changes into it, in place.
func (s *AttributeSet) ApplyChangesInPlace(changes AttributeSet) {
	for _, c := range changes.items {
		if c.Forbidden {
			s.Erase(c.Key)
			continue
		}
		s.Insert(c)
	}
}

// Differences computes what must change in s for it to contain target
// (§4.2), splitting the answer into two AttributeSets:
//
//   - required: attributes target needs that s does not currently provide
//     (absent, or present under a different value/polarity).
//   - discard: attributes that must be forbidden in s first, because s
//     holds a stale value or polarity under that key.
//
// For each t in target:
//   - t required, absent from s             -> required += t
//   - t required, s has same key, different -> discard += forbid(key); required += t
//     value or s forbids the key
//   - t forbidden, s has a required match   -> discard += forbid(key)
//   - otherwise (already satisfied)         -> no-op
func (s AttributeSet) Differences(target AttributeSet) (required, discard AttributeSet) {
	for _, t := range target.items {
		match, ok := s.Find(t.Key)
		switch {
		case !ok:
			if !t.Forbidden {
				required.Insert(t)
			}
		case t.Forbidden:
			if !match.Forbidden {
				discard.Insert(Forbid(t.Key))
			}
		default:
			if match.Forbidden || !sameValue(match, t) {
				discard.Insert(Forbid(match.Key))
				required.Insert(t)
			}
		}
	}
	return required, discard
}

// String renders the set in its canonical comma-separated form, e.g.
// "a,!b,c=1", with no surrounding brackets and no spaces.
func (s AttributeSet) String() string {
	parts := make([]string, len(s.items))
	for i, a := range s.items {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
