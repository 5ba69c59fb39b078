// SPDX-License-Identifier: Apache-2.0

// Package attr implements the attribute algebra that underlies the planner:
// a single fact (Attribute) with a key, an optional value, and a polarity,
// and an ordered collection of such facts (AttributeSet) with key-prefix
// equivalence semantics.
package attr

import "strings"

// Attribute is a single fact with a key, an optional value, and a polarity
// flag. Its textual form is one of "k", "k=v", "!k", "!k=v".
type Attribute struct {
	Key       string
	Value     string
	HasValue  bool
	Forbidden bool
}

// Require builds a required, valueless attribute: "k".
func Require(key string) Attribute {
	return Attribute{Key: key}
}

// Forbid builds a forbidden, valueless attribute: "!k".
func Forbid(key string) Attribute {
	return Attribute{Key: key, Forbidden: true}
}

// RequireValue builds a required, valued attribute: "k=v".
func RequireValue(key, value string) Attribute {
	return Attribute{Key: key, Value: value, HasValue: true}
}

// ForbidValue builds a forbidden, valued attribute: "!k=v".
func ForbidValue(key, value string) Attribute {
	return Attribute{Key: key, Value: value, HasValue: true, Forbidden: true}
}

// String renders the attribute in its canonical textual form.
func (a Attribute) String() string {
	var b strings.Builder
	if a.Forbidden {
		b.WriteByte('!')
	}
	b.WriteString(a.Key)
	if a.HasValue {
		b.WriteByte('=')
		b.WriteString(a.Value)
	}
	return b.String()
}

// sameValue reports whether a and b carry the identical value payload
// (both valueless, or both valued with an equal value string). It does not
// compare keys or polarity.
func sameValue(a, b Attribute) bool {
	if a.HasValue != b.HasValue {
		return false
	}
	return !a.HasValue || a.Value == b.Value
}
