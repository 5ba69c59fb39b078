// SPDX-License-Identifier: Apache-2.0
package attr

import (
	"fmt"
	"strings"
)

// ParseError reports a failure to parse an attribute-list string, keeping
// the offending text and the underlying participle error for diagnostic
// rendering by internal/diag.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("attr: parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a comma-separated attribute list (§6.1 grammar: "atom (','
// atom)*", atom := '!'? key ('=' value)?) and returns the resulting
// AttributeSet. An empty or all-whitespace string parses to the empty set.
func Parse(text string) (AttributeSet, error) {
	if strings.TrimSpace(text) == "" {
		return AttributeSet{}, nil
	}
	node, err := attributeListParser.ParseString("", text)
	if err != nil {
		return AttributeSet{}, &ParseError{Input: text, Err: err}
	}
	var s AttributeSet
	for _, atom := range node.Atoms {
		a := Attribute{Key: atom.Key, Forbidden: atom.Forbidden}
		if atom.Value != nil {
			a.HasValue = true
			a.Value = *atom.Value
		}
		s.Insert(a)
	}
	return s, nil
}
