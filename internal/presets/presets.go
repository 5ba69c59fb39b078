// SPDX-License-Identifier: Apache-2.0

// Package presets embeds a handful of named step-record bundles, grounded
// on the teacher compiler's internal/stdlib named-module registry
// (internal/stdlib/modules.go): a fixed map from a short name to a
// ready-to-use definition, here a directory of step records plus the
// initial AttributeSet each scenario assumes.
package presets

import (
	"embed"
	"fmt"
	"sort"

	"stepplan/attr"
	"stepplan/internal/diag"
	"stepplan/internal/stepfile"
	"stepplan/step"
)

//go:embed fixtures
var fixturesFS embed.FS

// initialStates pairs each preset name with the initial state its scenario
// assumes; presets with no entry here start from the empty set.
var initialStates = map[string]attr.AttributeSet{
	"cycle": attr.New(attr.Require("banana")),
}

// names lists every known preset; Names returns them sorted.
var names = []string{"chain", "cycle", "compound", "amortised-setup", "antivirus-smoke"}

// Names returns the known preset names, sorted.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// Load builds the Store and initial state for the named preset. Unknown
// key diagnostics encountered while loading its fixtures are forwarded to
// sink.
func Load(name string, sink func(diag.Diagnostic)) (*step.Store, attr.AttributeSet, error) {
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return nil, attr.AttributeSet{}, fmt.Errorf("presets: unknown preset %q (known: %v)", name, Names())
	}

	store, err := stepfile.LoadDir(fixturesFS, "fixtures/"+name, sink)
	if err != nil {
		return nil, attr.AttributeSet{}, fmt.Errorf("presets: load %q: %w", name, err)
	}
	return store, initialStates[name], nil
}
