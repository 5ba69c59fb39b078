// SPDX-License-Identifier: Apache-2.0
package presets

import (
	"testing"

	"stepplan/planner"
)

func TestLoadAllKnownPresets(t *testing.T) {
	for _, name := range Names() {
		store, initial, err := Load(name, nil)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		if store.Len() == 0 {
			t.Fatalf("Load(%q) produced an empty store", name)
		}
		if _, _, err := planner.Calculate(store, initial); err != nil {
			t.Fatalf("Calculate(%q) error: %v", name, err)
		}
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	if _, _, err := Load("does-not-exist", nil); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
}

func TestChainPresetProducesExpectedPlan(t *testing.T) {
	store, initial, err := Load("chain", nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	plan, cost, err := planner.Calculate(store, initial)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if len(plan) != 3 || cost != 3 {
		t.Fatalf("plan=%v cost=%d, want length 3 cost 3", plan, cost)
	}
}
