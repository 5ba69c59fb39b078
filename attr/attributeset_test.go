// SPDX-License-Identifier: Apache-2.0
package attr

import "testing"

func TestInsertUpsertsByKey(t *testing.T) {
	var s AttributeSet
	s.Require("k")
	s.Forbid("k")
	if got, want := s.String(), "!k"; got != want {
		t.Fatalf("after k then !k: got %q, want %q", got, want)
	}

	var s2 AttributeSet
	s2.RequireValue("k", "a")
	s2.RequireValue("k", "b")
	if got, want := s2.String(), "k=b"; got != want {
		t.Fatalf("after k=a then k=b: got %q, want %q", got, want)
	}

	var s3 AttributeSet
	s3.Require("k")
	s3.RequireValue("k", "a")
	if got, want := s3.String(), "k=a"; got != want {
		t.Fatalf("after k then k=a: got %q, want %q", got, want)
	}
}

func TestInsertMaintainsSortedOrder(t *testing.T) {
	var s AttributeSet
	s.Require("charlie")
	s.Require("alpha")
	s.Require("bravo")
	if got, want := s.String(), "alpha,bravo,charlie"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEraseRemovesKey(t *testing.T) {
	var s AttributeSet
	s.Require("a")
	s.Require("b")
	if !s.Erase("a") {
		t.Fatal("Erase(a) should report true")
	}
	if s.Erase("a") {
		t.Fatal("second Erase(a) should report false")
	}
	if got, want := s.String(), "b"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestContainsAll(t *testing.T) {
	haystack := New(Require("one"), Forbid("two"), Require("three"))

	tests := []struct {
		name   string
		needle AttributeSet
		want   bool
	}{
		{"required present", New(Require("one")), true},
		{"required absent", New(Require("four")), false},
		{"forbidden present+forbidden in haystack", New(Forbid("two")), true},
		{"forbidden absent from haystack", New(Forbid("four")), true},
		{"forbidden but required in haystack", New(Forbid("one")), false},
		{"valued mismatch", New(RequireValue("one", "x")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := haystack.ContainsAll(tt.needle); got != tt.want {
				t.Errorf("ContainsAll(%s) = %v, want %v", tt.needle, got, tt.want)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	plain := New(Require("one"), Require("two"), Require("three"))
	forbidTwo := New(Require("one"), Forbid("two"), Require("three"))

	tests := []struct {
		name     string
		haystack AttributeSet
		needle   Attribute
		want     bool
	}{
		{"match required", plain, Require("two"), true},
		{"forbidden needle, haystack requires", plain, Forbid("two"), false},
		{"required needle, haystack forbids", forbidTwo, Require("two"), false},
		{"forbidden needle, haystack forbids", forbidTwo, Forbid("two"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.haystack.ContainsAny(New(tt.needle)); got != tt.want {
				t.Errorf("ContainsAny(%s) = %v, want %v", tt.needle, got, tt.want)
			}
		})
	}
}

func TestApplyChanges(t *testing.T) {
	state := New(RequireValue("installed", "candidate"), Require("onaccess"))
	changes := New(Forbid("installed"))

	got := state.ApplyChanges(changes)
	if got.String() != "onaccess" {
		t.Fatalf("got %q, want %q", got.String(), "onaccess")
	}
	if state.String() != "installed=candidate,onaccess" {
		t.Fatalf("ApplyChanges mutated receiver: %q", state.String())
	}
}

func TestApplyChangesInPlace(t *testing.T) {
	var state AttributeSet
	state.RequireValue("installed", "candidate")
	state.Require("onaccess")

	changes := New(Forbid("installed"))
	state.ApplyChangesInPlace(changes)

	if got, want := state.String(), "onaccess"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDifferences(t *testing.T) {
	state := New(Require("onaccess"))
	target := New(Require("onaccess"), RequireValue("installed", "candidate"))

	required, discard := state.Differences(target)
	if got, want := required.String(), "installed=candidate"; got != want {
		t.Fatalf("required = %q, want %q", got, want)
	}
	if !discard.IsEmpty() {
		t.Fatalf("discard = %q, want empty", discard.String())
	}
}

func TestDifferencesStaleValueForcesDiscard(t *testing.T) {
	state := New(RequireValue("installed", "old"))
	target := New(RequireValue("installed", "new"))

	required, discard := state.Differences(target)
	if got, want := required.String(), "installed=new"; got != want {
		t.Fatalf("required = %q, want %q", got, want)
	}
	if got, want := discard.String(), "!installed"; got != want {
		t.Fatalf("discard = %q, want %q", got, want)
	}
}

func TestDifferencesForbiddenTarget(t *testing.T) {
	state := New(Require("quarantined"))
	target := New(Forbid("quarantined"))

	required, discard := state.Differences(target)
	if !required.IsEmpty() {
		t.Fatalf("required = %q, want empty", required.String())
	}
	if got, want := discard.String(), "!quarantined"; got != want {
		t.Fatalf("discard = %q, want %q", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	var s AttributeSet
	s.Require("a")
	clone := s.Clone()
	s.Require("b")
	if clone.Len() != 1 {
		t.Fatalf("clone mutated by later insert into original: %q", clone.String())
	}
}

func TestEqual(t *testing.T) {
	a := New(Require("one"), Forbid("two"))
	b := New(Forbid("two"), Require("one"))
	if !a.Equal(b) {
		t.Fatalf("%q and %q should be equal regardless of insertion order", a, b)
	}
}
