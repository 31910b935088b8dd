package convergence

import (
	"fmt"
	"testing"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/selection"
)

func referenceCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	names := []string{"ashwalker", "duskherald", "gravekeeper", "hollowshade", "ironmaw", "stormcaller", "thornwarden"}
	encounters := make([]catalog.Encounter, 0, len(names)+1)
	for _, n := range names {
		encounters = append(encounters, catalog.Encounter{Key: n, ArenaScene: "Arena_" + n})
	}
	encounters = append(encounters, catalog.Encounter{Key: "riftmaw", Finale: true, ArenaScene: "Arena_Riftmaw"})
	c, err := catalog.New(encounters)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

func TestBarrierState_BothOpenEarly(t *testing.T) {
	cat := referenceCatalog(t)
	engine := selection.NewEngine(cat)
	ctrl := NewController(cat, engine)
	s := run.NewState(cat, "LV6TZ0")

	// With 7 regular encounters, both sides stay open through the first
	// five clears (count < N-1).
	for i := 0; i < 5; i++ {
		b := ctrl.BarrierState(s)
		if b.LeftBlocked || b.RightBlocked {
			t.Fatalf("clear %d: expected both open, got %+v", i, b)
		}
		choice := engine.Select(s, engine.PrioritySide(s))
		if err := s.MarkCleared(choice.Key); err != nil {
			t.Fatalf("MarkCleared failed: %v", err)
		}
	}
}

func TestBarrierState_ExactlyOneBlockedNearEnd(t *testing.T) {
	cat := referenceCatalog(t)
	engine := selection.NewEngine(cat)
	ctrl := NewController(cat, engine)

	for i := 0; i < 25; i++ {
		s := run.NewState(cat, fmt.Sprintf("seed-%d", i))

		// Clear down to a single remaining regular encounter.
		keys := cat.NonFinaleKeys()
		for _, k := range keys[:len(keys)-1] {
			if err := s.MarkCleared(k); err != nil {
				t.Fatalf("MarkCleared(%q) failed: %v", k, err)
			}
		}

		b := ctrl.BarrierState(s)
		if b.LeftBlocked == b.RightBlocked {
			t.Fatalf("seed %d at N-1: want exactly one side blocked, got %+v", i, b)
		}

		open, ok := b.OpenSide()
		if !ok {
			t.Fatalf("seed %d: OpenSide not reported", i)
		}
		choice := engine.Select(s, open)
		if choice.Key != keys[len(keys)-1] {
			t.Fatalf("seed %d: open side should offer the last encounter %q, got %v", i, keys[len(keys)-1], choice)
		}

		// Clear the last regular encounter; the open side now routes to
		// the finale and exactly one side is still blocked.
		if err := s.MarkCleared(choice.Key); err != nil {
			t.Fatalf("MarkCleared failed: %v", err)
		}
		b = ctrl.BarrierState(s)
		if b.LeftBlocked == b.RightBlocked {
			t.Fatalf("seed %d at N: want exactly one side blocked, got %+v", i, b)
		}
		open, _ = b.OpenSide()
		if got := engine.Select(s, open); got.Key != cat.Finale().Key {
			t.Fatalf("seed %d: open side should offer the finale, got %v", i, got)
		}
	}
}

func TestBarrierState_NotCachedAcrossClears(t *testing.T) {
	cat := referenceCatalog(t)
	engine := selection.NewEngine(cat)
	ctrl := NewController(cat, engine)
	s := run.NewState(cat, "LV6TZ0")

	keys := cat.NonFinaleKeys()
	for _, k := range keys[:len(keys)-1] {
		if err := s.MarkCleared(k); err != nil {
			t.Fatalf("MarkCleared(%q) failed: %v", k, err)
		}
	}

	before := ctrl.BarrierState(s)
	if err := s.MarkCleared(keys[len(keys)-1]); err != nil {
		t.Fatalf("MarkCleared failed: %v", err)
	}
	after := ctrl.BarrierState(s)

	// The controller must re-derive barriers after the clear: whichever
	// values it reports, the open side must now point at the finale.
	open, ok := after.OpenSide()
	if !ok {
		t.Fatalf("expected one blocked side after final regular clear, got %+v (before: %+v)", after, before)
	}
	if got := engine.Select(s, open); got.Key != cat.Finale().Key {
		t.Errorf("stale barrier: open side offers %v, want finale", got)
	}
}

func TestBarrierState_RunComplete(t *testing.T) {
	cat := referenceCatalog(t)
	engine := selection.NewEngine(cat)
	ctrl := NewController(cat, engine)
	s := run.NewState(cat, "LV6TZ0")

	for _, e := range cat.All() {
		if err := s.MarkCleared(e.Key); err != nil {
			t.Fatalf("MarkCleared failed: %v", err)
		}
	}

	b := ctrl.BarrierState(s)
	if b.LeftBlocked || b.RightBlocked {
		t.Errorf("after the finale both sides read open, got %+v", b)
	}
}
