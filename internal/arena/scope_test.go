package arena

import "testing"

// S7: nested scopes each unwind to exactly their own capture point,
// regardless of spill blocks allocated by inner scopes.
func TestNestedScopesRestoreIndependently(t *testing.T) {
	a, _ := newTestArena(t, WithReserveSize(1*mib), WithCommitSize(1*mib))

	base := a.Position()

	t1 := BeginScope(a)

	if _, err := a.PushRaw(10*kib, 16, false); err != nil {
		t.Fatalf("push in t1: %v", err)
	}

	t1Pos := a.Position()
	t2 := BeginScope(a)

	if _, err := a.PushRaw(900*kib, 16, false); err != nil {
		t.Fatalf("push in t2: %v", err)
	}

	t2Pos := a.Position()
	t3 := BeginScope(a)

	// This push spills into a new block; t3's unwind must still land
	// exactly on t2Pos, releasing that spill block.
	if _, err := a.PushRaw(500*kib, 16, false); err != nil {
		t.Fatalf("push in t3 (spill): %v", err)
	}

	if a.Position() <= t2Pos {
		t.Fatal("expected t3's push to have advanced past t2Pos via a spill")
	}

	if err := t3.Deinit(); err != nil {
		t.Fatalf("t3.Deinit: %v", err)
	}

	if got := a.Position(); got != t2Pos {
		t.Fatalf("after t3 exit, Position() = %d, want %d", got, t2Pos)
	}

	if err := t2.Deinit(); err != nil {
		t.Fatalf("t2.Deinit: %v", err)
	}

	if got := a.Position(); got != t1Pos {
		t.Fatalf("after t2 exit, Position() = %d, want %d", got, t1Pos)
	}

	if err := t1.Deinit(); err != nil {
		t.Fatalf("t1.Deinit: %v", err)
	}

	if got := a.Position(); got != base {
		t.Fatalf("after t1 exit, Position() = %d, want %d", got, base)
	}
}
