package arena

import (
	"testing"

	"github.com/orizon-lang/memarena/internal/platform/platformtest"
)

func TestBackingBufferNotReleasedByDefault(t *testing.T) {
	fake := platformtest.New()
	buf := make([]byte, 64*kib)

	a, err := NewWithMemory(fake, WithBackingBuffer(buf))
	if err != nil {
		t.Fatalf("NewWithMemory: %v", err)
	}

	a.Deinit()

	if fake.ReleaseCalls != 0 {
		t.Fatalf("ReleaseCalls = %d, want 0 (backing buffer owned by caller)", fake.ReleaseCalls)
	}
}

func TestBackingBufferReleasedWhenRequested(t *testing.T) {
	fake := platformtest.New()
	buf := make([]byte, 64*kib)

	a, err := NewWithMemory(fake, WithBackingBuffer(buf), WithReleaseBackingBuffer(true))
	if err != nil {
		t.Fatalf("NewWithMemory: %v", err)
	}

	a.Deinit()

	if fake.ReleaseCalls != 1 {
		t.Fatalf("ReleaseCalls = %d, want 1", fake.ReleaseCalls)
	}
}

func TestDeinitOnUninitializedArenaIsNoOp(t *testing.T) {
	var a Arena

	// Must not panic.
	a.Deinit()
}

func TestOperationsAfterDeinitReportNotInitialized(t *testing.T) {
	a, _ := newTestArena(t)
	a.Deinit()

	_, err := a.PushRaw(8, 8, false)
	if err == nil {
		t.Fatal("expected not-initialized error")
	}

	if arenaErr, ok := err.(*Error); !ok || arenaErr.Kind != KindNotInitialized {
		t.Fatalf("err = %v, want KindNotInitialized", err)
	}
}
