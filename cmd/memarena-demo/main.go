// memarena-demo walks through the arena's full operation surface: init,
// pushes that force a spill, a scoped restore, clear, and teardown.
package main

import (
	"fmt"

	"github.com/orizon-lang/memarena/internal/arena"
)

type record struct {
	ID    int64
	Score float64
}

func main() {
	fmt.Println("=== memarena demo ===")

	fmt.Println("\n1. Initializing arena (1 MiB reserve, 64 KiB commit)...")

	a, err := arena.New(
		arena.WithReserveSize(1*1024*1024),
		arena.WithCommitSize(64*1024),
	)
	if err != nil {
		panic(fmt.Sprintf("arena.New: %v", err))
	}
	defer a.Deinit()

	fmt.Printf("✓ ready, position=%d\n", a.Position())

	fmt.Println("\n2. Pushing typed values...")

	rec, err := arena.Push[record](a)
	if err != nil {
		panic(fmt.Sprintf("Push[record]: %v", err))
	}

	rec.ID, rec.Score = 1, 9.5
	fmt.Printf("✓ pushed record{%d, %.1f} at position=%d\n", rec.ID, rec.Score, a.Position())

	fmt.Println("\n3. Pushing past the reserved size to force a spill...")

	saved := a.Position()

	if _, err := arena.PushBytes(a, 900*1024); err != nil {
		panic(fmt.Sprintf("PushBytes: %v", err))
	}

	if _, err := arena.PushBytes(a, 200*1024); err != nil {
		panic(fmt.Sprintf("PushBytes (spill): %v", err))
	}

	stats := a.Stats()
	fmt.Printf("✓ spilled: %d blocks, %d bytes reserved, %d used\n", stats.BlockCount, stats.ReservedBytes, stats.UsedBytes)

	fmt.Println("\n4. Scoped restore...")

	scope := arena.BeginScope(a)

	if _, err := arena.PushArray[int32](a, 1024, arena.WithZero(true)); err != nil {
		panic(fmt.Sprintf("PushArray: %v", err))
	}

	fmt.Printf("  inside scope: position=%d\n", a.Position())

	if err := scope.Deinit(); err != nil {
		panic(fmt.Sprintf("scope.Deinit: %v", err))
	}

	fmt.Printf("✓ scope exited: position=%d\n", a.Position())

	fmt.Println("\n5. Popping back to before the spill...")

	if err := a.PopTo(saved); err != nil {
		panic(fmt.Sprintf("PopTo: %v", err))
	}

	fmt.Printf("✓ position=%d, blocks=%d\n", a.Position(), len(a.Blocks()))

	fmt.Println("\n6. Clearing the arena...")

	if err := a.Clear(); err != nil {
		panic(fmt.Sprintf("Clear: %v", err))
	}

	fmt.Printf("✓ position=%d\n", a.Position())

	fmt.Println("\n=== demo complete ===")
}
