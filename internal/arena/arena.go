// Package arena implements a growable linear (bump) allocator backed by
// virtual-memory reserve/commit. Allocations are O(1) pointer bumps; bulk
// reclamation happens via Pop/PopTo/Clear or a Scope marker. The
// arena is single-threaded and performs no internal synchronization —
// concurrent use requires an external mutex or one arena per goroutine.
package arena

import (
	"log"

	"github.com/orizon-lang/memarena/internal/platform"
)

// Arena is a chain of reserve/commit blocks sharing one bump cursor. The
// zero value is not usable; construct with New or NewWithMemory.
type Arena struct {
	mem     platform.Memory
	root    *Block
	current *Block

	releaseBacking bool
	initialized    bool
}

// New creates an Arena using the host's default platform.Memory
// implementation (mmap/mprotect on POSIX, VirtualAlloc on Windows).
func New(opts ...Option) (*Arena, error) {
	return NewWithMemory(platform.System(), opts...)
}

// NewWithMemory creates an Arena over an explicit platform.Memory, which
// tests use to inject failures that the real OS primitives cannot be made
// to exhibit on demand.
func NewWithMemory(mem platform.Memory, opts ...Option) (*Arena, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ReserveSize == 0 {
		cfg.ReserveSize = DefaultReserveSize
	}

	if cfg.CommitSize == 0 {
		cfg.CommitSize = DefaultCommitSize
	}

	root, err := initBlock(mem, cfg.Flags, cfg.ReserveSize, cfg.CommitSize, cfg.BackingBuffer)
	if err != nil {
		return nil, err
	}

	return &Arena{
		mem:            mem,
		root:           root,
		current:        root,
		releaseBacking: cfg.ReleaseBackingBuffer,
		initialized:    true,
	}, nil
}

// Deinit releases every block in the chain, except a root block built over
// a caller-supplied backing buffer, which is released only when
// ReleaseBackingBuffer is set. After Deinit the Arena must not be used
// again. Calling Deinit on an Arena that never completed
// initialization is a no-op that logs a warning rather than panicking.
func (a *Arena) Deinit() {
	if a == nil || !a.initialized {
		log.Printf("memarena: Deinit called on an arena that was never initialized")

		return
	}

	for b := a.current; b != nil; {
		prev := b.prev
		a.releaseBlock(b)
		b = prev
	}

	a.root = nil
	a.current = nil
	a.initialized = false
}

func (a *Arena) releaseBlock(b *Block) {
	if b.external && !a.releaseBacking {
		return
	}

	a.mem.Release(b.base, b.reserved)
}

func (a *Arena) checkInitialized(op string) error {
	if a == nil || !a.initialized {
		return newErr(KindNotInitialized, op, "arena is not initialized")
	}

	return nil
}

// PushRaw allocates size bytes aligned to alignment, growing commitment or
// spilling into a new block as needed. When zero is true, the prefix of
// the returned range that was already committed before this call is
// zeroed; freshly committed pages are assumed zero by the platform.
func (a *Arena) PushRaw(size, alignment uintptr, zero bool) (uintptr, error) {
	const op = "push"

	if err := a.checkInitialized(op); err != nil {
		return 0, err
	}

	if alignment == 0 || alignment&(alignment-1) != 0 {
		return 0, newErr(KindInvalidAlignment, op, "alignment %d is not a power of two", alignment)
	}

	c := a.current
	start := platform.AlignUp(c.localOffset, alignment)
	end := start + size
	spilled := false

	if end > c.reserved {
		if c.flags.NoChain {
			return 0, newErr(KindCapacityExceeded, op, "request of %d bytes at offset %d exceeds the single reserved block (no-chain mode)", size, start)
		}

		prev := c
		next, err := a.spill(c, size, alignment)
		if err != nil {
			return 0, err
		}

		c = next
		spilled = true
		start = platform.AlignUp(c.localOffset, alignment)
		end = start + size

		if end > c.reserved {
			a.mem.Release(c.base, c.reserved)
			a.current = prev

			return 0, newErr(KindFailure, op, "spill block of %d bytes still cannot satisfy a %d byte request", c.reserved, size)
		}
	}

	committedBefore := c.committed

	if end > c.committed {
		target := platform.AlignUp(end, c.commitSize)
		if target > c.reserved {
			target = c.reserved
		}

		var commitErr error
		if c.flags.LargePages {
			commitErr = a.mem.CommitLarge(c.base+c.committed, target-c.committed)
		} else {
			commitErr = a.mem.Commit(c.base+c.committed, target-c.committed)
		}

		if commitErr != nil {
			if spilled {
				a.mem.Release(c.base, c.reserved)
				a.current = c.prev
			}

			return 0, newErr(KindOutOfMemory, op, "commit growth to %d bytes: %v", target, commitErr)
		}

		c.committed = target
	}

	if zero {
		zeroEnd := end
		if committedBefore < zeroEnd {
			zeroEnd = committedBefore
		}

		if zeroEnd > start {
			clearBytes(c.bytes(start, zeroEnd-start))
		}
	}

	c.localOffset = end
	a.current = c

	return c.base + start, nil
}

// spill creates a new block to satisfy a request the current tail cannot
// fit, links it after cur, and makes it the new tail. If size alone would
// not fit the chain's ordinary reserve size, the new block's reserve and
// commit sizes are enlarged to fit it (see design notes on the oversized
// single-request case).
func (a *Arena) spill(cur *Block, size, alignment uintptr) (*Block, error) {
	reserveSize := cur.reserveSize
	commitSize := cur.commitSize

	if required := size + headerSize; required > reserveSize {
		grain := alignment
		if grain == 0 {
			grain = 1
		}

		reserveSize = platform.AlignUp(required, grain)
		commitSize = reserveSize
	}

	next, err := initBlock(a.mem, cur.flags, reserveSize, commitSize, nil)
	if err != nil {
		return nil, err
	}

	next.globalOffset = cur.globalOffset + cur.reserved
	next.prev = cur
	a.current = next

	return next, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
