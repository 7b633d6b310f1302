package arena

import (
	"unsafe"

	"github.com/orizon-lang/memarena/internal/platform"
)

// Block is a single reserve/commit region in the chain. Its header lives
// logically at the start of its own reservation: local_offset never drops
// below headerSize, so user allocations never land in [base, base+headerSize).
//
// The header is tracked here as ordinary Go fields rather than reinterpreted
// in place at base: Go's GC does not scan mmap'd/VirtualAlloc'd memory, so
// storing *Block pointers inside that memory would hide them from the
// collector. The user-visible contract (the 128-byte skipped prefix, and
// the position arithmetic built on it) is unaffected by where the struct
// itself lives.
type Block struct {
	base uintptr

	reserved     uintptr
	committed    uintptr
	localOffset  uintptr
	globalOffset uintptr

	flags Flags

	// reserveSize/commitSize are the growth parameters this block passes
	// on if it itself needs to spill; they start as the arena's
	// configured values but are enlarged for a block created to satisfy
	// an oversized single request (see spill in arena.go).
	reserveSize uintptr
	commitSize  uintptr

	prev *Block

	// external is true only for a root block constructed over a
	// caller-supplied backing buffer. buf pins that buffer so Go's GC
	// does not collect it while only a raw address is held.
	external bool
	buf      []byte
}

// initBlock reserves (or adopts) storage for a new block and commits its
// initial prefix. globalOffset must be set by the caller afterward for
// non-root blocks; it is always 0 here.
func initBlock(mem platform.Memory, flags Flags, reserveSize, commitSize uintptr, backing []byte) (*Block, error) {
	pageSize := mem.PageSize()
	if flags.LargePages {
		pageSize = mem.LargePageSize()
	}

	reserveSize = platform.AlignUp(reserveSize, pageSize)
	commitSize = platform.AlignUp(commitSize, pageSize)

	if commitSize > reserveSize {
		commitSize = reserveSize
	}

	if backing != nil {
		if uintptr(len(backing)) < headerSize {
			return nil, newErr(KindOutOfMemory, "init", "backing buffer of %d bytes is smaller than the %d byte header", len(backing), headerSize)
		}

		return &Block{
			base:         uintptr(unsafe.Pointer(&backing[0])),
			reserved:     uintptr(len(backing)),
			committed:    uintptr(len(backing)),
			localOffset:  headerSize,
			globalOffset: 0,
			flags:        flags,
			reserveSize:  reserveSize,
			commitSize:   commitSize,
			external:     true,
			buf:          backing,
		}, nil
	}

	var base uintptr
	var err error

	if flags.LargePages {
		base, err = mem.ReserveLarge(reserveSize)
	} else {
		base, err = mem.Reserve(reserveSize)
	}

	if err != nil {
		return nil, newErr(KindOutOfMemory, "init", "reserve %d bytes: %v", reserveSize, err)
	}

	var commitErr error
	if flags.LargePages {
		commitErr = mem.CommitLarge(base, commitSize)
	} else {
		commitErr = mem.Commit(base, commitSize)
	}

	if commitErr != nil {
		mem.Release(base, reserveSize)

		return nil, newErr(KindOutOfMemory, "init", "commit %d bytes: %v", commitSize, commitErr)
	}

	return &Block{
		base:         base,
		reserved:     reserveSize,
		committed:    commitSize,
		localOffset:  headerSize,
		globalOffset: 0,
		flags:        flags,
		reserveSize:  reserveSize,
		commitSize:   commitSize,
	}, nil
}

// bytes returns a []byte view over [base+off, base+off+size) of this
// block's reservation, for zeroing and for the typed Push helpers.
func (b *Block) bytes(off, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(b.base+off)), int(size))
}

func (b *Block) position() uintptr {
	return b.globalOffset + b.localOffset
}
