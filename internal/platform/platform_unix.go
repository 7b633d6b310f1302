//go:build unix

package platform

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// system implements Memory on POSIX platforms via anonymous mmap. Reserve
// maps PROT_NONE so the range exists in the address space but faults on
// touch; Commit flips the committed prefix to PROT_READ|PROT_WRITE, which
// mprotect performs idempotently whether or not the range was already
// readable/writable. Release unmaps the whole reservation.
type system struct{}

func (system) Reserve(size uintptr) (uintptr, error) {
	return reserve(size, 0)
}

func (system) ReserveLarge(size uintptr) (uintptr, error) {
	return reserve(size, unix.MAP_HUGETLB)
}

func reserve(size uintptr, extraFlags int) (uintptr, error) {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|extraFlags)
	if err != nil {
		return 0, &Error{Op: "reserve", Size: size, Err: err}
	}

	return uintptr(unsafe.Pointer(&b[0])), nil
}

func (system) Commit(addr, size uintptr) error {
	return commit(addr, size)
}

func (system) CommitLarge(addr, size uintptr) error {
	// Large pages are fixed at reservation time on Linux (MAP_HUGETLB);
	// the commit step is the same mprotect as the regular path.
	return commit(addr, size)
}

func commit(addr, size uintptr) error {
	if err := unix.Mprotect(addressRange(addr, size), unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return &Error{Op: "commit", Addr: addr, Size: size, Err: err}
	}

	return nil
}

func (system) Release(addr, size uintptr) {
	_ = unix.Munmap(addressRange(addr, size))
}

func (system) PageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

func (system) LargePageSize() uintptr {
	// Linux huge pages are most commonly 2MiB; there is no portable
	// syscall to query the configured size, so this is the conservative
	// default used when MAP_HUGETLB is requested without an explicit size.
	return 2 * 1024 * 1024
}

// addressRange reinterprets a raw address and length as the []byte view
// unix.Mprotect/Munmap expect, without copying.
func addressRange(addr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
}
