//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// system implements Memory on Windows via the two-step VirtualAlloc
// contract: MEM_RESERVE carves out address space, a later MEM_COMMIT call
// backs a prefix of it with physical pages. VirtualAlloc's commit step is
// idempotent over already-committed pages, matching the interface's
// requirement. Release calls VirtualFree with MEM_RELEASE on the whole
// reservation.
type system struct{}

func (system) Reserve(size uintptr) (uintptr, error) {
	return reserve(size, 0)
}

func (system) ReserveLarge(size uintptr) (uintptr, error) {
	return reserve(size, windows.MEM_LARGE_PAGES)
}

func reserve(size uintptr, extraFlags uint32) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE|extraFlags, windows.PAGE_NOACCESS)
	if err != nil {
		return 0, &Error{Op: "reserve", Size: size, Err: err}
	}

	return addr, nil
}

func (system) Commit(addr, size uintptr) error {
	return commit(addr, size, 0)
}

func (system) CommitLarge(addr, size uintptr) error {
	return commit(addr, size, windows.MEM_LARGE_PAGES)
}

func commit(addr, size uintptr, extraFlags uint32) error {
	if _, err := windows.VirtualAlloc(addr, size, windows.MEM_COMMIT|extraFlags, windows.PAGE_READWRITE); err != nil {
		return &Error{Op: "commit", Addr: addr, Size: size, Err: err}
	}

	return nil
}

func (system) Release(addr, size uintptr) {
	_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}

func (system) PageSize() uintptr {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)

	return uintptr(info.PageSize)
}

func (system) LargePageSize() uintptr {
	return windows.GetLargePageMinimum()
}
