package arena

import "unsafe"

// PushOptions controls alignment and zero-fill for the typed Push/PushArray
// helpers. The zero value defaults alignment to the type's natural
// alignment and leaves zero-fill off.
type PushOptions struct {
	// Alignment overrides the type's natural alignment when non-zero.
	Alignment uintptr
	// Zero requests the returned range be zeroed (see PushRaw).
	Zero bool
}

// PushOption mutates a PushOptions; applied in order.
type PushOption func(*PushOptions)

// WithAlignment overrides the default alignment for a single Push/PushArray
// call.
func WithAlignment(alignment uintptr) PushOption {
	return func(o *PushOptions) { o.Alignment = alignment }
}

// WithZero requests the allocated range be zeroed.
func WithZero(zero bool) PushOption {
	return func(o *PushOptions) { o.Zero = zero }
}

func resolveOptions(natural uintptr, opts []PushOption) PushOptions {
	po := PushOptions{Alignment: natural}
	for _, opt := range opts {
		opt(&po)
	}

	if po.Alignment == 0 {
		po.Alignment = natural
	}

	return po
}

// Push allocates space for a single T, defaulting alignment to
// unsafe.Alignof(T) and size to unsafe.Sizeof(T).
func Push[T any](a *Arena, opts ...PushOption) (*T, error) {
	var zero T

	po := resolveOptions(unsafe.Alignof(zero), opts)

	ptr, err := a.PushRaw(unsafe.Sizeof(zero), po.Alignment, po.Zero)
	if err != nil {
		return nil, err
	}

	return (*T)(unsafe.Pointer(ptr)), nil
}

// PushArray allocates space for count contiguous Ts, defaulting alignment
// to unsafe.Alignof(T). count*unsafe.Sizeof(T) overflowing a machine word
// is treated as unreachable for practical inputs, matching the spec.
func PushArray[T any](a *Arena, count int, opts ...PushOption) ([]T, error) {
	var zero T

	po := resolveOptions(unsafe.Alignof(zero), opts)

	size := unsafe.Sizeof(zero) * uintptr(count)

	ptr, err := a.PushRaw(size, po.Alignment, po.Zero)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*T)(unsafe.Pointer(ptr)), count), nil
}

// PushBytes allocates a raw byte range, defaulting alignment to 1.
func PushBytes(a *Arena, size uintptr, opts ...PushOption) ([]byte, error) {
	po := resolveOptions(1, opts)

	ptr, err := a.PushRaw(size, po.Alignment, po.Zero)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(size)), nil
}

// PushString copies s into a freshly allocated byte range and returns it
// as a string header over arena memory.
func PushString(a *Arena, s string) (string, error) {
	buf, err := PushBytes(a, uintptr(len(s)))
	if err != nil {
		return "", err
	}

	copy(buf, s)

	return unsafe.String(unsafe.SliceData(buf), len(buf)), nil
}
