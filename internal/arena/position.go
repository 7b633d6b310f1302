package arena

// Position returns the current bump cursor: current.globalOffset +
// current.localOffset. It is monotonically non-decreasing between
// Pop/PopTo/Clear calls and strictly increases after every successful
// Push of a non-zero size; a zero-size push leaves it unchanged.
func (a *Arena) Position() uintptr {
	if a == nil || a.current == nil {
		return 0
	}

	return a.current.position()
}

// PopTo restores the arena to target, releasing any spill blocks whose
// global base is at or beyond target. target is clamped up to headerSize:
// the base block's first allocatable offset, so callers can never pop past
// the root.
func (a *Arena) PopTo(target uintptr) error {
	const op = "pop_to"

	if err := a.checkInitialized(op); err != nil {
		return err
	}

	clamped := target
	if clamped < headerSize {
		clamped = headerSize
	}

	for a.current.globalOffset >= clamped {
		prev := a.current.prev
		if prev == nil {
			// The root's globalOffset is always 0 < headerSize <= clamped,
			// so this can only happen if an invariant was already broken
			// elsewhere.
			return newErr(KindFailure, op, "pop target %d would release the root block", target)
		}

		a.releaseBlock(a.current)
		a.current = prev
	}

	newLocal := clamped - a.current.globalOffset
	if newLocal > a.current.localOffset {
		return newErr(KindFailure, op, "pop target %d is ahead of the current cursor", target)
	}

	a.current.localOffset = newLocal

	return nil
}

// Pop releases the last n bytes of usage. Popping more than is currently
// in use clamps to the root block's base position (headerSize), never
// going negative.
func (a *Arena) Pop(n uintptr) error {
	pos := a.Position()

	var target uintptr
	if n < pos {
		target = pos - n
	}

	return a.PopTo(target)
}

// Clear releases every spill block and resets the root block's cursor to
// headerSize. The root block's committed bytes are retained, not
// decommitted, so subsequent allocations reuse them without another
// platform.Commit call.
func (a *Arena) Clear() error {
	return a.PopTo(0)
}
