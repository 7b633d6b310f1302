package arena

const (
	// DefaultReserveSize is the address range reserved for a fresh block
	// when the caller does not override it.
	DefaultReserveSize uintptr = 64 * 1024 * 1024
	// DefaultCommitSize is the granularity new pages are committed in.
	DefaultCommitSize uintptr = 64 * 1024
	// headerSize is the fixed metadata prefix every block reserves for
	// itself; user allocations never land in [base, base+headerSize).
	headerSize uintptr = 128
)

// Flags mirrors the creation flags carried by every block in the chain.
type Flags struct {
	// LargePages requests huge-page reservations/commits where the
	// platform supports them.
	LargePages bool
	// NoChain forbids spilling into a new block: once the base block is
	// exhausted, Push* calls fail with ErrCapacityExceeded instead of
	// growing the chain.
	NoChain bool
}

// Config configures a new Arena. The zero value is not valid on its own;
// use New, which applies DefaultReserveSize/DefaultCommitSize to any field
// left at zero.
type Config struct {
	Flags Flags

	ReserveSize uintptr
	CommitSize  uintptr

	// BackingBuffer, when non-nil, is used as the root block's storage
	// instead of reserving fresh address space. Its length is used as the
	// root block's reserved size (spill blocks still use ReserveSize) and
	// it is assumed already fully committed.
	BackingBuffer []byte

	// ReleaseBackingBuffer controls whether Deinit calls platform.Release
	// on a caller-supplied BackingBuffer. The core has no way to infer
	// ownership of externally supplied memory, so this must be set
	// explicitly; it defaults to false, meaning the caller keeps
	// ownership and Deinit leaves the buffer alone. See Open Questions in
	// DESIGN.md.
	ReleaseBackingBuffer bool
}

// Option mutates a Config; applied in order by New.
type Option func(*Config)

// WithLargePages enables huge-page reserve/commit for every block in the
// chain, including spill blocks.
func WithLargePages(enabled bool) Option {
	return func(c *Config) { c.Flags.LargePages = enabled }
}

// WithNoChain forbids the allocator from spilling into additional blocks.
func WithNoChain(enabled bool) Option {
	return func(c *Config) { c.Flags.NoChain = enabled }
}

// WithReserveSize overrides the address range reserved per block.
func WithReserveSize(size uintptr) Option {
	return func(c *Config) { c.ReserveSize = size }
}

// WithCommitSize overrides the granularity commits grow by.
func WithCommitSize(size uintptr) Option {
	return func(c *Config) { c.CommitSize = size }
}

// WithBackingBuffer supplies pre-existing storage for the root block
// instead of reserving fresh address space.
func WithBackingBuffer(buf []byte) Option {
	return func(c *Config) { c.BackingBuffer = buf }
}

// WithReleaseBackingBuffer controls whether Deinit releases a caller
// supplied BackingBuffer. See Config.ReleaseBackingBuffer.
func WithReleaseBackingBuffer(release bool) Option {
	return func(c *Config) { c.ReleaseBackingBuffer = release }
}

func defaultConfig() *Config {
	return &Config{
		ReserveSize: DefaultReserveSize,
		CommitSize:  DefaultCommitSize,
	}
}
