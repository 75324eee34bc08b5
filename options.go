package blockarena

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const (
	// DefaultBlockSize is the default block size for new arenas (64 KiB).
	DefaultBlockSize = 1 << 16
	// DefaultBlockAlignment is the default alignment of every block's base address.
	DefaultBlockAlignment = 16
	// DefaultIndexCapacity is the default number of object slots per index chunk.
	DefaultIndexCapacity = 32
)

var (
	// ErrOutOfMemory is returned when a block source cannot supply a new block.
	ErrOutOfMemory = errors.New("arena: out of memory")
	// ErrInvalidConfig is returned by New when an option is out of range.
	ErrInvalidConfig = errors.New("arena: invalid config")
)

type config struct {
	blockSize      int
	blockAlignment int
	indexCapacity  int
	source         BlockSource
	logger         *slog.Logger
}

func defaultConfig() config {
	return config{
		blockSize:      DefaultBlockSize,
		blockAlignment: DefaultBlockAlignment,
		indexCapacity:  DefaultIndexCapacity,
		source:         HeapSource{},
	}
}

func (c *config) validate() error {
	if c.blockSize <= 0 || uint64(c.blockSize) > math.MaxUint32 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.blockSize)
	}
	if c.blockAlignment <= 0 || c.blockAlignment&(c.blockAlignment-1) != 0 {
		return fmt.Errorf("%w: block alignment %d is not a power of two", ErrInvalidConfig, c.blockAlignment)
	}
	if c.blockAlignment > c.blockSize {
		return fmt.Errorf("%w: block alignment %d exceeds block size %d", ErrInvalidConfig, c.blockAlignment, c.blockSize)
	}
	if c.indexCapacity <= 0 || c.indexCapacity > math.MaxUint16 {
		return fmt.Errorf("%w: index capacity %d", ErrInvalidConfig, c.indexCapacity)
	}
	if c.source == nil {
		return fmt.Errorf("%w: nil block source", ErrInvalidConfig)
	}
	return nil
}

// Option configures an Arena.
type Option func(*config)

// WithBlockSize sets the size in bytes of every object block.
func WithBlockSize(n int) Option {
	return func(c *config) {
		c.blockSize = n
	}
}

// WithBlockAlignment sets the alignment of every block's base address. It is
// also the largest alignment an object type may require.
func WithBlockAlignment(n int) Option {
	return func(c *config) {
		c.blockAlignment = n
	}
}

// WithIndexCapacity sets the number of object slots in each index chunk.
func WithIndexCapacity(n int) Option {
	return func(c *config) {
		c.indexCapacity = n
	}
}

// WithSource sets where blocks come from. The default is HeapSource.
func WithSource(src BlockSource) Option {
	return func(c *config) {
		c.source = src
	}
}

// WithLogger sets the logger used for debug events. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
