//go:build unix

package blockarena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapSource allocates every block as an anonymous private mapping, outside
// the Go heap. Mappings are page aligned, so any alignment up to the page
// size is satisfied.
type MmapSource struct{}

// Alloc maps size bytes of zeroed memory. Alignments above the page size are
// rejected with ErrInvalidConfig.
func (MmapSource) Alloc(size, align int) ([]byte, error) {
	if align > unix.Getpagesize() {
		return nil, fmt.Errorf("%w: alignment %d exceeds page size", ErrInvalidConfig, align)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %v", ErrOutOfMemory, size, err)
	}
	return data, nil
}

// Free unmaps b.
func (MmapSource) Free(b []byte) error {
	return unix.Munmap(b)
}
