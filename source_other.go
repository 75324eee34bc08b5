//go:build !unix

package blockarena

// MmapSource falls back to the Go heap on platforms without mmap.
type MmapSource struct{}

// Alloc allocates from HeapSource.
func (MmapSource) Alloc(size, align int) ([]byte, error) {
	return HeapSource{}.Alloc(size, align)
}

// Free is a no-op, as for HeapSource.
func (MmapSource) Free([]byte) error { return nil }
