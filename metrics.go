package blockarena

// SizeInUse returns the number of bytes carved from both lanes, including
// alignment padding.
func (a *Arena[T]) SizeInUse() int {
	return a.st.objects.sizeInUse() + a.st.index.sizeInUse()
}

// NumBlocks returns the number of object blocks currently allocated.
func (a *Arena[T]) NumBlocks() int {
	return a.st.objects.numBlocks()
}

// NumIndexBlocks returns the number of blocks holding index chunks.
func (a *Arena[T]) NumIndexBlocks() int {
	return a.st.index.numBlocks()
}

// NumIndexChunks returns the number of index chunks in the chain.
func (a *Arena[T]) NumIndexChunks() int {
	return a.st.chunks.n
}

// Capacity returns the total size in bytes of all blocks in both lanes.
func (a *Arena[T]) Capacity() int {
	return a.st.objects.numBlocks()*a.st.objects.blockSize + a.st.index.numBlocks()*a.st.index.blockSize
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena[T]) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// BlockSize returns the size of the arena's object blocks.
func (a *Arena[T]) BlockSize() int {
	return a.st.objects.blockSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena[T]) Metrics() ArenaMetrics {
	return ArenaMetrics{
		Objects:        a.Count(),
		SizeInUse:      a.SizeInUse(),
		Capacity:       a.Capacity(),
		NumBlocks:      a.NumBlocks(),
		NumIndexBlocks: a.NumIndexBlocks(),
		NumIndexChunks: a.NumIndexChunks(),
		BlockSize:      a.BlockSize(),
		Utilization:    a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	Objects        int     // Objects created since the last reset
	SizeInUse      int     // Bytes currently carved
	Capacity       int     // Total capacity in bytes
	NumBlocks      int     // Object blocks
	NumIndexBlocks int     // Index blocks
	NumIndexChunks int     // Index chunks
	BlockSize      int     // Object block size
	Utilization    float64 // Ratio of used to total capacity (0.0-1.0)
}
