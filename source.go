package blockarena

import (
	"fmt"

	"golang.org/x/sync/semaphore"
)

// BlockSource supplies the raw memory blocks an arena carves objects from.
//
// Alloc returns a zeroed buffer of exactly size bytes whose first byte is
// aligned to align. Free is called once for every buffer Alloc returned.
type BlockSource interface {
	Alloc(size, align int) ([]byte, error)
	Free(b []byte) error
}

// HeapSource allocates blocks on the Go heap.
type HeapSource struct{}

// Alloc over-allocates by align-1 bytes and returns the aligned window.
func (HeapSource) Alloc(size, align int) ([]byte, error) {
	buf := make([]byte, size+align-1)
	off := alignUp(addrOf(buf), uintptr(align)) - addrOf(buf)
	return buf[off : off+uintptr(size) : off+uintptr(size)], nil
}

// Free is a no-op; the garbage collector reclaims the buffer once the arena
// drops it.
func (HeapSource) Free([]byte) error { return nil }

// BudgetSource limits the total bytes outstanding from another source.
// Requests over budget fail with ErrOutOfMemory instead of blocking.
type BudgetSource struct {
	src   BlockSource
	limit int64
	sem   *semaphore.Weighted
}

// NewBudgetSource wraps src so that at most limit bytes are allocated at once.
// A nil src means HeapSource.
func NewBudgetSource(src BlockSource, limit int64) *BudgetSource {
	if src == nil {
		src = HeapSource{}
	}
	return &BudgetSource{
		src:   src,
		limit: limit,
		sem:   semaphore.NewWeighted(limit),
	}
}

// Alloc reserves size bytes of the budget and allocates from the wrapped
// source. The reservation is returned if the wrapped source fails.
func (s *BudgetSource) Alloc(size, align int) ([]byte, error) {
	if !s.sem.TryAcquire(int64(size)) {
		return nil, fmt.Errorf("%w: block of %d bytes exceeds budget of %d", ErrOutOfMemory, size, s.limit)
	}
	b, err := s.src.Alloc(size, align)
	if err != nil {
		s.sem.Release(int64(size))
		return nil, err
	}
	return b, nil
}

// Free frees b in the wrapped source and returns its bytes to the budget.
func (s *BudgetSource) Free(b []byte) error {
	err := s.src.Free(b)
	s.sem.Release(int64(len(b)))
	return err
}
