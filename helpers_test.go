package blockarena

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type shape interface {
	Area() float64
	Name() string
}

type circle struct {
	R float64
}

func (c *circle) Area() float64 { return math.Pi * c.R * c.R }
func (c *circle) Name() string  { return "circle" }

type rect struct {
	W, H float64
}

func (r *rect) Area() float64 { return r.W * r.H }
func (r *rect) Name() string  { return "rect" }

// tracked records its ID in destroyed when destroyed.
type tracked struct {
	ID  int
	Pad int64
}

var destroyed []int

func (t *tracked) Area() float64 { return float64(t.ID) }
func (t *tracked) Name() string  { return "tracked" }
func (t *tracked) Destroy()      { destroyed = append(destroyed, t.ID) }

func resetDestroyed(t *testing.T) {
	t.Helper()
	destroyed = nil
	t.Cleanup(func() { destroyed = nil })
}

// pair is the 16-byte, 8-aligned object used by the block math tests.
type pair struct {
	A, B int64
}

func newArena[T any](t *testing.T, opts ...Option) *Arena[T] {
	t.Helper()
	a, err := New[T](opts...)
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return a
}

// blockIndex returns the block of s that wholly contains [p, p+size), or -1.
func blockIndex(s *blockStore, p unsafe.Pointer, size uintptr) int {
	for i, b := range s.table {
		lo := addrOf(b.data)
		hi := lo + uintptr(len(b.data))
		if uintptr(p) >= lo && uintptr(p)+size <= hi {
			return i
		}
	}
	return -1
}

// failingSource fails every allocation after the first n.
type failingSource struct {
	n      int
	allocs int
	frees  int
}

var errSourceDown = errors.New("source down")

func (s *failingSource) Alloc(size, align int) ([]byte, error) {
	if s.allocs >= s.n {
		return nil, errSourceDown
	}
	s.allocs++
	return HeapSource{}.Alloc(size, align)
}

func (s *failingSource) Free([]byte) error {
	s.frees++
	return nil
}
