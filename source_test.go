package blockarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapSource(t *testing.T) {
	for _, align := range []int{1, 8, 16, 64, 4096} {
		for _, size := range []int{1, 64, 1000, DefaultBlockSize} {
			b, err := HeapSource{}.Alloc(size, align)
			require.NoError(t, err)
			assert.Len(t, b, size)
			assert.Equal(t, size, cap(b), "capacity is clipped to the block")
			assert.Zero(t, addrOf(b)%uintptr(align), "size=%d align=%d", size, align)
			require.NoError(t, HeapSource{}.Free(b))
		}
	}
}

func TestBudgetSource(t *testing.T) {
	s := NewBudgetSource(nil, 100)

	a, err := s.Alloc(60, 8)
	require.NoError(t, err)

	_, err = s.Alloc(60, 8)
	require.ErrorIs(t, err, ErrOutOfMemory)

	b, err := s.Alloc(40, 8)
	require.NoError(t, err, "the remainder of the budget is still available")

	require.NoError(t, s.Free(a))
	c, err := s.Alloc(60, 8)
	require.NoError(t, err, "freed bytes return to the budget")

	require.NoError(t, s.Free(b))
	require.NoError(t, s.Free(c))

	_, err = s.Alloc(101, 8)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestBudgetSource_InnerFailure(t *testing.T) {
	inner := &failingSource{n: 1}
	s := NewBudgetSource(inner, 1000)

	_, err := s.Alloc(100, 8)
	require.NoError(t, err)

	_, err = s.Alloc(100, 8)
	require.ErrorIs(t, err, errSourceDown)

	// the failed request did not consume budget
	inner.n = 2
	_, err = s.Alloc(800, 8)
	require.NoError(t, err)
}

func TestArena_Sources(t *testing.T) {
	sources := map[string]BlockSource{
		"heap":   HeapSource{},
		"mmap":   MmapSource{},
		"budget": NewBudgetSource(MmapSource{}, 1<<20),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			resetDestroyed(t)
			a := newArena[shape](t, WithBlockSize(4096), WithSource(src))

			for i := range 1000 {
				_, err := Create(a, tracked{ID: i})
				require.NoError(t, err)
			}
			assert.Equal(t, 1000, a.Count())
			assert.Greater(t, a.NumBlocks(), 1)

			i := 0
			for s := range a.Objects().All() {
				assert.Equal(t, float64(i), s.Area())
				i++
			}

			a.Reset()
			assert.Len(t, destroyed, 1000)
		})
	}
}
