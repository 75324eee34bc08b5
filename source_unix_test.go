//go:build unix

package blockarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestMmapSource_AlignmentAbovePage(t *testing.T) {
	page := unix.Getpagesize()
	a := newArena[shape](t,
		WithBlockSize(4*page),
		WithBlockAlignment(2*page),
		WithSource(MmapSource{}),
	)

	_, err := Create(a, circle{R: 1})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.NotErrorIs(t, err, ErrOutOfMemory, "a bad alignment is not an allocation failure")
	assert.Zero(t, a.NumBlocks())
	assert.Zero(t, a.Count())
}
