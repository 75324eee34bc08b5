// Package blockarena implements a block arena that owns a heterogeneous set
// of objects sharing a base type.
//
// # Overview
//
// An Arena[T] carves objects out of fixed-size, fixed-alignment blocks with
// a bump pointer, records every object in an index of fixed-capacity
// chunks, and destroys all of them at once, in creation order, when the
// arena is reset or released. T is usually an interface; any struct U whose
// pointer implements T can be created in the arena.
//
// # Basic Usage
//
//	type Shape interface{ Area() float64 }
//
//	a, err := blockarena.New[Shape]()
//	if err != nil { ... }
//	defer a.Release()
//
//	c, err := blockarena.Create(a, Circle{R: 2})
//	r, err := blockarena.Create(a, Rect{W: 2, H: 3})
//
//	for s := range a.Objects().All() {
//		fmt.Println(s.Area())
//	}
//
// # Memory Layout
//
// Objects are placed in blocks (default 64 KiB, 16-byte aligned). When the
// current block cannot fit the next object a new block is appended; objects
// never straddle blocks and never move. Index chunks are carved from blocks
// of their own, drawn from the same BlockSource, so object blocks stay
// densely packed.
//
// Block memory is not scanned by the garbage collector. Object types must be
// pointer-free: no pointers, strings, slices, maps, channels, funcs or
// interfaces. Create panics on the first use of a type that breaks this, is
// larger than a block, or needs more alignment than blocks provide.
//
// # Destruction
//
// Types implementing Destroyer have Destroy called exactly once per object,
// in creation order, by Reset, Release or MoveFrom (on the destination).
//
// # Ownership
//
// An Arena is single-owner and not goroutine-safe. MoveFrom and Take
// transfer all of an arena's contents in O(1). Pointers returned by Create
// are borrowed and become invalid on reset; a Handle detects that instead.
//
// # Block Sources
//
// HeapSource (the default) allocates blocks on the Go heap, MmapSource maps
// them outside it, and BudgetSource caps the bytes another source may hand
// out, which turns exhaustion into ErrOutOfMemory.
package blockarena
