package blockarena

import "iter"

// View is a restartable, non-owning sequence of the objects in an Arena, in
// creation order. It reads the arena live: creating objects while iterating
// is not supported.
type View[T any] struct {
	a *Arena[T]
}

// Begin returns an iterator at the first object, or End if there are none.
func (v View[T]) Begin() Iterator[T] {
	return Iterator[T]{a: v.a, chunk: v.a.st.chunks.root}
}

// End returns the past-the-end iterator.
func (v View[T]) End() Iterator[T] {
	return Iterator[T]{a: v.a, chunk: noRef}
}

// Len returns the number of objects in the view.
func (v View[T]) Len() int {
	return v.a.Count()
}

// All yields every object from first to last.
func (v View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := v.Begin(); it.Valid(); it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Backward yields every object from last to first.
func (v View[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := v.End()
		for it.Prev(); it.Valid(); it.Prev() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Handles yields a Handle and the object for every object from first to
// last.
func (v View[T]) Handles() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for it := v.Begin(); it.Valid(); it.Next() {
			if !yield(it.Handle(), it.Value()) {
				return
			}
		}
	}
}

// Iterator is a bidirectional cursor over the objects of an Arena. A position
// is an index chunk and a slot within it; End has no chunk.
//
// Iterators are comparable: two are equal iff they refer to the same arena,
// chunk and slot.
type Iterator[T any] struct {
	a     *Arena[T]
	chunk ref
	slot  uint32
}

// Valid reports whether the iterator is at an object, i.e. not at End.
func (it Iterator[T]) Valid() bool {
	return it.chunk != noRef
}

// Next moves to the following object, or to End after the last one.
// Next on End does nothing.
func (it *Iterator[T]) Next() {
	if it.chunk == noRef {
		return
	}
	h := it.a.st.chunk(it.chunk)
	it.slot++
	if it.slot >= h.count {
		it.chunk, it.slot = h.next, 0
	}
}

// Prev moves to the preceding object. From End it moves to the last object;
// from the first object it moves to End.
func (it *Iterator[T]) Prev() {
	st := &it.a.st
	switch {
	case it.chunk == noRef:
		if st.chunks.current != noRef {
			it.chunk = st.chunks.current
			it.slot = st.chunk(it.chunk).count - 1
		}
	case it.slot == 0:
		it.chunk, it.slot = st.chunk(it.chunk).prev, 0
		if it.chunk != noRef {
			it.slot = st.chunk(it.chunk).count - 1
		}
	default:
		it.slot--
	}
}

// Value returns the object at the iterator. It panics at End.
func (it Iterator[T]) Value() T {
	if it.chunk == noRef {
		panic("arena: Value called on end iterator")
	}
	st := &it.a.st
	return st.value(st.chunk(it.chunk).entries()[it.slot])
}

// Handle returns a Handle for the object at the iterator, or the zero Handle
// at End.
func (it Iterator[T]) Handle() Handle {
	if it.chunk == noRef {
		return Handle{}
	}
	return Handle{gen: it.a.st.gen, chunk: it.chunk, slot: it.slot}
}

// Equal reports whether it and other are at the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it == other
}
