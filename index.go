package blockarena

import "unsafe"

// chunkHeader starts every index chunk. It is followed in block memory by
// capacity entries.
type chunkHeader struct {
	next     ref
	prev     ref
	count    uint32
	capacity uint32
}

// entry records one created object: where it lives and its type id.
type entry struct {
	obj ref
	typ uint32
}

const (
	chunkHeaderSize  = unsafe.Sizeof(chunkHeader{})
	chunkHeaderAlign = unsafe.Alignof(chunkHeader{})
	entrySize        = unsafe.Sizeof(entry{})
)

func chunkBytes(capacity int) uintptr {
	return chunkHeaderSize + uintptr(capacity)*entrySize
}

func (h *chunkHeader) entries() []entry {
	first := (*entry)(unsafe.Add(unsafe.Pointer(h), chunkHeaderSize))
	return unsafe.Slice(first, h.capacity)
}

func (h *chunkHeader) full() bool {
	return h.count == h.capacity
}

// chunkList is the doubly linked list of index chunks, in allocation order.
type chunkList struct {
	root     ref
	current  ref
	n        int
	capacity int
}

func newChunkList(capacity int) chunkList {
	return chunkList{root: noRef, current: noRef, capacity: capacity}
}

func (s *state[T]) chunk(r ref) *chunkHeader {
	return (*chunkHeader)(s.index.resolve(r))
}

// slot returns the chunk that will hold the next registration, appending a
// new chunk carved from the index lane when there is none or it is full.
func (s *state[T]) slot() (*chunkHeader, error) {
	if s.chunks.current != noRef {
		if h := s.chunk(s.chunks.current); !h.full() {
			return h, nil
		}
	}

	r, p, err := s.index.carve(chunkBytes(s.chunks.capacity), chunkHeaderAlign)
	if err != nil {
		return nil, err
	}
	h := (*chunkHeader)(p)
	*h = chunkHeader{
		next:     noRef,
		prev:     s.chunks.current,
		capacity: uint32(s.chunks.capacity),
	}
	if s.chunks.current != noRef {
		s.chunk(s.chunks.current).next = r
	} else {
		s.chunks.root = r
	}
	s.chunks.current = r
	s.chunks.n++
	return h, nil
}

// register appends obj to h, which must come from slot.
func (s *state[T]) register(h *chunkHeader, obj ref, typ uint32) {
	h.entries()[h.count] = entry{obj: obj, typ: typ}
	h.count++
	s.count++
}

// destroyAll runs the destroy hook of every registered object in
// registration order.
func (s *state[T]) destroyAll() {
	for r := s.chunks.root; r != noRef; {
		h := s.chunk(r)
		for _, e := range h.entries()[:h.count] {
			if destroy := s.types.infos[e.typ].destroy; destroy != nil {
				destroy(s.objects.resolve(e.obj))
			}
		}
		r = h.next
	}
}
