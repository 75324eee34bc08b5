package blockarena

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"
)

// generations hands out process-wide unique generation numbers, so a Handle
// issued by one chain never validates against another.
var generations atomic.Uint64

// state is everything a move transfers between arenas.
type state[T any] struct {
	objects blockStore
	index   blockStore
	chunks  chunkList
	types   typeTable[T]
	count   int
	gen     uint64
}

// release frees both lanes. The state must not be used afterwards.
func (s *state[T]) release() error {
	return errors.Join(s.objects.release(), s.index.release())
}

// noCopy makes go vet's copylocks check report copies of an Arena.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Arena owns a heterogeneous set of objects whose pointers are assignable to
// T, typically an interface. Objects live in fixed-size blocks and are
// destroyed together, in creation order, by Reset or Release.
//
// An Arena is not goroutine-safe and must not be copied.
type Arena[T any] struct {
	noCopy noCopy

	cfg      config
	log      *slog.Logger
	st       state[T]
	released bool
}

// New creates an empty Arena. No memory is allocated until the first Create.
func New[T any](opts ...Option) (*Arena[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.logger
	if log == nil {
		log = slog.Default()
	}
	a := &Arena[T]{cfg: cfg, log: log}
	a.st = a.emptyState()
	return a, nil
}

func (a *Arena[T]) emptyState() state[T] {
	indexSize := max(a.cfg.blockSize, int(chunkBytes(a.cfg.indexCapacity)))
	indexAlign := max(a.cfg.blockAlignment, int(chunkHeaderAlign))
	return state[T]{
		objects: newBlockStore("objects", a.cfg.blockSize, a.cfg.blockAlignment, a.cfg.source, a.log),
		index:   newBlockStore("index", indexSize, indexAlign, a.cfg.source, a.log),
		chunks:  newChunkList(a.cfg.indexCapacity),
		gen:     generations.Add(1),
	}
}

// reservation is storage and an index slot for one object that has not been
// constructed yet.
type reservation struct {
	ptr   unsafe.Pointer
	obj   ref
	chunk *chunkHeader
	typ   uint32
}

func reserve[U, T any](a *Arena[T]) (reservation, error) {
	a.panicIfReleased()
	typ := typeID[U](a)
	info := &a.st.types.infos[typ]

	obj, ptr, err := a.st.objects.carve(info.size, info.align)
	if err != nil {
		return reservation{}, fmt.Errorf("create %s: %w", info.name, err)
	}
	h, err := a.st.slot()
	if err != nil {
		return reservation{}, fmt.Errorf("create %s: index: %w", info.name, err)
	}
	return reservation{ptr: ptr, obj: obj, chunk: h, typ: typ}, nil
}

// Create copies v into new storage owned by a and returns its address, which
// stays valid until a is reset, released or moved from.
//
// *U must be assignable to T and U must be pointer-free and fit a block;
// Create panics otherwise. If a block cannot be allocated the error wraps
// ErrOutOfMemory, no object is created and Count is unchanged.
func Create[U, T any](a *Arena[T], v U) (*U, error) {
	r, err := reserve[U](a)
	if err != nil {
		return nil, err
	}
	p := (*U)(r.ptr)
	*p = v
	a.st.register(r.chunk, r.obj, r.typ)
	return p, nil
}

// CreateZero is like Create with the zero value of U.
func CreateZero[U, T any](a *Arena[T]) (*U, error) {
	var zero U
	return Create[U](a, zero)
}

// Objects returns a view over every object in creation order.
func (a *Arena[T]) Objects() View[T] {
	return View[T]{a: a}
}

// Count returns the number of objects created since the last reset.
func (a *Arena[T]) Count() int {
	return a.st.count
}

// Get returns the object h refers to. It reports false if h was issued before
// the last reset, by an arena the object has since moved out of, or is the
// zero Handle.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if h.gen != a.st.gen || !a.st.index.owns(h.chunk) {
		return zero, false
	}
	c := a.st.chunk(h.chunk)
	if h.slot >= c.count {
		return zero, false
	}
	return a.st.value(c.entries()[h.slot]), true
}

func (s *state[T]) value(e entry) T {
	return s.types.infos[e.typ].view(s.objects.resolve(e.obj))
}

// Reset destroys every object in creation order, returns all blocks to the
// source and leaves a empty. Pointers and handles from before the reset
// become invalid. Reset panics if a has been released.
func (a *Arena[T]) Reset() {
	a.panicIfReleased()
	a.reset()
}

func (a *Arena[T]) reset() {
	n, blocks := a.st.count, a.st.objects.numBlocks()+a.st.index.numBlocks()
	a.st.destroyAll()
	if err := a.st.release(); err != nil {
		a.log.Error("arena: failed to release blocks", "error", err)
	}
	a.st = a.emptyState()
	if n > 0 || blocks > 0 {
		a.log.Debug("arena: reset", "objects", n, "blocks", blocks)
	}
}

// Release resets a and makes it unusable. Any subsequent Create, Reset,
// MoveFrom or Take will panic. Releasing twice is a no-op.
func (a *Arena[T]) Release() {
	if a.released {
		return
	}
	a.reset()
	a.released = true
}

// MoveFrom resets a, then transfers every block, object and handle from src
// to a. src is left empty and usable.
func (a *Arena[T]) MoveFrom(src *Arena[T]) {
	if src == nil {
		panic("arena: MoveFrom(nil)")
	}
	if a == src {
		return
	}
	a.panicIfReleased()
	src.panicIfReleased()
	a.reset()
	a.st = src.st
	src.st = src.emptyState()
}

// Take moves the contents of a into a new Arena with a's configuration and
// leaves a empty and usable.
func (a *Arena[T]) Take() *Arena[T] {
	a.panicIfReleased()
	b := &Arena[T]{cfg: a.cfg, log: a.log, st: a.st}
	a.st = a.emptyState()
	return b
}

func (a *Arena[T]) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}

// Handle identifies one object of an Arena without holding its address. It
// can be checked with Arena.Get after the arena has been reset.
type Handle struct {
	gen   uint64
	chunk ref
	slot  uint32
}
