package blockarena

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"unsafe"
)

// ref names a byte inside a blockStore: the block number in the high 32 bits
// and the byte offset in the low 32 bits. It holds no Go pointer, so refs may
// live inside block memory.
type ref uint64

const noRef ref = math.MaxUint64

func makeRef(block, offset uint32) ref {
	return ref(block)<<32 | ref(offset)
}

func (r ref) block() uint32  { return uint32(r >> 32) }
func (r ref) offset() uint32 { return uint32(r) }

// block is one fixed-size buffer in a blockStore chain.
type block struct {
	data []byte
	next *block
}

// blockStore is a bump allocator over a singly linked chain of blocks.
type blockStore struct {
	lane      string
	blockSize int
	align     int
	source    BlockSource
	log       *slog.Logger

	root    *block
	current *block
	// offset is the next free byte in current. It starts at blockSize so
	// that the first carve rolls over.
	offset int
	// table maps block numbers to blocks for ref resolution.
	table []*block
	// filled is the sum of final offsets of every block before current.
	filled int
}

func newBlockStore(lane string, blockSize, align int, source BlockSource, log *slog.Logger) blockStore {
	return blockStore{
		lane:      lane,
		blockSize: blockSize,
		align:     align,
		source:    source,
		log:       log,
		offset:    blockSize,
	}
}

// carve reserves size bytes aligned to align, rolling over to a new block
// when the current one cannot hold them. On error the store is unchanged.
func (s *blockStore) carve(size, align uintptr) (ref, unsafe.Pointer, error) {
	off := int(alignUp(uintptr(s.offset), align))
	if s.current == nil || off >= s.blockSize || off+int(size) > s.blockSize {
		if err := s.grow(); err != nil {
			return noRef, nil, err
		}
		off = 0
	}
	s.offset = off + int(size)
	r := makeRef(uint32(len(s.table)-1), uint32(off))
	return r, unsafe.Add(unsafe.Pointer(unsafe.SliceData(s.current.data)), off), nil
}

// grow appends a new block from the source and makes it current.
func (s *blockStore) grow() error {
	if uint64(len(s.table)) == math.MaxUint32 {
		return fmt.Errorf("%w: %s lane has too many blocks", ErrOutOfMemory, s.lane)
	}
	data, err := s.source.Alloc(s.blockSize, s.align)
	if err != nil {
		if !errors.Is(err, ErrOutOfMemory) && !errors.Is(err, ErrInvalidConfig) {
			err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		return err
	}
	if len(data) != s.blockSize || addrOf(data)%uintptr(s.align) != 0 {
		_ = s.source.Free(data)
		return fmt.Errorf("%w: source returned %d bytes at %#x, want %d bytes aligned to %d",
			ErrInvalidConfig, len(data), addrOf(data), s.blockSize, s.align)
	}

	b := &block{data: data}
	if s.current != nil {
		s.filled += s.offset
		s.current.next = b
	} else {
		s.root = b
	}
	s.current = b
	s.offset = 0
	s.table = append(s.table, b)

	s.log.Debug("arena: block allocated", "lane", s.lane, "block", len(s.table)-1, "size", s.blockSize)
	return nil
}

// resolve returns the address named by r. r must have been produced by
// carve on this store.
func (s *blockStore) resolve(r ref) unsafe.Pointer {
	b := s.table[r.block()]
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(b.data)), int(r.offset()))
}

// owns reports whether r falls inside a block of this store.
func (s *blockStore) owns(r ref) bool {
	return r != noRef && int(r.block()) < len(s.table) && int(r.offset()) < s.blockSize
}

// numBlocks returns the length of the chain.
func (s *blockStore) numBlocks() int {
	return len(s.table)
}

// sizeInUse returns the bytes carved so far, including alignment padding.
func (s *blockStore) sizeInUse() int {
	if s.current == nil {
		return 0
	}
	return s.filled + s.offset
}

// release returns every block to the source and empties the store.
func (s *blockStore) release() error {
	var errs []error
	for b := s.root; b != nil; {
		next := b.next
		if err := s.source.Free(b.data); err != nil {
			errs = append(errs, err)
		}
		b.data, b.next = nil, nil
		b = next
	}
	*s = newBlockStore(s.lane, s.blockSize, s.align, s.source, s.log)
	return errors.Join(errs...)
}

// alignUp rounds off up to the next multiple of align, which must be a
// power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
