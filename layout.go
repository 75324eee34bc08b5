package blockarena

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Destroyer is implemented by object types that need teardown. Destroy is
// called exactly once per object when its arena is reset or released, in
// creation order.
type Destroyer interface {
	Destroy()
}

// typeInfo is what an arena knows about one concrete object type.
type typeInfo[T any] struct {
	name    string
	size    uintptr
	align   uintptr
	view    func(unsafe.Pointer) T
	destroy func(unsafe.Pointer)
}

// typeTable assigns dense ids to the object types created in one arena.
// Index entries store the id, not the type.
type typeTable[T any] struct {
	ids   map[reflect.Type]uint32
	infos []typeInfo[T]
}

// typeID returns the id of U in a's type table, registering U on first use.
// It panics if U cannot live in a's blocks.
func typeID[U, T any](a *Arena[T]) uint32 {
	rt := reflect.TypeFor[U]()
	tt := &a.st.types
	if id, ok := tt.ids[rt]; ok {
		return id
	}

	checkLayout[T](rt, a.st.objects.blockSize, a.st.objects.align)

	info := typeInfo[T]{
		name:  rt.String(),
		size:  rt.Size(),
		align: uintptr(rt.Align()),
		view: func(p unsafe.Pointer) T {
			return any((*U)(p)).(T)
		},
	}
	if _, ok := any((*U)(nil)).(Destroyer); ok {
		info.destroy = func(p unsafe.Pointer) {
			any((*U)(p)).(Destroyer).Destroy()
		}
	}

	if tt.ids == nil {
		tt.ids = make(map[reflect.Type]uint32)
	}
	id := uint32(len(tt.infos))
	tt.ids[rt] = id
	tt.infos = append(tt.infos, info)
	return id
}

// checkLayout panics unless *rt is assignable to T and rt is pointer-free
// and fits a block of the given size and alignment.
func checkLayout[T any](rt reflect.Type, blockSize, blockAlign int) {
	base := reflect.TypeFor[T]()
	if !reflect.PointerTo(rt).AssignableTo(base) {
		panic(fmt.Sprintf("arena: *%s is not assignable to %s", rt, base))
	}
	if rt.Size() > uintptr(blockSize) {
		panic(fmt.Sprintf("arena: %s is larger than the block size (%d > %d)", rt, rt.Size(), blockSize))
	}
	if rt.Align() > blockAlign {
		panic(fmt.Sprintf("arena: %s needs alignment %d, blocks are aligned to %d", rt, rt.Align(), blockAlign))
	}
	if hasPointers(rt) {
		panic(fmt.Sprintf("arena: %s contains pointers; block memory is not scanned by the garbage collector", rt))
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Pointer, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}
