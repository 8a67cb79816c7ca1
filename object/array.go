package object

import "jcvm/jcvmerr"

// PrimKind is one of the five array element kinds (spec §3 "Array
// object"). Reference element type is recorded separately (ElementClass)
// since, unlike the four primitive kinds, it names a declared class
// rather than a fixed width.
type PrimKind uint8

const (
	KindBoolean PrimKind = iota
	KindByte
	KindShort
	KindInt
	KindReference
)

// ElementWidth returns the on-store/in-memory width in bytes of one
// element of the given primitive kind (spec §3: "Boolean and byte share
// one byte per element; short two bytes; int four bytes; reference two
// bytes").
func (k PrimKind) ElementWidth() int {
	switch k {
	case KindBoolean, KindByte:
		return 1
	case KindShort, KindReference:
		return 2
	case KindInt:
		return 4
	default:
		return 0
	}
}

// ClearEvent names when a transient array's contents are wiped (spec §3
// "Persistent vs. transient").
type ClearEvent uint8

const (
	ClearNone ClearEvent = iota
	ClearOnSelect
	ClearOnDeselect
)

// Array is a typed, fixed-length array object (spec §3 "Array object").
// A persistent array's elements live in the store under Tag; a transient
// array's elements live in Bytes/Refs.
type Array struct {
	Kind   PrimKind
	Length uint16

	// ElementClass is set only when Kind == KindReference: the
	// constant-pool offset recording the declared element class (spec
	// §6.1's on-store format, package-relative to wherever the array is
	// later deserialized).
	ElementClass uint16

	// ElementClassPkg is the resolved declaring package for
	// ElementClass, valid only for the lifetime of one run (anewarray
	// resolves it once from the creating context's constant pool; it
	// is never persisted, since §6.1's on-store format carries only the
	// bare cp-offset).
	ElementClassPkg uint8

	Transient  bool
	ClearEvent ClearEvent

	// Persistent-backing tag; empty when Transient.
	Tag string

	// Transient in-memory storage. Bytes holds packed primitive elements
	// (width per ElementWidth); Refs holds reference elements. Exactly one
	// is populated, matching Kind.
	Bytes []byte
	Refs  []Reference
}

// NewTransientArray allocates a transient array's in-memory storage.
func NewTransientArray(kind PrimKind, length uint16, elementClass uint16, clearEvent ClearEvent) *Array {
	a := &Array{Kind: kind, Length: length, ElementClass: elementClass, Transient: true, ClearEvent: clearEvent}
	if kind == KindReference {
		a.Refs = make([]Reference, length)
	} else {
		a.Bytes = make([]byte, int(length)*kind.ElementWidth())
	}
	return a
}

// NewPersistentArray describes a persistent array backed by tag; it
// writes nothing to the store, so the caller writes its uninitialized
// on-store layout (spec §3 "Lifecycles").
func NewPersistentArray(kind PrimKind, length uint16, elementClass uint16, tag string) *Array {
	return &Array{Kind: kind, Length: length, ElementClass: elementClass, Tag: tag}
}

// Clear wipes a transient array per its ClearEvent: zeroed for primitive
// arrays, nulled for reference arrays (spec §3 "Persistent vs.
// transient"). No-op for a persistent array or for ClearNone.
func (a *Array) Clear(event ClearEvent) {
	if !a.Transient || event == ClearNone || a.ClearEvent != event {
		return
	}
	if a.Kind == KindReference {
		for i := range a.Refs {
			a.Refs[i] = NullReference
		}
		return
	}
	for i := range a.Bytes {
		a.Bytes[i] = 0
	}
}

// ClearAll unconditionally wipes a transient array's contents,
// regardless of its declared ClearEvent; used by the clearArray native
// (spec §6.3), distinct from the automatic Clear(event) the runtime
// fires on select/deselect.
func (a *Array) ClearAll() {
	if a.Kind == KindReference {
		for i := range a.Refs {
			a.Refs[i] = NullReference
		}
		return
	}
	for i := range a.Bytes {
		a.Bytes[i] = 0
	}
}

func (a *Array) checkIndex(index int32) error {
	if index < 0 || index >= int32(a.Length) {
		return jcvmerr.New(jcvmerr.KindArrayIndexOutOfBounds, "index %d, length %d", index, a.Length)
	}
	return nil
}
