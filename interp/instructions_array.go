package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
	"jcvm/store"
)

// arrayHeaderWidth is the byte width of a persistent primitive array's
// tag-plus-length header (spec §6.1's 0x80-0x83 rows: 1-byte tag, 2-byte
// length, then the packed elements) — positional store accessors address
// raw byte offsets into the whole record, so element access must skip it
// explicitly.
const arrayHeaderWidth = 3

func init() {
	dispatch[opNewarray] = opNewarrayExec
	dispatch[opAnewarray] = opAnewarrayExec
	dispatch[opArraylen] = opArraylenExec

	dispatch[opAaload] = arrayLoadRef
	dispatch[opAastore] = arrayStoreRef
	dispatch[opBaload] = arrayLoadByte
	dispatch[opBastore] = arrayStoreByte
	dispatch[opSaload] = arrayLoadShort
	dispatch[opSastore] = arrayStoreShort
	dispatch[opIaload] = arrayLoadInt
	dispatch[opIastore] = arrayStoreInt
}

// atypeKind maps newarray's one-byte atype operand to a primitive kind
// (spec §4.8, anchored by S4's "newarray T_BYTE").
func atypeKind(atype byte) (object.PrimKind, error) {
	switch atype {
	case 10:
		return object.KindBoolean, nil
	case 11:
		return object.KindByte, nil
	case 12:
		return object.KindShort, nil
	case 13:
		return object.KindInt, nil
	default:
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "newarray: unsupported atype %d", atype)
	}
}

// opNewarrayExec implements S4: pop a short length, fault
// negative-array-size on a negative count, else allocate a fresh
// persistent primitive array (spec §3 "Lifecycles", §6.1) and push its
// reference. The §6.3 native `makeTransientXxxArray` family, not this
// bytecode, is the only source of a transient array.
func opNewarrayExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	atype, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	kind, err := atypeKind(atype)
	if err != nil {
		return 0, err
	}
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if w.Short < 0 {
		return 0, jcvmerr.New(jcvmerr.KindNegativeArraySize, "newarray: length %d", w.Short)
	}
	a := object.NewPersistentArray(kind, uint16(w.Short), 0, "")
	ref := ip.Ctx.Heap.AllocArray(a)
	a.Tag = store.Object(ip.Ctx.AppletID(), true, ref.Index())
	if err := persistNewArray(ip, a); err != nil {
		return 0, err
	}
	if err := f.Push(frame.RefWord(ref)); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

// opAnewarrayExec resolves the declared element class from the constant
// pool, stamping the new persistent array's transient ElementClassPkg
// field so a later aastore can check assignability
// (object.Array.ElementClassPkg). A reference array's elements remain
// heap-resident for the run (aastore/aaload operate on a.Refs); only the
// array's own header is durably written, since routing element writes
// through a per-element child tag would require rehydrating arbitrary
// nested objects from the store on every aaload, machinery this core
// does not build.
func opAnewarrayExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	class, err := ip.Linker.ResolveClass(ip.Ctx.CurrentPackage(), cpIndex)
	if err != nil {
		return 0, err
	}
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if w.Short < 0 {
		return 0, jcvmerr.New(jcvmerr.KindNegativeArraySize, "anewarray: length %d", w.Short)
	}
	a := object.NewPersistentArray(object.KindReference, uint16(w.Short), class.Offset, "")
	a.ElementClassPkg = class.Pkg
	a.Refs = make([]object.Reference, w.Short)
	ref := ip.Ctx.Heap.AllocArray(a)
	a.Tag = store.Object(ip.Ctx.AppletID(), true, ref.Index())
	if err := persistNewArray(ip, a); err != nil {
		return 0, err
	}
	if err := f.Push(frame.RefWord(ref)); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

// persistNewArray writes a's uninitialized on-store layout immediately
// (spec §3 "creation of one always allocates a new tag"): header plus,
// for a primitive array, a zero-filled element payload the same width
// object.EncodeArrayHeader expects. The zero-filled Bytes buffer used to
// build that payload is dropped afterward — a persistent array never
// reads or writes it directly; element access goes through the store's
// positional accessors (arrayGetByte et al., below).
func persistNewArray(ip *Interpreter, a *object.Array) error {
	if ip.Store == nil {
		return nil
	}
	if a.Kind != object.KindReference {
		a.Bytes = make([]byte, int(a.Length)*a.Kind.ElementWidth())
	}
	header := object.EncodeArrayHeader(a)
	a.Bytes = nil
	return ip.Store.Write(a.Tag, header)
}

func opArraylenExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(w.Ref)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(a.Length))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// elementType builds the object.Type a heap reference's runtime value
// has, for use on either side of an aastore assignability check (spec
// §4.3's docheckcast rules, via object.AssignableTo).
func elementType(ip *Interpreter, ref object.Reference) (object.Type, error) {
	inst, err := ip.Ctx.Heap.ResolveInstance(ref)
	if err == nil {
		class := object.ClassRef{Pkg: inst.PackageID, Offset: inst.ClassIndex}
		kind := object.TypeClass
		if ip.Linker.IsInterface(class) {
			kind = object.TypeInterface
		}
		return object.Type{Kind: kind, Class: class}, nil
	}
	a, aerr := ip.Ctx.Heap.ResolveArray(ref)
	if aerr != nil {
		return object.Type{}, err
	}
	if a.Kind == object.KindReference {
		elemClass := object.ClassRef{Pkg: a.ElementClassPkg, Offset: a.ElementClass}
		elemKind := object.TypeClass
		if ip.Linker.IsInterface(elemClass) {
			elemKind = object.TypeInterface
		}
		elem := object.Type{Kind: elemKind, Class: elemClass}
		return object.Type{Kind: object.TypeReferenceArray, Elem: &elem}, nil
	}
	return object.Type{Kind: object.TypePrimitiveArray, Prim: a.Kind}, nil
}

func arrayLoadRef(ip *Interpreter, f *frame.Frame) (int, error) {
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	v, err := a.GetRef(int32(wi.Short))
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.RefWord(v)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// arrayStoreRef implements P6: a non-null stored value must be
// assignable to the array's declared element class, checked after the
// null-then-bounds checks ResolveArray/checkArrayIndex perform.
func arrayStoreRef(ip *Interpreter, f *frame.Frame) (int, error) {
	wv, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	if err := checkArrayIndex(a, int32(wi.Short)); err != nil {
		return 0, err
	}
	if !wv.Ref.IsNull() {
		srcType, err := elementType(ip, wv.Ref)
		if err != nil {
			return 0, err
		}
		dstElem := object.Type{Kind: object.TypeClass, Class: object.ClassRef{Pkg: a.ElementClassPkg, Offset: a.ElementClass}}
		if ip.Linker.IsInterface(dstElem.Class) {
			dstElem.Kind = object.TypeInterface
		}
		if !object.AssignableTo(ip.Linker, srcType, dstElem) {
			return 0, jcvmerr.New(jcvmerr.KindArrayStore, "element not assignable to array's declared class")
		}
	}
	if err := a.SetRef(int32(wi.Short), wv.Ref); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// checkArrayIndex bounds-checks index before any kind-specific access,
// shared by the transient and persistent paths below.
func checkArrayIndex(a *object.Array, index int32) error {
	if index < 0 || index >= int32(a.Length) {
		return jcvmerr.New(jcvmerr.KindArrayIndexOutOfBounds, "index %d, length %d", index, a.Length)
	}
	return nil
}

// arrayGetByte/arraySetByte/... route a persistent primitive array's
// element access through the store's positional accessors instead of
// object.Array's in-memory Bytes buffer (spec invariant I3: "a
// persistent-object handle reads and writes only through its tag"). A
// transient array keeps using the in-memory accessor unchanged.

func arrayGetByte(ip *Interpreter, a *object.Array, index int32) (int8, error) {
	if err := checkArrayIndex(a, index); err != nil {
		return 0, err
	}
	if a.Transient {
		return a.GetByte(index)
	}
	v, err := ip.Store.Read1BAt(a.Tag, uint32(arrayHeaderWidth+index))
	return int8(v), err
}

func arraySetByte(ip *Interpreter, a *object.Array, index int32, v int32) error {
	if err := checkArrayIndex(a, index); err != nil {
		return err
	}
	if a.Transient {
		return a.SetByte(index, v)
	}
	return ip.Store.Write1BAt(a.Tag, uint32(arrayHeaderWidth+index), byte(v))
}

func arrayGetShort(ip *Interpreter, a *object.Array, index int32) (int16, error) {
	if err := checkArrayIndex(a, index); err != nil {
		return 0, err
	}
	if a.Transient {
		return a.GetShort(index)
	}
	v, err := ip.Store.Read2BAt(a.Tag, uint32(arrayHeaderWidth+index*2))
	return int16(v), err
}

func arraySetShort(ip *Interpreter, a *object.Array, index int32, v int16) error {
	if err := checkArrayIndex(a, index); err != nil {
		return err
	}
	if a.Transient {
		return a.SetShort(index, v)
	}
	return ip.Store.Write2BAt(a.Tag, uint32(arrayHeaderWidth+index*2), uint16(v))
}

func arrayGetInt(ip *Interpreter, a *object.Array, index int32) (int32, error) {
	if err := checkArrayIndex(a, index); err != nil {
		return 0, err
	}
	if a.Transient {
		return a.GetInt(index)
	}
	v, err := ip.Store.Read4BAt(a.Tag, uint32(int(arrayHeaderWidth)+int(index)*4))
	return int32(v), err
}

func arraySetInt(ip *Interpreter, a *object.Array, index int32, v int32) error {
	if err := checkArrayIndex(a, index); err != nil {
		return err
	}
	if a.Transient {
		return a.SetInt(index, v)
	}
	return ip.Store.Write4BAt(a.Tag, uint32(int(arrayHeaderWidth)+int(index)*4), uint32(v))
}

func arrayLoadByte(ip *Interpreter, f *frame.Frame) (int, error) {
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	v, err := arrayGetByte(ip, a, int32(wi.Short))
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(v))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func arrayStoreByte(ip *Interpreter, f *frame.Frame) (int, error) {
	wv, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	if err := arraySetByte(ip, a, int32(wi.Short), int32(wv.Short)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func arrayLoadShort(ip *Interpreter, f *frame.Frame) (int, error) {
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	v, err := arrayGetShort(ip, a, int32(wi.Short))
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(v)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func arrayStoreShort(ip *Interpreter, f *frame.Frame) (int, error) {
	wv, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	if err := arraySetShort(ip, a, int32(wi.Short), wv.Short); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func arrayLoadInt(ip *Interpreter, f *frame.Frame) (int, error) {
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	v, err := arrayGetInt(ip, a, wi.Int)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.IntWord(v)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func arrayStoreInt(ip *Interpreter, f *frame.Frame) (int, error) {
	wv, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wi, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wr, err := f.Pop()
	if err != nil {
		return 0, err
	}
	a, err := ip.Ctx.Heap.ResolveArray(wr.Ref)
	if err != nil {
		return 0, err
	}
	if err := arraySetInt(ip, a, wi.Int, wv.Int); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}
