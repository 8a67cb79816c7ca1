package interp

import (
	"testing"

	"jcvm/context"
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
	"jcvm/store"
)

// newTestFrame builds a context with one pushed frame carrying maxStack
// operand slots and no locals, enough to drive a single instruction by
// hand through dispatch.
func newTestFrame(t *testing.T, maxStack int) (*context.Context, *frame.Frame) {
	t.Helper()
	ctx := context.New(1, 1)
	if err := ctx.Frames.PushArgs(nil); err != nil {
		t.Fatal(err)
	}
	f, err := ctx.Frames.PushFrame(1, 0, 0, nil, 0, 0, maxStack)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, f
}

func TestNewarrayNegativeLengthFaults(t *testing.T) {
	ctx, f := newTestFrame(t, 4)
	ip := New(ctx, nil, nil, nil)
	if err := f.Push(frame.ShortWord(-1)); err != nil {
		t.Fatal(err)
	}
	f.Code = []byte{opNewarray, 11}
	f.SetSavedPC(0)
	if _, err := opNewarrayExec(ip, f); !jcvmerr.Is(err, jcvmerr.KindNegativeArraySize) {
		t.Fatalf("expected negative-array-size fault, got %v", err)
	}
}

func TestNewarrayByteRoundTrip(t *testing.T) {
	ctx, f := newTestFrame(t, 4)
	ip := New(ctx, nil, nil, nil)
	if err := f.Push(frame.ShortWord(3)); err != nil {
		t.Fatal(err)
	}
	f.Code = []byte{opNewarray, 11} // T_BYTE
	f.SetSavedPC(0)
	next, err := opNewarrayExec(ip, f)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Fatalf("next pc = %d, want 2", next)
	}
	ref, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	a, err := ctx.Heap.ResolveArray(ref.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != object.KindByte || a.Length != 3 {
		t.Fatalf("got kind=%v length=%d, want byte/3", a.Kind, a.Length)
	}
}

// TestNewarrayPersistsToStore drives opNewarrayExec with a real Store
// backing the interpreter and confirms the array's header lands in the
// store immediately (spec §3 "written to the store immediately in the
// uninitialized layout"), then round-trips an element through the
// positional accessors exactly as bastore/baload would.
func TestNewarrayPersistsToStore(t *testing.T) {
	ctx, f := newTestFrame(t, 4)
	s := store.NewMap()
	ip := New(ctx, nil, nil, s)
	if err := f.Push(frame.ShortWord(3)); err != nil {
		t.Fatal(err)
	}
	f.Code = []byte{opNewarray, 11} // T_BYTE
	f.SetSavedPC(0)
	if _, err := opNewarrayExec(ip, f); err != nil {
		t.Fatal(err)
	}
	ref, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	a, err := ctx.Heap.ResolveArray(ref.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if a.Transient {
		t.Fatal("newarray must allocate a persistent array")
	}
	if _, err := s.Read(a.Tag); err != nil {
		t.Fatalf("array header not written to store: %v", err)
	}
	if err := arraySetByte(ip, a, 1, 42); err != nil {
		t.Fatal(err)
	}
	got, err := arrayGetByte(ip, a, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func pushArrayAndIndex(t *testing.T, ctx *context.Context, f *frame.Frame, a *object.Array, index int16) {
	t.Helper()
	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.ShortWord(index)); err != nil {
		t.Fatal(err)
	}
}

func TestByteArrayStoreThenLoad(t *testing.T) {
	ctx, f := newTestFrame(t, 8)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindByte, 4, 0, object.ClearNone)

	pushArrayAndIndex(t, ctx, f, a, 2)
	if err := f.Push(frame.ShortWord(-5)); err != nil {
		t.Fatal(err)
	}
	if _, err := arrayStoreByte(ip, f); err != nil {
		t.Fatal(err)
	}

	pushArrayAndIndex(t, ctx, f, a, 2)
	if _, err := arrayLoadByte(ip, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if w.Short != -5 {
		t.Fatalf("loaded %d, want -5", w.Short)
	}
}

func TestShortArrayStoreThenLoad(t *testing.T) {
	ctx, f := newTestFrame(t, 8)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindShort, 4, 0, object.ClearNone)

	pushArrayAndIndex(t, ctx, f, a, 1)
	if err := f.Push(frame.ShortWord(1234)); err != nil {
		t.Fatal(err)
	}
	if _, err := arrayStoreShort(ip, f); err != nil {
		t.Fatal(err)
	}

	pushArrayAndIndex(t, ctx, f, a, 1)
	if _, err := arrayLoadShort(ip, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if w.Short != 1234 {
		t.Fatalf("loaded %d, want 1234", w.Short)
	}
}

func TestIntArrayStoreThenLoad(t *testing.T) {
	ctx, f := newTestFrame(t, 8)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindInt, 2, 0, object.ClearNone)

	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.IntWord(0)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.IntWord(100000)); err != nil {
		t.Fatal(err)
	}
	if _, err := arrayStoreInt(ip, f); err != nil {
		t.Fatal(err)
	}

	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.IntWord(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := arrayLoadInt(ip, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if w.Int != 100000 {
		t.Fatalf("loaded %d, want 100000", w.Int)
	}
}

func TestArraylenPushesLength(t *testing.T) {
	ctx, f := newTestFrame(t, 4)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindByte, 7, 0, object.ClearNone)
	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if _, err := opArraylenExec(ip, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if w.Short != 7 {
		t.Fatalf("length = %d, want 7", w.Short)
	}
}

func TestArrayLoadOutOfBoundsFaults(t *testing.T) {
	ctx, f := newTestFrame(t, 4)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindByte, 2, 0, object.ClearNone)
	pushArrayAndIndex(t, ctx, f, a, 5)
	if _, err := arrayLoadByte(ip, f); !jcvmerr.Is(err, jcvmerr.KindArrayIndexOutOfBounds) {
		t.Fatalf("expected array-index-out-of-bounds fault, got %v", err)
	}
}

func TestArrayStoreNullRefSkipsAssignabilityCheck(t *testing.T) {
	ctx, f := newTestFrame(t, 8)
	ip := New(ctx, nil, nil, nil)
	a := object.NewTransientArray(object.KindReference, 2, 0, object.ClearNone)
	a.ElementClassPkg = 9 // would fault if resolved through a nil linker

	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.ShortWord(0)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(frame.RefWord(object.NullReference)); err != nil {
		t.Fatal(err)
	}
	if _, err := arrayStoreRef(ip, f); err != nil {
		t.Fatalf("storing null must not consult the linker: %v", err)
	}
}
