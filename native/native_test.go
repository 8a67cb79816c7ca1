package native

import (
	"testing"

	"jcvm/context"
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
)

func newTestFrame(t *testing.T) (*context.Context, *frame.Frame) {
	t.Helper()
	ctx := context.New(1, 1)
	if err := ctx.Frames.PushArgs(nil); err != nil {
		t.Fatal(err)
	}
	f, err := ctx.Frames.PushFrame(1, 0, 0, nil, 0, 0, 8)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, f
}

func TestCallUnregisteredIdentifierFaultsNotYetImplemented(t *testing.T) {
	table := NewTable()
	ctx, f := newTestFrame(t)
	if err := table.Call(0xBEEF, ctx, f); !jcvmerr.Is(err, jcvmerr.KindNotYetImplemented) {
		t.Fatalf("expected not-yet-implemented fault, got %v", err)
	}
}

func TestEmbeddingDependentIdentifiersStubToNotYetImplemented(t *testing.T) {
	table := NewTable()
	ctx, f := newTestFrame(t)
	for _, id := range []uint16{
		IDArrayCopy, IDTransactionBegin, IDAppletSelecting, IDShareableObject,
		IDChannelAccessor, IDObjectDeletionSupported, IDIntegrityAllocator,
	} {
		if err := table.Call(id, ctx, f); !jcvmerr.Is(err, jcvmerr.KindNotYetImplemented) {
			t.Fatalf("identifier %d: expected stub fault, got %v", id, err)
		}
	}
}

func TestMakeTransientByteArrayAllocatesAndPushesRef(t *testing.T) {
	table := NewTable()
	ctx, f := newTestFrame(t)
	if err := f.Push(frame.ShortWord(5)); err != nil { // length
		t.Fatal(err)
	}
	if err := f.Push(frame.ShortWord(int16(object.ClearOnDeselect))); err != nil { // event
		t.Fatal(err)
	}
	if err := table.Call(IDMakeTransientByteArray, ctx, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	a, err := ctx.Heap.ResolveArray(w.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != object.KindByte || a.Length != 5 {
		t.Fatalf("got kind=%v length=%d, want byte/5", a.Kind, a.Length)
	}
	if a.ClearEvent != object.ClearOnDeselect {
		t.Fatalf("clear event = %v, want ClearOnDeselect", a.ClearEvent)
	}
}

func TestClearArrayWipesRegardlessOfEvent(t *testing.T) {
	ctx, f := newTestFrame(t)
	a := object.NewTransientArray(object.KindByte, 3, 0, object.ClearNone)
	if err := a.SetByte(0, 42); err != nil {
		t.Fatal(err)
	}
	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := clearArray(ctx, f); err != nil {
		t.Fatal(err)
	}
	v, err := a.GetByte(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("byte 0 = %d after clear, want 0", v)
	}
}

func TestVerifySignatureRejectsGarbage(t *testing.T) {
	ctx, f := newTestFrame(t)
	a := object.NewTransientArray(object.KindByte, 4, 0, object.ClearNone)
	ref := ctx.Heap.AllocArray(a)
	if err := f.Push(frame.RefWord(ref)); err != nil {
		t.Fatal(err)
	}
	if err := verifySignature(ctx, f); err != nil {
		t.Fatal(err)
	}
	w, err := f.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if w.Short != 0 {
		t.Fatalf("result = %d, want 0 for an unparseable blob", w.Short)
	}
}
