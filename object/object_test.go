package object

import "testing"

func TestReferenceRoundTrip(t *testing.T) {
	r := MakeReference(true, 42)
	if r.IsNull() {
		t.Fatal("expected non-null")
	}
	if !r.IsArray() {
		t.Fatal("expected array discriminator")
	}
	if r.Index() != 42 {
		t.Fatalf("index = %d, want 42", r.Index())
	}
	if !NullReference.IsNull() {
		t.Fatal("zero value must be null")
	}
}

func TestEncodeDecodeSlotRoundTrip(t *testing.T) {
	cases := []Slot{
		{Kind: SlotUninitialized},
		{Kind: SlotByte, Byte: -5},
		{Kind: SlotShort, Short: 1234},
	}
	for _, s := range cases {
		data := EncodeSlot(s)
		got, hasChild, err := DecodeSlot(data)
		if err != nil {
			t.Fatalf("DecodeSlot(%v): %v", s, err)
		}
		if hasChild {
			t.Fatalf("unexpected child marker for %v", s)
		}
		if got != s {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
		}
	}
}

func TestEncodeDecodeRefSlotNull(t *testing.T) {
	s := Slot{Kind: SlotRef, Ref: NullReference}
	data := EncodeSlot(s)
	if data[0] != TagUninitialized {
		t.Fatalf("null ref must encode as uninitialized tag, got 0x%02X", data[0])
	}
	got, hasChild, err := DecodeSlot(data)
	if err != nil {
		t.Fatal(err)
	}
	if hasChild {
		t.Fatal("null reference must not report a child tag")
	}
	if got.Kind != SlotUninitialized {
		t.Fatalf("got kind %v, want SlotUninitialized", got.Kind)
	}
}

func TestEncodeDecodeRefSlotNonNull(t *testing.T) {
	s := Slot{Kind: SlotRef, Ref: MakeReference(false, 7)}
	data := EncodeSlot(s)
	if data[0] != TagInstance {
		t.Fatalf("non-null ref must encode presence marker, got 0x%02X", data[0])
	}
	_, hasChild, err := DecodeSlot(data)
	if err != nil {
		t.Fatal(err)
	}
	if !hasChild {
		t.Fatal("non-null reference must report a child tag")
	}
}

func TestEncodeDecodeInstanceHeaderRoundTrip(t *testing.T) {
	inst := NewInstance(3, 0x10, []SlotKind{SlotByte, SlotShort, SlotRef})
	data := EncodeInstanceHeader(inst)
	pkg, idx, err := DecodeInstanceHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if pkg != 3 || idx != 0x10 {
		t.Fatalf("got pkg=%d idx=%d, want 3,0x10", pkg, idx)
	}
}

func TestEncodeDecodePrimitiveArrayRoundTrip(t *testing.T) {
	a := NewTransientArray(KindShort, 3, 0, ClearNone)
	if err := a.SetShort(0, 100); err != nil {
		t.Fatal(err)
	}
	if err := a.SetShort(1, -1); err != nil {
		t.Fatal(err)
	}
	if err := a.SetShort(2, 32000); err != nil {
		t.Fatal(err)
	}
	// Encode as a persistent record, which carries its elements inline.
	a.Transient = false
	data := EncodeArrayHeader(a)
	got, err := DecodeArrayHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindShort || got.Length != 3 || got.Transient {
		t.Fatalf("got %+v", got)
	}
	for i := int32(0); i < 3; i++ {
		want, _ := a.GetShort(i)
		have, err := got.GetShort(i)
		if err != nil {
			t.Fatal(err)
		}
		if have != want {
			t.Fatalf("element %d: got %d, want %d", i, have, want)
		}
	}
}

func TestEncodeDecodeReferenceArrayHeaderOnly(t *testing.T) {
	a := NewPersistentArray(KindReference, 5, 0x99, "t")
	data := EncodeArrayHeader(a)
	got, err := DecodeArrayHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindReference || got.Length != 5 || got.ElementClass != 0x99 {
		t.Fatalf("got %+v", got)
	}
	if got.Bytes != nil || got.Refs != nil {
		t.Fatal("reference array record must not carry inline element payload")
	}
}

func TestEncodeDecodeTransientArrayOmitsBody(t *testing.T) {
	a := NewTransientArray(KindInt, 4, 0, ClearOnDeselect)
	data := EncodeArrayHeader(a)
	if len(data) != 4 { // tag(1) + length(2) + clear event(1), no element payload
		t.Fatalf("transient record length = %d, want header-only", len(data))
	}
	got, err := DecodeArrayHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Transient || got.ClearEvent != ClearOnDeselect || got.Length != 4 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeArrayRejectsBadTag(t *testing.T) {
	if _, err := DecodeArrayHeader([]byte{0x05, 0, 0}); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestInstanceFieldWidenAndTruncate(t *testing.T) {
	inst := NewInstance(1, 0, []SlotKind{SlotByte})
	if err := inst.SetByte(0, 7); err != nil {
		t.Fatal(err)
	}
	v, err := inst.GetShort(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Fatalf("widened byte->short = %d, want 7", v)
	}
	if err := inst.SetShort(0, 300); err != nil {
		t.Fatal(err)
	}
	b, err := inst.GetByte(0)
	if err != nil {
		t.Fatal(err)
	}
	if b != 44 { // 300 = 0x012C; the low byte 0x2C is 44
		t.Fatalf("truncated short->byte = %d, want 44", b)
	}
}
