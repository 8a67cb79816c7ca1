package store

import "testing"

func TestMapWriteReadRoundTrip(t *testing.T) {
	m := NewMap()
	if err := m.Write("t1", []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	got, err := m.Read("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
	n, err := m.Length("t1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("length = %d, want 4", n)
	}
}

func TestMapPositionalAccessors(t *testing.T) {
	m := NewMap()
	if err := m.Write("arr", make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if err := m.Write4BAt("arr", 0, 0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := m.Write2BAt("arr", 4, 0x1234); err != nil {
		t.Fatal(err)
	}
	if err := m.Write1BAt("arr", 6, 0xAB); err != nil {
		t.Fatal(err)
	}
	v4, err := m.Read4BAt("arr", 0)
	if err != nil || v4 != 0xDEADBEEF {
		t.Fatalf("Read4BAt = %x, %v", v4, err)
	}
	v2, err := m.Read2BAt("arr", 4)
	if err != nil || v2 != 0x1234 {
		t.Fatalf("Read2BAt = %x, %v", v2, err)
	}
	v1, err := m.Read1BAt("arr", 6)
	if err != nil || v1 != 0xAB {
		t.Fatalf("Read1BAt = %x, %v", v1, err)
	}
}

func TestMapMissingTagFails(t *testing.T) {
	m := NewMap()
	if _, err := m.Read("nope"); err == nil {
		t.Fatal("expected error for missing tag")
	}
}

func TestReadInPlaceReflectsLaterPositionalWrite(t *testing.T) {
	m := NewMap()
	if err := m.Write("t", []byte{0, 0}); err != nil {
		t.Fatal(err)
	}
	view, err := m.ReadInPlace("t")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Write1BAt("t", 0, 9); err != nil {
		t.Fatal(err)
	}
	if view[0] != 9 {
		t.Fatalf("in-place view did not observe positional write, got %v", view)
	}
}
