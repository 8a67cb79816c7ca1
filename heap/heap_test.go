package heap

import (
	"testing"

	"jcvm/jcvmerr"
	"jcvm/object"
)

func TestAllocAndResolve(t *testing.T) {
	h := New(1)
	inst := object.NewInstance(1, 0, []object.SlotKind{object.SlotByte})
	r := h.AllocInstance(inst)
	if r.IsArray() || r.IsNull() {
		t.Fatalf("unexpected reference shape: %+v", r)
	}
	got, err := h.ResolveInstance(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != inst {
		t.Fatal("resolved instance does not match allocated one")
	}
}

func TestResolveNullChecksBeforeKindMismatch(t *testing.T) {
	h := New(1)
	_, err := h.ResolveInstance(object.NullReference)
	if !jcvmerr.Is(err, jcvmerr.KindNullPointer) {
		t.Fatalf("expected null-pointer fault, got %v", err)
	}
}

func TestResolveKindMismatchFaultsSecurity(t *testing.T) {
	h := New(1)
	arr := object.NewTransientArray(object.KindByte, 2, 0, object.ClearNone)
	r := h.AllocArray(arr)
	_, err := h.ResolveInstance(r)
	if !jcvmerr.Is(err, jcvmerr.KindSecurity) {
		t.Fatalf("expected security fault for kind mismatch, got %v", err)
	}
}

func TestResolveOutOfRangeFaultsSecurity(t *testing.T) {
	h := New(1)
	bogus := object.MakeReference(false, 99)
	_, err := h.ResolveInstance(bogus)
	if !jcvmerr.Is(err, jcvmerr.KindSecurity) {
		t.Fatalf("expected security fault, got %v", err)
	}
}

func TestFirewallEqualityPredicate(t *testing.T) {
	h := New(7)
	if !h.Firewall(7) {
		t.Fatal("same security context must pass firewall")
	}
	if h.Firewall(8) {
		t.Fatal("different security context must fail firewall")
	}
}
