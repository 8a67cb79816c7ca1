package resolve

import (
	"encoding/binary"
	"testing"

	"jcvm/cap"
	"jcvm/object"
)

func buildComponent(tag uint8, body []byte) []byte {
	out := []byte{tag, 0, 0}
	binary.BigEndian.PutUint16(out[1:3], uint16(len(body)))
	return append(out, body...)
}

func u16(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}

// buildClassRecord encodes one class-info record (spec §4.1) at whatever
// offset the caller places it in the class component body.
func buildClassRecord(super uint16, instSize uint16, pubVTable []uint16) []byte {
	var out []byte
	out = append(out, 0) // recordKindClass
	out = append(out, 0) // flags: not an interface
	out = append(out, u16(super)...)
	out = append(out, u16(instSize)...)
	out = append(out, 0, 0) // firstRefToken, refCount
	out = append(out, u16(0)...)
	out = append(out, byte(len(pubVTable)))
	out = append(out, u16(0)...) // package vtable base
	out = append(out, 0)         // package vtable count
	for _, v := range pubVTable {
		out = append(out, u16(v)...)
	}
	out = append(out, 0) // implemented-interface count
	return out
}

func minimalDirectory(sizes map[uint8]uint16, importCount, appletCount uint8) []byte {
	body := make([]byte, 0, 24+2+1+1)
	for tag := uint8(1); tag <= 11; tag++ {
		body = append(body, u16(sizes[tag])...)
	}
	body = append(body, u16(0)...)
	body = append(body, importCount, appletCount)
	return body
}

// buildImage assembles a minimal valid package image carrying the given
// class and constant-pool bytes plus an AID, for resolver tests.
func buildImage(t *testing.T, aid string, classBody, cpBody []byte) []byte {
	t.Helper()
	header := append([]byte{0, 1, 0, byte(len(aid))}, aid...)
	header = append(header, 0, 1)
	importBody := []byte{0}
	methodBody := []byte{0, 0}
	staticFieldBody := []byte{0, 0}
	refLocBody := []byte{0, 0}
	descriptorBody := []byte{}

	sizes := map[uint8]uint16{
		cap.TagHeader:      uint16(len(header)),
		cap.TagImport:      uint16(len(importBody)),
		cap.TagConstPool:   uint16(len(cpBody)),
		cap.TagClass:       uint16(len(classBody)),
		cap.TagMethod:      uint16(len(methodBody)),
		cap.TagStaticField: uint16(len(staticFieldBody)),
		cap.TagRefLocation: uint16(len(refLocBody)),
		cap.TagDescriptor:  uint16(len(descriptorBody)),
	}
	dirBody := minimalDirectory(sizes, 0, 0)

	var out []byte
	out = append(out, buildComponent(cap.TagHeader, header)...)
	out = append(out, buildComponent(cap.TagDirectory, dirBody)...)
	out = append(out, buildComponent(cap.TagImport, importBody)...)
	out = append(out, buildComponent(cap.TagConstPool, cpBody)...)
	out = append(out, buildComponent(cap.TagClass, classBody)...)
	out = append(out, buildComponent(cap.TagMethod, methodBody)...)
	out = append(out, buildComponent(cap.TagStaticField, staticFieldBody)...)
	out = append(out, buildComponent(cap.TagRefLocation, refLocBody)...)
	out = append(out, buildComponent(cap.TagDescriptor, descriptorBody)...)
	return out
}

func mustParse(t *testing.T, data []byte) *cap.Image {
	t.Helper()
	img, err := cap.Parse(data)
	if err != nil {
		t.Fatalf("cap.Parse: %v", err)
	}
	return img
}

func TestResolveClassInternal(t *testing.T) {
	// Class A at offset 0 (superclass Object), class B at some later
	// offset whose superclass is A.
	classA := buildClassRecord(cap.ObjectSentinel, 2, nil)
	classBOffset := uint16(len(classA))
	classB := buildClassRecord(0, 3, nil)
	classBody := append(append([]byte{}, classA...), classB...)

	// constant pool entry 0: internal class ref to B.
	cpBody := []byte{uint8(cap.CPClassRef), byte(classBOffset >> 8), byte(classBOffset), 0}

	img := mustParse(t, buildImage(t, "pkg", classBody, cpBody))
	l := NewLinker()
	l.AddPackage(1, img)

	ref, err := l.ResolveClass(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Pkg != 1 || ref.Offset != classBOffset {
		t.Fatalf("got %+v, want pkg 1 offset %d", ref, classBOffset)
	}

	super, ok := l.SuperOf(ref)
	if !ok {
		t.Fatal("expected B to have a superclass")
	}
	if super.Offset != 0 {
		t.Fatalf("super offset = %d, want 0 (class A)", super.Offset)
	}

	grandSuper, ok := l.SuperOf(super)
	if !ok || !grandSuper.IsObject {
		t.Fatalf("class A's superclass must be Object, got %+v ok=%v", grandSuper, ok)
	}
}

func TestResolveInstanceFieldSlotMath(t *testing.T) {
	classA := buildClassRecord(cap.ObjectSentinel, 2, nil) // A declares 2 fields (instance size 2)
	classBOffset := uint16(len(classA))
	classB := buildClassRecord(0, 5, nil) // B adds fields on top of A's 2
	classBody := append(append([]byte{}, classA...), classB...)

	// instance-field ref: internal, class offset = B, member token = 1
	// (B's second declared field).
	cpBody := []byte{uint8(cap.CPInstanceFieldRef), byte(classBOffset >> 8), byte(classBOffset), 1}

	img := mustParse(t, buildImage(t, "pkg", classBody, cpBody))
	l := NewLinker()
	l.AddPackage(1, img)

	class, slot, err := l.ResolveInstanceField(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if class.Offset != classBOffset {
		t.Fatalf("resolved class offset = %d, want %d", class.Offset, classBOffset)
	}
	// slot = A's instance size (2) + field token (1) = 3
	if slot != 3 {
		t.Fatalf("slot = %d, want 3", slot)
	}
}

func TestResolveVirtualMethodDispatchesOnReceiverClass(t *testing.T) {
	classA := buildClassRecord(cap.ObjectSentinel, 0, []uint16{0x10, 0x20})
	classBOffset := uint16(len(classA))
	classB := buildClassRecord(0, 0, []uint16{0x10, 0x99}) // overrides token 1
	classBody := append(append([]byte{}, classA...), classB...)

	cpBody := []byte{uint8(cap.CPVirtualMethodRef), 0, 0, 1} // internal, offset 0 unused by dispatch, token=1

	img := mustParse(t, buildImage(t, "pkg", classBody, cpBody))
	l := NewLinker()
	l.AddPackage(1, img)

	receiverA := object.ClassRef{Pkg: 1, Offset: 0}
	_, offsetA, err := l.ResolveVirtualMethod(1, 0, receiverA)
	if err != nil {
		t.Fatal(err)
	}
	if offsetA != 0x20 {
		t.Fatalf("A's method offset = %#x, want 0x20", offsetA)
	}

	receiverB := object.ClassRef{Pkg: 1, Offset: classBOffset}
	_, offsetB, err := l.ResolveVirtualMethod(1, 0, receiverB)
	if err != nil {
		t.Fatal(err)
	}
	if offsetB != 0x99 {
		t.Fatalf("B's overriding method offset = %#x, want 0x99", offsetB)
	}
}

func TestAssignableToAcrossHierarchy(t *testing.T) {
	classA := buildClassRecord(cap.ObjectSentinel, 0, nil)
	classBOffset := uint16(len(classA))
	classB := buildClassRecord(0, 0, nil)
	classBody := append(append([]byte{}, classA...), classB...)

	img := mustParse(t, buildImage(t, "pkg", classBody, nil))
	l := NewLinker()
	l.AddPackage(1, img)

	a := object.Type{Kind: object.TypeClass, Class: object.ClassRef{Pkg: 1, Offset: 0}}
	b := object.Type{Kind: object.TypeClass, Class: object.ClassRef{Pkg: 1, Offset: classBOffset}}
	objType := object.Type{Kind: object.TypeClass, Class: object.ClassRef{IsObject: true}}

	if !object.AssignableTo(l, b, a) {
		t.Error("B must be assignable to its superclass A")
	}
	if object.AssignableTo(l, a, b) {
		t.Error("A must not be assignable to its subclass B")
	}
	if !object.AssignableTo(l, a, objType) {
		t.Error("every class must be assignable to Object")
	}
}
