package cap

import (
	"encoding/binary"
	"testing"
)

// buildComponent wraps a component body with its tag and length prefix.
func buildComponent(tag uint8, body []byte) []byte {
	out := []byte{tag, 0, 0}
	binary.BigEndian.PutUint16(out[1:3], uint16(len(body)))
	return append(out, body...)
}

func minimalDirectory(sizes map[uint8]uint16, importCount, appletCount uint8) []byte {
	body := make([]byte, 0, 24+2+1+1)
	for tag := uint8(1); tag <= 11; tag++ {
		var sz [2]byte
		binary.BigEndian.PutUint16(sz[:], sizes[tag])
		body = append(body, sz[:]...)
	}
	var sfSize [2]byte
	binary.BigEndian.PutUint16(sfSize[:], 0)
	body = append(body, sfSize[:]...)
	body = append(body, importCount, appletCount)
	return body
}

func minimalImage(t *testing.T) []byte {
	t.Helper()

	header := []byte{0, 1 /*minor,major*/, 0 /*flags: nothing set*/, 2, 'j', 'c', 0, 1}
	importBody := []byte{0} // zero imports
	classBody := []byte{}   // no classes
	cpBody := []byte{}      // empty constant pool
	methodBody := []byte{0, 0} // zero exception handlers, no methods
	staticFieldBody := []byte{0, 0}
	refLocBody := []byte{0, 0}
	descriptorBody := []byte{}

	sizes := map[uint8]uint16{
		TagHeader:      uint16(len(header)),
		TagDirectory:   0, // filled below after we know directory's own size isn't self-referential
		TagImport:      uint16(len(importBody)),
		TagConstPool:   uint16(len(cpBody)),
		TagClass:       uint16(len(classBody)),
		TagMethod:      uint16(len(methodBody)),
		TagStaticField: uint16(len(staticFieldBody)),
		TagRefLocation: uint16(len(refLocBody)),
		TagDescriptor:  uint16(len(descriptorBody)),
	}
	dirBody := minimalDirectory(sizes, 0, 0)

	var out []byte
	out = append(out, buildComponent(TagHeader, header)...)
	out = append(out, buildComponent(TagDirectory, dirBody)...)
	out = append(out, buildComponent(TagImport, importBody)...)
	out = append(out, buildComponent(TagConstPool, cpBody)...)
	out = append(out, buildComponent(TagClass, classBody)...)
	out = append(out, buildComponent(TagMethod, methodBody)...)
	out = append(out, buildComponent(TagStaticField, staticFieldBody)...)
	out = append(out, buildComponent(TagRefLocation, refLocBody)...)
	out = append(out, buildComponent(TagDescriptor, descriptorBody)...)
	return out
}

func TestParseMinimalImage(t *testing.T) {
	img, err := Parse(minimalImage(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if img.Header.MajorVersion != 1 {
		t.Errorf("MajorVersion = %d, want 1", img.Header.MajorVersion)
	}
	if string(img.Header.AID) != "jc" {
		t.Errorf("AID = %q, want %q", img.Header.AID, "jc")
	}
	if len(img.Import) != 0 {
		t.Errorf("Import = %v, want empty", img.Import)
	}
}

func TestParseRejectsDuplicateTag(t *testing.T) {
	data := minimalImage(t)
	data = append(data, buildComponent(TagHeader, []byte{0, 1, 0, 0})...)
	if _, err := Parse(data); err == nil {
		t.Fatal("Parse accepted a duplicate component tag")
	}
}

func TestParseRejectsMissingMandatoryComponent(t *testing.T) {
	data := minimalImage(t)
	// Truncate to just the header component: every other mandatory
	// component is now missing.
	data = data[:3+8]
	if _, err := Parse(data); err == nil {
		t.Fatal("Parse accepted an image missing mandatory components")
	}
}

func TestParseRejectsTruncatedComponent(t *testing.T) {
	data := minimalImage(t)
	// Claim a header component longer than the bytes actually present.
	data[1] = 0xFF
	if _, err := Parse(data); err == nil {
		t.Fatal("Parse accepted a component whose declared length overruns the image")
	}
}

func TestConstantPoolExternalEntry(t *testing.T) {
	// tag=CPVirtualMethodRef, selector with high bit set (external),
	// packageToken=3, classToken=7, memberToken=2.
	raw := []byte{uint8(CPVirtualMethodRef), 0x80 | 3, 7, 2}
	cp, err := parseConstantPool(raw)
	if err != nil {
		t.Fatalf("parseConstantPool: %v", err)
	}
	e, err := cp.Entry(0)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if !e.External || e.PackageToken != 3 || e.ClassToken != 7 || e.MemberToken != 2 {
		t.Errorf("entry = %+v, want external{3,7,2}", e)
	}
}

func TestMethodHeaderShortForm(t *testing.T) {
	// short form: byte0 = flags(nibble)<<4 | max_stack(nibble); byte1 =
	// nargs(nibble)<<4 | max_locals(nibble); then u2 code length + code.
	data := []byte{
		0, 0, // zero exception handlers
		(0x0 << 4) | 0x3, (0x2 << 4) | 0x1, // maxStack=3, nargs=2, maxLocals=1
		0, 2, 0x01, 0x02, // code length 2, code bytes
	}
	mc, err := parseMethodComponent(data)
	if err != nil {
		t.Fatalf("parseMethodComponent: %v", err)
	}
	m := mc.Methods[2]
	if m == nil {
		t.Fatal("method header not found at offset 2")
	}
	if m.MaxStack != 3 || m.Nargs != 2 || m.MaxLocals != 1 || m.Abstract {
		t.Errorf("header = %+v", m)
	}
	if len(m.Code) != 2 {
		t.Errorf("code length = %d, want 2", len(m.Code))
	}
}
