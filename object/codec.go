// Codec implements the persistent on-store layout of spec §6.1.
//
// A reference-typed field or array element never carries an inline value:
// per §4.3 ("writing a reference-array element recursively serializes the
// assigned object under a per-element child tag"), the referenced object's
// own record lives wholesale under a derived store tag (§6.2), and the
// reference's "value" is simply whatever is (or is not) present at that
// tag. Encode/Decode here therefore work at the level of one object's own
// header-plus-scalar-payload; the store package is what decides, from
// §6.2's tag-composition rules, where a given nested object's bytes land.
package object

import (
	"encoding/binary"

	"jcvm/jcvmerr"
)

const (
	TagByte          byte = 0x00
	TagShort         byte = 0x02
	TagInt           byte = 0x03
	TagInstance      byte = 0x04
	TagArrayByte     byte = 0x80
	TagArrayBoolean  byte = 0x81
	TagArrayShort    byte = 0x82
	TagArrayInt      byte = 0x83
	TagArrayRef      byte = 0x84
	TagTransientBase byte = 0xC0 // TagTransientBase + (array tag - 0x80) per kind
	TagUninitialized byte = 0xFF
)

func primArrayTag(kind PrimKind) byte {
	switch kind {
	case KindByte:
		return TagArrayByte
	case KindBoolean:
		return TagArrayBoolean
	case KindShort:
		return TagArrayShort
	case KindInt:
		return TagArrayInt
	case KindReference:
		return TagArrayRef
	default:
		return TagUninitialized
	}
}

func primKindFromArrayTag(tag byte) (PrimKind, bool) {
	switch tag {
	case TagArrayByte:
		return KindByte, true
	case TagArrayBoolean:
		return KindBoolean, true
	case TagArrayShort:
		return KindShort, true
	case TagArrayInt:
		return KindInt, true
	case TagArrayRef:
		return KindReference, true
	default:
		return 0, false
	}
}

// EncodeUninitialized returns the uninitialized-record bytes (spec §6.1
// tag 0xFF).
func EncodeUninitialized() []byte { return []byte{TagUninitialized} }

// EncodeSlot encodes a scalar field slot's tagged value. A reference slot
// encodes only the null/non-null discriminator: TagUninitialized for
// null, TagInstance as a presence marker for non-null (the referenced
// object's own bytes live at the derived child tag, not here).
func EncodeSlot(s Slot) []byte {
	switch s.Kind {
	case SlotByte:
		return []byte{TagByte, byte(s.Byte)}
	case SlotShort:
		buf := make([]byte, 3)
		buf[0] = TagShort
		binary.BigEndian.PutUint16(buf[1:], uint16(s.Short))
		return buf
	case SlotInt:
		buf := make([]byte, 5)
		buf[0] = TagInt
		binary.BigEndian.PutUint32(buf[1:], uint32(s.Int))
		return buf
	case SlotRef:
		if s.Ref.IsNull() {
			return EncodeUninitialized()
		}
		return []byte{TagInstance}
	default:
		return EncodeUninitialized()
	}
}

// DecodeSlot decodes a scalar field slot. hasChild reports whether a
// non-null reference slot's occupant should be looked up at the field's
// derived child tag.
func DecodeSlot(data []byte) (slot Slot, hasChild bool, err error) {
	if len(data) == 0 {
		return Slot{}, false, jcvmerr.New(jcvmerr.KindIO, "empty slot record")
	}
	switch data[0] {
	case TagUninitialized:
		return Slot{Kind: SlotUninitialized}, false, nil
	case TagByte:
		if len(data) < 2 {
			return Slot{}, false, jcvmerr.New(jcvmerr.KindIO, "truncated byte slot")
		}
		return Slot{Kind: SlotByte, Byte: int8(data[1])}, false, nil
	case TagShort:
		if len(data) < 3 {
			return Slot{}, false, jcvmerr.New(jcvmerr.KindIO, "truncated short slot")
		}
		return Slot{Kind: SlotShort, Short: int16(binary.BigEndian.Uint16(data[1:]))}, false, nil
	case TagInt:
		if len(data) < 5 {
			return Slot{}, false, jcvmerr.New(jcvmerr.KindIO, "truncated int slot")
		}
		return Slot{Kind: SlotInt, Int: int32(binary.BigEndian.Uint32(data[1:]))}, false, nil
	case TagInstance:
		return Slot{Kind: SlotRef}, true, nil
	default:
		return Slot{}, false, jcvmerr.New(jcvmerr.KindSecurity, "unexpected slot tag 0x%02X", data[0])
	}
}

// EncodeInstanceHeader encodes tag 0x04's header: package id and class
// index. Field values are never part of this blob (see package doc).
func EncodeInstanceHeader(inst *Instance) []byte {
	buf := make([]byte, 4)
	buf[0] = TagInstance
	buf[1] = inst.PackageID
	binary.BigEndian.PutUint16(buf[2:], inst.ClassIndex)
	return buf
}

// DecodeInstanceHeader parses tag 0x04's header.
func DecodeInstanceHeader(data []byte) (packageID uint8, classIndex uint16, err error) {
	if len(data) < 4 || data[0] != TagInstance {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "not an instance record")
	}
	return data[1], binary.BigEndian.Uint16(data[2:]), nil
}

// EncodeArrayHeader encodes an array's tag 0x80-0x84 (or 0xC0-0xC4 for a
// transient array) header. For a primitive, non-transient array the
// packed elements are appended inline (they share this one record); for a
// reference array, only the header is written (elements are child-tagged,
// §4.3); a transient array is never actually persisted, so its element
// body is always omitted (spec §6.1's 0xC0-0xC4 row).
func EncodeArrayHeader(a *Array) []byte {
	tag := primArrayTag(a.Kind)
	if a.Transient {
		tag = TagTransientBase + (tag - 0x80)
	}
	header := make([]byte, 0, 7)
	header = append(header, tag)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], a.Length)
	header = append(header, lenBuf[:]...)

	if a.Transient {
		return append(header, byte(a.ClearEvent))
	}
	if a.Kind == KindReference {
		var elemBuf [2]byte
		binary.BigEndian.PutUint16(elemBuf[:], a.ElementClass)
		return append(header, elemBuf[:]...)
	}
	return append(header, a.Bytes...)
}

// DecodeArrayHeader parses an array record. For a persistent primitive
// array the returned Array's Bytes buffer is populated from the inline
// payload; for a persistent reference array Bytes/Refs are left nil
// (elements are read on demand from their child tags).
func DecodeArrayHeader(data []byte) (*Array, error) {
	if len(data) < 3 {
		return nil, jcvmerr.New(jcvmerr.KindIO, "truncated array record")
	}
	tag := data[0]
	transient := false
	if tag >= TagTransientBase && tag < TagTransientBase+5 {
		transient = true
		tag = 0x80 + (tag - TagTransientBase)
	}
	kind, ok := primKindFromArrayTag(tag)
	if !ok {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "unexpected array tag 0x%02X", data[0])
	}
	length := binary.BigEndian.Uint16(data[1:3])
	rest := data[3:]

	a := &Array{Kind: kind, Length: length, Transient: transient}
	if transient {
		if len(rest) < 1 {
			return nil, jcvmerr.New(jcvmerr.KindIO, "truncated transient array record")
		}
		a.ClearEvent = ClearEvent(rest[0])
		return a, nil
	}
	if kind == KindReference {
		if len(rest) < 2 {
			return nil, jcvmerr.New(jcvmerr.KindIO, "truncated reference array record")
		}
		a.ElementClass = binary.BigEndian.Uint16(rest)
		return a, nil
	}
	want := int(length) * kind.ElementWidth()
	if len(rest) != want {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "array payload length %d, want %d", len(rest), want)
	}
	a.Bytes = append([]byte(nil), rest...)
	return a, nil
}
