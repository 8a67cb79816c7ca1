package cap

import "jcvm/jcvmerr"

// CPEntryKind is one of the six constant-pool entry kinds (spec §4.1
// "Constant pool").
type CPEntryKind uint8

const (
	CPClassRef CPEntryKind = iota + 1
	CPInstanceFieldRef
	CPVirtualMethodRef
	CPSuperMethodRef
	CPStaticFieldRef
	CPStaticMethodRef
)

// CPEntry is one 4-byte constant-pool entry. An entry is either internal
// (External == false, Offset valid, and for the five member-ref kinds
// MemberToken also valid) naming an offset into the current package's
// own component, or external (External == true) naming a {package
// token, class token, member token} triple resolved through the import
// table (spec §4.1).
type CPEntry struct {
	Kind     CPEntryKind
	External bool

	Offset uint16 // valid when !External: class offset (CPClassRef) or owning-class offset (member refs)

	PackageToken uint8 // valid when External
	ClassToken   uint8 // valid when External
	MemberToken  uint8 // valid when External, or when !External and Kind != CPClassRef
}

type ConstantPool []CPEntry

func parseConstantPool(data []byte) (ConstantPool, error) {
	if len(data)%4 != 0 {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "constant pool length %d not a multiple of 4", len(data))
	}
	count := len(data) / 4
	cp := make(ConstantPool, count)
	r := NewReader(data)
	for i := 0; i < count; i++ {
		tag, err := r.U1()
		if err != nil {
			return nil, err
		}
		if tag < uint8(CPClassRef) || tag > uint8(CPStaticMethodRef) {
			return nil, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d has unknown tag %d", i, tag)
		}
		selector, err := r.U1()
		if err != nil {
			return nil, err
		}
		b2, err := r.U1()
		if err != nil {
			return nil, err
		}
		b3, err := r.U1()
		if err != nil {
			return nil, err
		}

		e := CPEntry{Kind: CPEntryKind(tag)}
		if selector&0x80 != 0 {
			e.External = true
			e.PackageToken = selector & 0x7F
			e.ClassToken = b2
			e.MemberToken = b3
		} else {
			e.Offset = uint16(selector)<<8 | uint16(b2)
			e.MemberToken = b3
		}
		cp[i] = e
	}
	return cp, nil
}

// Entry returns the constant-pool entry at i, faulting as security on an
// out-of-range index (a malformed bytecode operand, not a programmer bug).
func (cp ConstantPool) Entry(i uint16) (CPEntry, error) {
	if int(i) >= len(cp) {
		return CPEntry{}, jcvmerr.New(jcvmerr.KindSecurity, "constant pool index %d out of range (len %d)", i, len(cp))
	}
	return cp[i], nil
}
