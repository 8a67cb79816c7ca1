// Package object implements the Java Card object model: reference values,
// array and instance objects, the persistent on-store (de)serialization of
// §6.1, and the docheckcast assignability rules of §4.3.
package object

// Reference is a 16-bit compact value: a 1-bit discriminator (0 =
// instance, 1 = array) plus a 15-bit non-zero index into the owning
// context's per-kind live-object registry. The reserved value 0 is the
// null reference regardless of discriminator bit (spec §3 "Reference").
type Reference uint16

// NullReference is the reserved null value.
const NullReference Reference = 0

const arrayDiscriminatorBit = 0x8000
const indexMask = 0x7FFF

// MakeReference packs a discriminator bit and a non-zero 15-bit index.
// Index 0 is reserved for null and must never be packed by a caller that
// wants a non-null reference.
func MakeReference(isArray bool, index uint16) Reference {
	index &= indexMask
	if isArray {
		return Reference(arrayDiscriminatorBit | index)
	}
	return Reference(index)
}

// IsNull reports whether r is the null reference (spec §3: "The reserved
// value 0 is the null reference regardless of discriminator bit").
func (r Reference) IsNull() bool { return r == NullReference }

// IsArray reports the discriminator bit. Meaningless when IsNull.
func (r Reference) IsArray() bool { return r&arrayDiscriminatorBit != 0 }

// Index returns the 15-bit registry index. Meaningless when IsNull.
func (r Reference) Index() uint16 { return uint16(r) & indexMask }
