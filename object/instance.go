package object

import "jcvm/jcvmerr"

// SlotKind tags one instance field slot's live type (design note
// "Polymorphic field-value storage": "a tagged variant {Byte, Short,
// Int(lo, hi), Reference, UninitHeader, ...}").
type SlotKind uint8

const (
	SlotUninitialized SlotKind = iota
	SlotByte
	SlotShort
	SlotInt
	SlotRef
)

// Slot is one typed field-slot value. An int-typed field occupies one
// Slot like every other field token, rather than splitting across two
// word-wide slots (this core addresses fields by token, not by physical
// word offset, so there is nothing for a second word slot to name).
type Slot struct {
	Kind  SlotKind
	Byte  int8
	Short int16
	Int   int32
	Ref   Reference
}

// ZeroSlot returns the zero value of the given slot kind (spec §3
// "Uninitialized persistent storage ... reads return the zero value of
// the declared type").
func ZeroSlot(kind SlotKind) Slot {
	return Slot{Kind: kind}
}

// Instance is an ordered vector of typed field slots (spec §3 "Instance
// object").
type Instance struct {
	PackageID  uint8
	ClassIndex uint16 // class-component offset within PackageID

	Slots []Slot

	Persistent bool
	Tag        string // persistent-backing tag; empty when !Persistent
}

// NewInstance allocates an instance with one slot per entry of slotKinds,
// each set to ZeroSlot of its kind (index-for-index); this mirrors the
// resolver producing a stable (class, field token) -> slot index bijection
// and then zero-filling each slot per its declared type (spec §3
// "Instance object", §4.5 "Instance-field reference").
func NewInstance(packageID uint8, classIndex uint16, slotKinds []SlotKind) *Instance {
	slots := make([]Slot, len(slotKinds))
	for i, k := range slotKinds {
		slots[i] = ZeroSlot(k)
	}
	return &Instance{PackageID: packageID, ClassIndex: classIndex, Slots: slots}
}

func (o *Instance) checkSlot(index int) error {
	if index < 0 || index >= len(o.Slots) {
		return jcvmerr.New(jcvmerr.KindSecurity, "field slot %d out of range (len %d)", index, len(o.Slots))
	}
	return nil
}

// GetByte reads a byte-typed field slot, narrowing a short-typed slot and
// treating an uninitialized slot as zero (spec §3 "Uninitialized persistent
// storage ... reads return the zero value of the declared type").
func (o *Instance) GetByte(index int) (int8, error) {
	if err := o.checkSlot(index); err != nil {
		return 0, err
	}
	s := o.Slots[index]
	switch s.Kind {
	case SlotUninitialized:
		return 0, nil
	case SlotByte:
		return s.Byte, nil
	case SlotShort:
		return int8(s.Short), nil
	default:
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "field slot %d is not byte-widenable", index)
	}
}

// SetByte writes a byte-typed field slot.
func (o *Instance) SetByte(index int, v int8) error {
	if err := o.checkSlot(index); err != nil {
		return err
	}
	o.Slots[index] = Slot{Kind: SlotByte, Byte: v}
	return nil
}

// GetShort reads a short-typed field slot, widening a byte-typed slot to
// short on load (spec §3 "Instance object": "Widening from byte to short
// on load ... required by the field-access opcodes") and treating an
// uninitialized slot as zero.
func (o *Instance) GetShort(index int) (int16, error) {
	if err := o.checkSlot(index); err != nil {
		return 0, err
	}
	s := o.Slots[index]
	switch s.Kind {
	case SlotUninitialized:
		return 0, nil
	case SlotShort:
		return s.Short, nil
	case SlotByte:
		return int16(s.Byte), nil
	default:
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "field slot %d is not short-widenable", index)
	}
}

// SetShort writes a short-typed field slot. If the slot already holds a
// byte-typed value, the write truncates and keeps it byte-typed (spec §3:
// "truncation from short to byte on store"); otherwise the slot becomes
// short-typed.
func (o *Instance) SetShort(index int, v int16) error {
	if err := o.checkSlot(index); err != nil {
		return err
	}
	if o.Slots[index].Kind == SlotByte {
		o.Slots[index] = Slot{Kind: SlotByte, Byte: int8(v)}
		return nil
	}
	o.Slots[index] = Slot{Kind: SlotShort, Short: v}
	return nil
}

// GetInt reads an int-typed field slot, treating an uninitialized slot
// as zero.
func (o *Instance) GetInt(index int) (int32, error) {
	if err := o.checkSlot(index); err != nil {
		return 0, err
	}
	s := o.Slots[index]
	switch s.Kind {
	case SlotUninitialized:
		return 0, nil
	case SlotInt:
		return s.Int, nil
	default:
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "field slot %d is not int-typed", index)
	}
}

// SetInt writes an int-typed field slot.
func (o *Instance) SetInt(index int, v int32) error {
	if err := o.checkSlot(index); err != nil {
		return err
	}
	o.Slots[index] = Slot{Kind: SlotInt, Int: v}
	return nil
}

// GetRef reads a reference-typed field slot.
func (o *Instance) GetRef(index int) (Reference, error) {
	if err := o.checkSlot(index); err != nil {
		return NullReference, err
	}
	s := o.Slots[index]
	if s.Kind == SlotUninitialized {
		return NullReference, nil
	}
	if s.Kind != SlotRef {
		return NullReference, jcvmerr.New(jcvmerr.KindSecurity, "field slot %d is not reference-typed", index)
	}
	return s.Ref, nil
}

// SetRef writes a reference-typed field slot.
func (o *Instance) SetRef(index int, v Reference) error {
	if err := o.checkSlot(index); err != nil {
		return err
	}
	o.Slots[index] = Slot{Kind: SlotRef, Ref: v}
	return nil
}
