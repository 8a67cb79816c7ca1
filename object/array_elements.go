package object

import "encoding/binary"

// The accessors below operate on a transient array's in-memory buffer.
// Persistent arrays never read/write this buffer directly (spec invariant
// I3); callers route persistent element access through the store
// package's positional accessors instead.

// GetByte reads a boolean/byte element.
func (a *Array) GetByte(index int32) (int8, error) {
	if err := a.checkIndex(index); err != nil {
		return 0, err
	}
	return int8(a.Bytes[index]), nil
}

// SetByte writes a boolean/byte element, truncating a wider pushed value
// to its low byte as the bastore/sastore-family opcodes require (spec
// §4.8 "Array access": "Primitive-array stores silently truncate wider
// pushed values").
func (a *Array) SetByte(index int32, v int32) error {
	if err := a.checkIndex(index); err != nil {
		return err
	}
	a.Bytes[index] = byte(v)
	return nil
}

// GetShort reads a short element.
func (a *Array) GetShort(index int32) (int16, error) {
	if err := a.checkIndex(index); err != nil {
		return 0, err
	}
	off := int(index) * 2
	return int16(binary.BigEndian.Uint16(a.Bytes[off:])), nil
}

// SetShort writes a short element.
func (a *Array) SetShort(index int32, v int16) error {
	if err := a.checkIndex(index); err != nil {
		return err
	}
	off := int(index) * 2
	binary.BigEndian.PutUint16(a.Bytes[off:], uint16(v))
	return nil
}

// GetInt reads an int element (two words, high-order first per spec §3
// "Word").
func (a *Array) GetInt(index int32) (int32, error) {
	if err := a.checkIndex(index); err != nil {
		return 0, err
	}
	off := int(index) * 4
	return int32(binary.BigEndian.Uint32(a.Bytes[off:])), nil
}

// SetInt writes an int element.
func (a *Array) SetInt(index int32, v int32) error {
	if err := a.checkIndex(index); err != nil {
		return err
	}
	off := int(index) * 4
	binary.BigEndian.PutUint32(a.Bytes[off:], uint32(v))
	return nil
}

// GetRef reads a reference element.
func (a *Array) GetRef(index int32) (Reference, error) {
	if err := a.checkIndex(index); err != nil {
		return NullReference, err
	}
	return a.Refs[index], nil
}

// SetRef writes a reference element. Callers must have already checked
// assignability (spec invariant I4, §4.8 "aastore") — SetRef itself only
// enforces bounds.
func (a *Array) SetRef(index int32, v Reference) error {
	if err := a.checkIndex(index); err != nil {
		return err
	}
	a.Refs[index] = v
	return nil
}
