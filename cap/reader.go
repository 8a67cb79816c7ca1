// Package cap parses a Java Card package image: eleven tagged,
// size-prefixed components (spec §4.1). All accessors return views into
// the underlying bytes; the reader never copies component data.
package cap

import (
	"encoding/binary"

	"jcvm/jcvmerr"
)

// Reader wraps a byte slice for sequential big-endian decoding, mirroring
// the teacher's ClassReader but raising jcvmerr security faults instead of
// panicking on overrun, since a malformed package image is adversary input
// here, not a programmer error.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return jcvmerr.New(jcvmerr.KindSecurity, "package image truncated at offset %d, need %d bytes", r.pos, n)
	}
	return nil
}

func (r *Reader) U1() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) U2() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) U4() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// Bytes returns a view (not a copy) of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *Reader) Position() int { return r.pos }

func (r *Reader) SeekTo(pos int) { r.pos = pos }

func (r *Reader) EOF() bool { return r.pos >= len(r.data) }

func (r *Reader) Remaining() int { return len(r.data) - r.pos }
