// Package store implements the persistent key-value adapter of spec §4.2:
// a tag->bytes map with in-place read, whole-record write, and positional
// access for primitive-array elements without serializing the whole
// record.
package store

import "jcvm/jcvmerr"

// Store is the contract every persistent backing must satisfy (spec
// §4.2). Positional accessors take i as a raw byte offset into the whole
// record: they do not skip an array header and do not scale i by element
// width, so a caller addressing array element i passes the header width
// plus i times the element width.
type Store interface {
	// Length returns the byte length of the record at tag.
	Length(tag string) (uint32, error)
	// ReadInPlace returns a view into the record at tag. The caller must
	// not retain it past the next mutating call touching an overlapping
	// tag.
	ReadInPlace(tag string) ([]byte, error)
	// Read copies the record at tag into a freshly allocated slice.
	Read(tag string) ([]byte, error)
	// Write overwrites the whole record at tag atomically.
	Write(tag string, data []byte) error

	Read1BAt(tag string, i uint32) (byte, error)
	Write1BAt(tag string, i uint32, v byte) error
	Read2BAt(tag string, i uint32) (uint16, error)
	Write2BAt(tag string, i uint32, v uint16) error
	Read4BAt(tag string, i uint32) (uint32, error)
	Write4BAt(tag string, i uint32, v uint32) error
}

// errNoRecord builds the KindIO fault returned when a tag has no record.
func errNoRecord(tag string) error {
	return jcvmerr.New(jcvmerr.KindIO, "no record at tag %q", tag)
}
