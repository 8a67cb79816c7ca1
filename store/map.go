package store

import "jcvm/jcvmerr"

// Map is an in-memory Store backed by a plain map, used by every
// core-package test and by the in-process single-session CLI default.
type Map struct {
	records map[string][]byte
}

// NewMap returns an empty Map store.
func NewMap() *Map {
	return &Map{records: make(map[string][]byte)}
}

func (m *Map) Length(tag string) (uint32, error) {
	data, ok := m.records[tag]
	if !ok {
		return 0, errNoRecord(tag)
	}
	return uint32(len(data)), nil
}

func (m *Map) ReadInPlace(tag string) ([]byte, error) {
	data, ok := m.records[tag]
	if !ok {
		return nil, errNoRecord(tag)
	}
	return data, nil
}

func (m *Map) Read(tag string) ([]byte, error) {
	data, ok := m.records[tag]
	if !ok {
		return nil, errNoRecord(tag)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Map) Write(tag string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.records[tag] = buf
	return nil
}

func (m *Map) Read1BAt(tag string, i uint32) (byte, error) {
	data, ok := m.records[tag]
	if !ok || i >= uint32(len(data)) {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read1b: tag %q offset %d out of range", tag, i)
	}
	return data[i], nil
}

func (m *Map) Write1BAt(tag string, i uint32, v byte) error {
	data, ok := m.records[tag]
	if !ok || i >= uint32(len(data)) {
		return jcvmerr.New(jcvmerr.KindIO, "write1b: tag %q offset %d out of range", tag, i)
	}
	data[i] = v
	return nil
}

func (m *Map) Read2BAt(tag string, i uint32) (uint16, error) {
	data, ok := m.records[tag]
	if !ok || i+2 > uint32(len(data)) {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read2b: tag %q offset %d out of range", tag, i)
	}
	return uint16(data[i])<<8 | uint16(data[i+1]), nil
}

func (m *Map) Write2BAt(tag string, i uint32, v uint16) error {
	data, ok := m.records[tag]
	if !ok || i+2 > uint32(len(data)) {
		return jcvmerr.New(jcvmerr.KindIO, "write2b: tag %q offset %d out of range", tag, i)
	}
	data[i] = byte(v >> 8)
	data[i+1] = byte(v)
	return nil
}

func (m *Map) Read4BAt(tag string, i uint32) (uint32, error) {
	data, ok := m.records[tag]
	if !ok || i+4 > uint32(len(data)) {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read4b: tag %q offset %d out of range", tag, i)
	}
	return uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3]), nil
}

func (m *Map) Write4BAt(tag string, i uint32, v uint32) error {
	data, ok := m.records[tag]
	if !ok || i+4 > uint32(len(data)) {
		return jcvmerr.New(jcvmerr.KindIO, "write4b: tag %q offset %d out of range", tag, i)
	}
	data[i] = byte(v >> 24)
	data[i+1] = byte(v >> 16)
	data[i+2] = byte(v >> 8)
	data[i+3] = byte(v)
	return nil
}

var _ Store = (*Map)(nil)
