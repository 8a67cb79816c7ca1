package store

import (
	"encoding/binary"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	"jcvm/jcvmerr"
)

// MappedFile is a durable, single-file Store backed by mmap-go. Records
// are packed contiguously as [2B tag length][tag][4B data length][data];
// the whole file is scanned once on open to rebuild the tag->byte-range
// index kept in memory. A write that keeps a record's length unchanged
// patches the mapped region directly (the §4.2 "positional access without
// serializing the whole array" fast path); one that changes a record's
// length rewrites the file and remaps it.
type MappedFile struct {
	mu    sync.Mutex
	file  *os.File
	data  mmap.MMap
	index map[string]byteRange
}

type byteRange struct {
	// offset/length of the record's payload, excluding its header.
	offset, length uint32
}

// OpenMappedFile opens (creating if absent) a durable store at path.
func OpenMappedFile(path string) (*MappedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	mf := &MappedFile{file: f, index: make(map[string]byteRange)}
	if err := mf.remap(); err != nil {
		f.Close()
		return nil, err
	}
	if err := mf.rebuildIndex(); err != nil {
		mf.Close()
		return nil, err
	}
	return mf, nil
}

// Close flushes and releases the backing mapping.
func (mf *MappedFile) Close() error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	var err error
	if mf.data != nil {
		if ferr := mf.data.Flush(); ferr != nil {
			err = ferr
		}
		if uerr := mf.data.Unmap(); uerr != nil && err == nil {
			err = uerr
		}
	}
	if cerr := mf.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	return nil
}

func (mf *MappedFile) remap() error {
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			return jcvmerr.Wrap(jcvmerr.KindIO, err)
		}
	}
	info, err := mf.file.Stat()
	if err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	if info.Size() == 0 {
		mf.data = nil
		return nil
	}
	m, err := mmap.Map(mf.file, mmap.RDWR, 0)
	if err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	mf.data = m
	return nil
}

func (mf *MappedFile) rebuildIndex() error {
	mf.index = make(map[string]byteRange)
	pos := uint32(0)
	for pos < uint32(len(mf.data)) {
		if pos+2 > uint32(len(mf.data)) {
			return jcvmerr.New(jcvmerr.KindIO, "corrupt store file: truncated tag length")
		}
		tagLen := binary.BigEndian.Uint16(mf.data[pos:])
		pos += 2
		if pos+uint32(tagLen)+4 > uint32(len(mf.data)) {
			return jcvmerr.New(jcvmerr.KindIO, "corrupt store file: truncated record header")
		}
		tag := string(mf.data[pos : pos+uint32(tagLen)])
		pos += uint32(tagLen)
		dataLen := binary.BigEndian.Uint32(mf.data[pos:])
		pos += 4
		if pos+dataLen > uint32(len(mf.data)) {
			return jcvmerr.New(jcvmerr.KindIO, "corrupt store file: truncated record body")
		}
		mf.index[tag] = byteRange{offset: pos, length: dataLen}
		pos += dataLen
	}
	return nil
}

// rewrite serializes the full record set to disk and remaps.
func (mf *MappedFile) rewrite(records map[string][]byte) error {
	var buf []byte
	newIndex := make(map[string]byteRange, len(records))
	for tag, data := range records {
		var hdr [2]byte
		binary.BigEndian.PutUint16(hdr[:], uint16(len(tag)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, tag...)
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
		buf = append(buf, lenBuf[:]...)
		newIndex[tag] = byteRange{offset: uint32(len(buf)), length: uint32(len(data))}
		buf = append(buf, data...)
	}
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			return jcvmerr.Wrap(jcvmerr.KindIO, err)
		}
		mf.data = nil
	}
	if err := mf.file.Truncate(0); err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	if _, err := mf.file.WriteAt(buf, 0); err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	if err := mf.file.Sync(); err != nil {
		return jcvmerr.Wrap(jcvmerr.KindIO, err)
	}
	if err := mf.remap(); err != nil {
		return err
	}
	mf.index = newIndex
	return nil
}

func (mf *MappedFile) snapshot() map[string][]byte {
	out := make(map[string][]byte, len(mf.index))
	for tag, r := range mf.index {
		out[tag] = append([]byte(nil), mf.data[r.offset:r.offset+r.length]...)
	}
	return out
}

func (mf *MappedFile) Length(tag string) (uint32, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok {
		return 0, errNoRecord(tag)
	}
	return r.length, nil
}

func (mf *MappedFile) ReadInPlace(tag string) ([]byte, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok {
		return nil, errNoRecord(tag)
	}
	return mf.data[r.offset : r.offset+r.length], nil
}

func (mf *MappedFile) Read(tag string) ([]byte, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok {
		return nil, errNoRecord(tag)
	}
	out := make([]byte, r.length)
	copy(out, mf.data[r.offset:r.offset+r.length])
	return out, nil
}

func (mf *MappedFile) Write(tag string, data []byte) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	if r, ok := mf.index[tag]; ok && r.length == uint32(len(data)) {
		copy(mf.data[r.offset:r.offset+r.length], data)
		return nil
	}
	records := mf.snapshot()
	records[tag] = append([]byte(nil), data...)
	return mf.rewrite(records)
}

func (mf *MappedFile) Read1BAt(tag string, i uint32) (byte, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i >= r.length {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read1b: tag %q offset %d out of range", tag, i)
	}
	return mf.data[r.offset+i], nil
}

func (mf *MappedFile) Write1BAt(tag string, i uint32, v byte) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i >= r.length {
		return jcvmerr.New(jcvmerr.KindIO, "write1b: tag %q offset %d out of range", tag, i)
	}
	mf.data[r.offset+i] = v
	return nil
}

func (mf *MappedFile) Read2BAt(tag string, i uint32) (uint16, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i+2 > r.length {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read2b: tag %q offset %d out of range", tag, i)
	}
	return binary.BigEndian.Uint16(mf.data[r.offset+i:]), nil
}

func (mf *MappedFile) Write2BAt(tag string, i uint32, v uint16) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i+2 > r.length {
		return jcvmerr.New(jcvmerr.KindIO, "write2b: tag %q offset %d out of range", tag, i)
	}
	binary.BigEndian.PutUint16(mf.data[r.offset+i:], v)
	return nil
}

func (mf *MappedFile) Read4BAt(tag string, i uint32) (uint32, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i+4 > r.length {
		return 0, jcvmerr.New(jcvmerr.KindIO, "read4b: tag %q offset %d out of range", tag, i)
	}
	return binary.BigEndian.Uint32(mf.data[r.offset+i:]), nil
}

func (mf *MappedFile) Write4BAt(tag string, i uint32, v uint32) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	r, ok := mf.index[tag]
	if !ok || i+4 > r.length {
		return jcvmerr.New(jcvmerr.KindIO, "write4b: tag %q offset %d out of range", tag, i)
	}
	binary.BigEndian.PutUint32(mf.data[r.offset+i:], v)
	return nil
}

var _ Store = (*MappedFile)(nil)
