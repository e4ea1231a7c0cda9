// mmap.go -- memory-mapped Source, and zero-copy index decoding
//
// (c) Sudhi Herle 2018 -- adapted: DBReader's syscall.Mmap() call is
// kept verbatim; the byte<->int slice casts are narrowed from "every
// on-disk table" (CHD's offset/vlen tables, sized by key count) to the
// one genuinely fixed-size table a CDB file has: the 256-entry index at
// offset 0. Everything else (slot tables, record headers) is variable
// sized per bucket or per record and is decoded with plain getPair
// instead of a bulk cast.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// mmapSource memory-maps a file read-only and serves Source reads out
// of the mapping. Unmap must be called exactly once when done.
type mmapSource struct {
	fd  *os.File
	buf []byte
}

// newMmapSource maps fd's entire contents, which must not be empty.
func newMmapSource(fd *os.File) (*mmapSource, error) {
	st, err := fd.Stat()
	if err != nil {
		return nil, err
	}

	sz := st.Size()
	if sz == 0 {
		return nil, fmt.Errorf("cdb: %s: empty file", fd.Name())
	}

	buf, err := syscall.Mmap(int(fd.Fd()), 0, int(sz), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("cdb: %s: mmap %d bytes: %w", fd.Name(), sz, err)
	}

	return &mmapSource{fd: fd, buf: buf}, nil
}

func (m *mmapSource) Len() int64 { return int64(len(m.buf)) }

func (m *mmapSource) Bytes() []byte { return m.buf }

func (m *mmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.buf)) {
		return 0, fmt.Errorf("cdb: read past end of file at offset %d", off)
	}
	n := copy(p, m.buf[off:])
	return n, nil
}

// Unmap releases the mapping and closes the underlying file. The
// mmapSource must not be used again afterwards.
func (m *mmapSource) Unmap() error {
	if m.buf == nil {
		return nil
	}
	err := syscall.Munmap(m.buf)
	m.buf = nil
	if cerr := m.fd.Close(); err == nil {
		err = cerr
	}
	return err
}

// indexEntry is one parsed entry of the 256-entry index.
type indexEntry[T Offset] struct {
	offset T
	nslots T
}

// decodeIndex parses the 256-entry index at the head of src. When src
// exposes its bytes directly (a memory map or an in-memory buffer), the
// index is decoded with a single zero-copy cast to a native slice of
// width-T pairs on little-endian hosts, where the on-disk and in-memory
// layouts coincide; on big-endian hosts, or when src is a plain
// io.ReaderAt with no resident bytes, each entry is decoded individually
// with getPair.
func decodeIndex[T Offset](src Source) ([numBuckets]indexEntry[T], error) {
	var idx [numBuckets]indexEntry[T]

	w := pairSize[T]()
	need := indexSize[T]()
	if src.Len() < need {
		return idx, fmt.Errorf("%w: file shorter than index (%d < %d)", ErrInvalidInput, src.Len(), need)
	}

	if bv, ok := src.(byteView); ok && isLittleEndianHost {
		raw := bv.Bytes()[:need]
		pairs := castPairs[T](raw)
		for i := 0; i < numBuckets; i++ {
			idx[i] = indexEntry[T]{offset: pairs[2*i], nslots: pairs[2*i+1]}
		}
		return idx, nil
	}

	buf := make([]byte, need)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return idx, fmt.Errorf("%w: reading index: %v", ErrInvalidInput, err)
	}
	for i := 0; i < numBuckets; i++ {
		a, b := getPair[T](buf[i*2*w:])
		idx[i] = indexEntry[T]{offset: a, nslots: b}
	}
	return idx, nil
}

// castPairs reinterprets a byte slice holding n little-endian width-T
// integers as a []T, without copying. buf must be exactly n*sizeof(T)
// bytes and must outlive the returned slice.
func castPairs[T Offset](buf []byte) []T {
	var z T
	sz := int(unsafe.Sizeof(z))
	n := len(buf) / sz
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}
