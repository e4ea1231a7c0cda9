// reader32.go -- the classic 32-bit CDB reader
//
// (c) Sudhi Herle 2018 -- adapted: Open32 mirrors DBReader's
// NewDBReader (mmap the file, build the Reader over it, track the mmap
// for Close to unmap).
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import "os"

// Reader32 queries a classic 32-bit CDB.
type Reader32 = Reader[uint32]

// NewReader32 parses src's index and prepares it for querying. If hash
// is nil, DefaultHash is used. cacheSize, if positive, enables an
// opportunistic record cache; 0 disables it.
func NewReader32(src Source, hash Hash, cacheSize int) (*Reader32, error) {
	return NewReader[uint32](src, hash, cacheSize)
}

// Open32 memory-maps the 32-bit CDB at path and prepares it for
// querying. The returned Reader owns the mapping and the file
// descriptor; Close releases both.
func Open32(path string, hash Hash, cacheSize int) (*Reader32, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	mm, err := newMmapSource(fd)
	if err != nil {
		fd.Close()
		return nil, err
	}

	r, err := NewReader[uint32](mm, hash, cacheSize)
	if err != nil {
		mm.Unmap()
		fd.Close()
		return nil, err
	}

	r.mm = mm
	return r, nil
}
