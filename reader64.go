// reader64.go -- the 64-bit CDB reader, for databases beyond 4GiB
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import "os"

// Reader64 queries a 64-bit CDB.
type Reader64 = Reader[uint64]

// NewReader64 parses src's index and prepares it for querying. If hash
// is nil, DefaultHash is used. cacheSize, if positive, enables an
// opportunistic record cache; 0 disables it.
func NewReader64(src Source, hash Hash, cacheSize int) (*Reader64, error) {
	return NewReader[uint64](src, hash, cacheSize)
}

// Open64 memory-maps the 64-bit CDB at path and prepares it for
// querying. The returned Reader owns the mapping and the file
// descriptor; Close releases both.
func Open64(path string, hash Hash, cacheSize int) (*Reader64, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	mm, err := newMmapSource(fd)
	if err != nil {
		fd.Close()
		return nil, err
	}

	r, err := NewReader[uint64](mm, hash, cacheSize)
	if err != nil {
		mm.Unmap()
		return nil, err
	}

	r.mm = mm
	return r, nil
}
