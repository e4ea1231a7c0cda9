// writer32.go -- the classic 32-bit CDB writer
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// Writer32 builds a classic 32-bit CDB: all offsets and lengths are
// unsigned 32-bit little-endian.
type Writer32 = Writer[uint32]

// NewWriter32 prepares sink to hold a 32-bit CDB. If hash is nil,
// DefaultHash is used.
func NewWriter32(sink Sink, hash Hash) (*Writer32, error) {
	return NewWriter[uint32](sink, hash)
}
