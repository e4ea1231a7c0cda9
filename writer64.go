// writer64.go -- the 64-bit CDB writer, for databases beyond 4GiB
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// Writer64 builds a 64-bit CDB: all offsets and lengths are unsigned
// 64-bit little-endian. The hash itself remains 32 bits wide, as in
// the 32-bit format.
type Writer64 = Writer[uint64]

// NewWriter64 prepares sink to hold a 64-bit CDB. If hash is nil,
// DefaultHash is used.
func NewWriter64(sink Sink, hash Hash) (*Writer64, error) {
	return NewWriter[uint64](sink, hash)
}
