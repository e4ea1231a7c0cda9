// format.go -- on-disk pair encoding shared by Writer and Reader
//
// (c) Sudhi Herle 2018 -- adapted for the CDB byte layout
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// numBuckets is the fixed number of hash buckets a CDB file is split
// into; the low byte of a key's hash selects one.
const numBuckets = 256

// Offset is the pair-width integer a CDB variant is built on: uint32 for
// the classic 32-bit format, uint64 for the 64-bit format. Every on-disk
// pair -- index entries, record header lengths, slot entries -- uses
// this width.
type Offset interface {
	~uint32 | ~uint64
}

// pairSize returns W, the byte width of a single integer in this
// variant's pairs (4 or 8).
func pairSize[T Offset]() int {
	var z T
	switch any(z).(type) {
	case uint32:
		return 4
	case uint64:
		return 8
	default:
		panic("cdb: unsupported offset width")
	}
}

// indexSize is the fixed size, in bytes, of the 256-entry index at the
// head of every CDB file: 256 pairs of width 2*pairSize[T]().
func indexSize[T Offset]() int64 {
	return int64(numBuckets) * 2 * int64(pairSize[T]())
}

// putPair writes the pair (a, b) little-endian into buf, which must be
// at least 2*pairSize[T]() bytes long.
func putPair[T Offset](buf []byte, a, b T) {
	w := pairSize[T]()
	putUint(buf[:w], a)
	putUint(buf[w:2*w], b)
}

// getPair reads a pair (a, b) from the front of buf.
func getPair[T Offset](buf []byte) (T, T) {
	w := pairSize[T]()
	return getUint[T](buf[:w]), getUint[T](buf[w : 2*w])
}

// putUint writes v little-endian into buf, sized to the width of T.
func putUint[T Offset](buf []byte, v T) {
	switch len(buf) {
	case 4:
		u := uint32(v)
		buf[0] = byte(u)
		buf[1] = byte(u >> 8)
		buf[2] = byte(u >> 16)
		buf[3] = byte(u >> 24)
	case 8:
		u := uint64(v)
		buf[0] = byte(u)
		buf[1] = byte(u >> 8)
		buf[2] = byte(u >> 16)
		buf[3] = byte(u >> 24)
		buf[4] = byte(u >> 32)
		buf[5] = byte(u >> 40)
		buf[6] = byte(u >> 48)
		buf[7] = byte(u >> 56)
	default:
		panic("cdb: bad offset width")
	}
}

// getUint reads a little-endian integer of T's width from buf.
func getUint[T Offset](buf []byte) T {
	switch len(buf) {
	case 4:
		u := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		return T(u)
	case 8:
		u := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
			uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
		return T(u)
	default:
		panic("cdb: bad offset width")
	}
}
