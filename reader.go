// reader.go -- bounded-probe CDB lookup
//
// (c) Sudhi Herle 2018 -- adapted: DBReader's CHD O(1) lookup is
// replaced by the reference CDB's bucket probe ring; the
// mmap/cache/Close shape is kept (also grounded on the reference CDB
// readers in the pack: mrsndmn-cdb's readerImpl.Get, opencoff-go-cdb's
// CDB.Get).
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"bytes"
	"fmt"

	lru "github.com/opencoff/golang-lru"
)

// Reader resolves keys against a previously finalized CDB. T is uint32
// for the classic 32-bit format, uint64 for the 64-bit format.
//
// A Reader is immutable after construction and safe for unlimited
// concurrent callers; it never mutates or closes its Source unless it
// opened that Source itself (see Open32/Open64).
type Reader[T Offset] struct {
	src        Source
	hash       Hash
	index      [numBuckets]indexEntry[T]
	tableStart int64
	length     int

	cache *lru.ARCCache

	mm *mmapSource // non-nil only when this Reader opened its own file
}

// NewReader parses src's 256-entry index and prepares it for querying.
// If hash is nil, DefaultHash is used; it must be the same hash the
// file was built with. cacheSize, if positive, enables an opportunistic
// ARC cache of up to cacheSize most-recently-used records, keyed by the
// key bytes themselves (not the 32-bit hash, which can collide). Only
// Get consults the cache; Gets always probes the file.
func NewReader[T Offset](src Source, hash Hash, cacheSize int) (*Reader[T], error) {
	if hash == nil {
		hash = DefaultHash
	}

	idx, err := decodeIndex[T](src)
	if err != nil {
		return nil, err
	}

	r := &Reader[T]{
		src:   src,
		hash:  hash,
		index: idx,
	}

	tableStart := src.Len()
	var length int64
	for _, e := range idx {
		off := int64(e.offset)
		if off != 0 && off < tableStart {
			tableStart = off
		}
		length += int64(e.nslots) / 2
	}
	// All buckets empty: the record region is empty too, and the
	// table-start boundary collapses to the end of the index.
	if tableStart == src.Len() && length == 0 {
		tableStart = indexSize[T]()
	}
	r.tableStart = tableStart
	r.length = int(length)

	if cacheSize > 0 {
		c, err := lru.NewARC(cacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = c
	}

	return r, nil
}

// Len returns the total number of records (Put calls) in the database.
func (r *Reader[T]) Len() int {
	return r.length
}

// Contains reports whether key has at least one value.
func (r *Reader[T]) Contains(key []byte) bool {
	return r.Get(key, nil) != nil
}

// At returns the first value for key, or ErrNotFound if key is absent.
func (r *Reader[T]) At(key []byte) ([]byte, error) {
	v := r.Get(key, nil)
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

// Get returns the first value for key, in insertion order, or dflt if
// key is absent. It stops probing at the first match and never
// materializes the full value sequence.
func (r *Reader[T]) Get(key, dflt []byte) []byte {
	if r.cache != nil {
		if v, ok := r.cache.Get(string(key)); ok {
			return v.([]byte)
		}
	}

	it := r.Gets(key)
	v, ok := it.Next()
	if !ok {
		return dflt
	}

	if r.cache != nil {
		r.cache.Add(string(key), v)
	}
	return v
}

// Gets returns a lazy iterator over every value stored under key, in
// insertion order.
func (r *Reader[T]) Gets(key []byte) *ValueIter[T] {
	h := r.hash(key)
	e := r.index[h&0xff]
	nslots := int(e.nslots)

	it := &ValueIter[T]{r: r, key: key, hash: h}
	if nslots == 0 {
		it.done = true
		return it
	}

	start := int64(e.offset)
	width := int64(pairSize[T]())
	home := int64(h>>8) % int64(nslots)

	it.start = start
	it.nslots = nslots
	it.width = width
	it.pos = home
	it.remaining = nslots

	return it
}

// ValueIter walks the probe ring for one key, from its home slot
// forward (wrapping to the bucket's start) until a matching record is
// found, an empty slot terminates the probe, or the whole ring has
// been inspected.
type ValueIter[T Offset] struct {
	r    *Reader[T]
	key  []byte
	hash uint32

	start     int64
	nslots    int
	width     int64
	pos       int64 // slot index within [0, nslots)
	remaining int
	done      bool
}

// Next returns the next matching value, or (nil, false) once the probe
// ring is exhausted.
func (it *ValueIter[T]) Next() ([]byte, bool) {
	if it.done {
		return nil, false
	}

	r := it.r
	for it.remaining > 0 {
		slotOff := it.start + it.pos*2*it.width
		it.pos = (it.pos + 1) % int64(it.nslots)
		it.remaining--

		recHash, recPos, err := readPair[T](r.src, slotOff)
		if err != nil {
			it.done = true
			return nil, false
		}

		if recHash == 0 && recPos == 0 {
			// Empty slot terminates the ring: no later slot in this
			// bucket can hold the key either.
			it.done = true
			return nil, false
		}

		if uint32(recHash) != it.hash {
			continue
		}

		v, ok, err := r.readRecord(int64(recPos), it.key)
		if err != nil {
			it.done = true
			return nil, false
		}
		if ok {
			return v, true
		}
	}

	it.done = true
	return nil, false
}

// readRecord reads the record header at pos and, if its key matches
// key, returns its value.
func (r *Reader[T]) readRecord(pos int64, key []byte) ([]byte, bool, error) {
	klen, dlen, err := readPair[T](r.src, pos)
	if err != nil {
		return nil, false, err
	}
	if uint64(klen) != uint64(len(key)) {
		return nil, false, nil
	}

	width := int64(pairSize[T]())
	buf := make([]byte, uint64(klen)+uint64(dlen))
	if _, err := r.src.ReadAt(buf, pos+2*width); err != nil {
		return nil, false, err
	}

	if !bytes.Equal(buf[:klen], key) {
		return nil, false, nil
	}
	return buf[klen:], true, nil
}

// readPair reads one pair of width-T integers at byte offset off in
// src.
func readPair[T Offset](src Source, off int64) (T, T, error) {
	width := pairSize[T]()
	buf := make([]byte, 2*width)
	if _, err := src.ReadAt(buf, off); err != nil {
		return 0, 0, err
	}
	a, b := getPair[T](buf)
	return a, b, nil
}

// Close releases resources the Reader opened for itself (a memory
// map) and empties the record cache, if any. A Reader built over a
// caller-supplied Source (NewReader) never closes or unmaps anything;
// Close then only empties the cache.
func (r *Reader[T]) Close() error {
	if r.cache != nil {
		r.cache.Purge()
	}
	if r.mm != nil {
		return r.mm.Unmap()
	}
	return nil
}
