// writer.go -- streamed CDB construction
//
// (c) Sudhi Herle 2018 -- adapted: DBWriter's CHD/MPH construction is
// replaced by the reference CDB's streamed records + 256 per-bucket
// open-addressed slot tables; the buffered-sink and bucket-accumulator
// shape is kept, and also grounded on the reference CDB writers in the
// pack (opencoff-go-cdb's Writer.entries, chrislusf-cdb64's Writer).
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"bufio"
	"fmt"
	"io"
)

// Sink is the seekable, writable byte stream a Writer constructs a CDB
// on top of. The Writer never closes it.
type Sink interface {
	io.Writer
	io.Seeker
}

// bucketEntry is one (hash, record-offset) pair accumulated in memory
// for a bucket while records stream in; it is placed into that
// bucket's slot table at Finalize.
type bucketEntry[T Offset] struct {
	hash   uint32
	offset T
}

// Writer streams key/value records to a Sink and, on Finalize, lays out
// the 256 per-bucket slot tables and patches in the leading index. T is
// uint32 for the classic 32-bit format, uint64 for the 64-bit format.
//
// A Writer is single-threaded and stateful: Put and Finalize must not
// be called concurrently, and Finalize is terminal -- a second call, or
// any Put after it, returns ErrProtocolMisuse.
type Writer[T Offset] struct {
	sink Sink
	bw   *bufio.Writer
	hash Hash

	entries [numBuckets][]bucketEntry[T]
	pos     int64
	nput    int
	frozen  bool
}

// NewWriter prepares sink to hold a CDB, writing a zeroed placeholder
// index that Finalize will patch in later. If hash is nil, DefaultHash
// is used; Readers of the resulting file must use the same hash.
func NewWriter[T Offset](sink Sink, hash Hash) (*Writer[T], error) {
	if hash == nil {
		hash = DefaultHash
	}

	if _, err := sink.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	w := &Writer[T]{
		sink: sink,
		bw:   bufio.NewWriterSize(sink, 65536),
		hash: hash,
		pos:  indexSize[T](),
	}

	zero := make([]byte, w.pos)
	if _, err := w.writeAll(zero); err != nil {
		return nil, err
	}

	return w, nil
}

// Len returns the number of records written so far: one per Put call,
// and one per value passed to Puts.
func (w *Writer[T]) Len() int {
	return w.nput
}

// Put appends a key/value record and records it in the bucket selected
// by the low byte of hash(key). Duplicate keys are permitted: each
// insertion is a distinct record, reachable in insertion order via a
// Reader's Gets.
func (w *Writer[T]) Put(key, value []byte) error {
	if w.frozen {
		return ErrProtocolMisuse
	}

	width := pairSize[T]()
	maxLen := maxOffset[T]()
	if uint64(len(key)) > maxLen || uint64(len(value)) > maxLen {
		return ErrValueTooLarge
	}

	pos := w.pos

	var hdr [16]byte // room for the widest (W=8) pair
	putPair(hdr[:2*width], T(len(key)), T(len(value)))
	if _, err := w.writeAll(hdr[:2*width]); err != nil {
		return err
	}
	if _, err := w.writeAll(key); err != nil {
		return err
	}
	if _, err := w.writeAll(value); err != nil {
		return err
	}

	h := w.hash(key)
	b := h & 0xff
	w.entries[b] = append(w.entries[b], bucketEntry[T]{hash: h, offset: T(pos)})
	w.nput++

	return nil
}

// Puts writes one record per value in values, all under key, in order.
// It is equivalent to calling Put(key, v) for each v.
func (w *Writer[T]) Puts(key []byte, values [][]byte) error {
	for _, v := range values {
		if err := w.Put(key, v); err != nil {
			return err
		}
	}
	return nil
}

// Finalize builds each bucket's slot table, writes them contiguously
// after the record region, then patches the 256-entry index at the
// head of the sink. Finalize must be called exactly once; the Sink is
// left open and positioned wherever the last write left it.
func (w *Writer[T]) Finalize() error {
	if w.frozen {
		return ErrProtocolMisuse
	}

	var index [numBuckets]indexEntry[T]
	width := pairSize[T]()

	for i := 0; i < numBuckets; i++ {
		bucket := w.entries[i]
		n := len(bucket)
		nslots := n * 2

		// Every bucket's index entry records the current file position,
		// even when empty: table_start (the boundary between the record
		// region and the first slot table) is the min over all 256
		// offsets with no filtering, matching the reference writer.
		index[i] = indexEntry[T]{offset: T(w.pos), nslots: T(nslots)}
		if nslots == 0 {
			continue
		}

		slots := make([]bucketEntry[T], nslots)
		for _, e := range bucket {
			home := int((e.hash >> 8) % uint32(nslots))
			for {
				if slots[home].hash == 0 && slots[home].offset == 0 {
					slots[home] = e
					break
				}
				home = (home + 1) % nslots
			}
		}

		assertPlacement(i, slots)

		buf := make([]byte, nslots*2*width)
		for j, e := range slots {
			putPair(buf[j*2*width:], T(e.hash), e.offset)
		}
		if _, err := w.writeAll(buf); err != nil {
			return err
		}
	}

	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("cdb: flushing sink: %w", err)
	}

	if _, err := w.sink.Seek(0, io.SeekStart); err != nil {
		return err
	}

	hdr := make([]byte, indexSize[T]())
	for i, e := range index {
		putPair(hdr[i*2*width:], e.offset, e.nslots)
	}
	if _, err := w.sink.Write(hdr); err != nil {
		return err
	}

	w.frozen = true
	return nil
}

func (w *Writer[T]) writeAll(buf []byte) (int, error) {
	n, err := w.bw.Write(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, errShortWrite(n, len(buf))
	}
	w.pos += int64(n)
	return n, nil
}

// maxOffset returns the largest key/value length (in bytes) that fits
// in T without overflowing the klen/dlen fields of a record header.
func maxOffset[T Offset]() uint64 {
	switch pairSize[T]() {
	case 4:
		return 1<<32 - 1
	default:
		return 1<<63 - 1
	}
}
