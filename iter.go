// iter.go -- whole-database traversal in insertion order
//
// (c) Sudhi Herle 2018 -- adapted: DBReader has no bulk iteration (CHD
// doesn't preserve insertion order); this walks the CDB record region
// directly, grounded on cdblib.py's iteritems and on mrsndmn-cdb's
// Iterator.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

// ItemIter walks the record region between the index and the first
// slot table, yielding records in the order they were Put.
type ItemIter[T Offset] struct {
	r   *Reader[T]
	pos int64
}

// IterItems returns a lazy iterator over every record, in insertion
// order.
func (r *Reader[T]) IterItems() *ItemIter[T] {
	return &ItemIter[T]{r: r, pos: indexSize[T]()}
}

// Next returns the next (key, value) pair, or (nil, nil, false) once
// the record region is exhausted.
func (it *ItemIter[T]) Next() (key, value []byte, ok bool) {
	r := it.r
	if it.pos >= r.tableStart {
		return nil, nil, false
	}

	klen, dlen, err := readPair[T](r.src, it.pos)
	if err != nil {
		return nil, nil, false
	}
	it.pos += int64(pairSize[T]())

	buf := make([]byte, uint64(klen)+uint64(dlen))
	if _, err := r.src.ReadAt(buf, it.pos); err != nil {
		return nil, nil, false
	}
	it.pos += int64(klen) + int64(dlen)

	return buf[:klen], buf[klen:], true
}

// Item is one (key, value) record, used by Items.
type Item struct {
	Key   []byte
	Value []byte
}

// Items materializes every record in insertion order.
func (r *Reader[T]) Items() []Item {
	items := make([]Item, 0, r.length)
	it := r.IterItems()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		items = append(items, Item{Key: k, Value: v})
	}
	return items
}

// Keys materializes every key in insertion order; duplicate keys
// appear once per record.
func (r *Reader[T]) Keys() [][]byte {
	keys := make([][]byte, 0, r.length)
	it := r.IterItems()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

// Values materializes every value in insertion order.
func (r *Reader[T]) Values() [][]byte {
	values := make([][]byte, 0, r.length)
	it := r.IterItems()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		values = append(values, v)
	}
	return values
}
