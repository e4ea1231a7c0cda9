// convenience.go -- boundary adapters over the byte-sequence core API
//
// (c) Sudhi Herle 2018 -- adapted: none of these contribute invariants
// of their own; they mirror cdblib.py's putint/getint (decimal text,
// not raw binary) and putstring/getstring.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import "strconv"

// PutString is Put with both arguments UTF-8 encoded from string.
func (w *Writer[T]) PutString(key, value string) error {
	return w.Put([]byte(key), []byte(value))
}

// PutUint64 writes value as base-10 decimal text associated with key.
func (w *Writer[T]) PutUint64(key []byte, value uint64) error {
	return w.Put(key, []byte(strconv.FormatUint(value, 10)))
}

// GetString is Get with key and the result UTF-8 decoded/encoded as
// string; dflt is returned verbatim (not re-encoded) if key is absent.
func (r *Reader[T]) GetString(key string, dflt string) string {
	v := r.Get([]byte(key), nil)
	if v == nil {
		return dflt
	}
	return string(v)
}

// GetUint64 parses the first value for key as base-10 decimal text,
// returning dflt if key is absent or the value doesn't parse.
func (r *Reader[T]) GetUint64(key []byte, dflt uint64) uint64 {
	v := r.Get(key, nil)
	if v == nil {
		return dflt
	}
	n, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return dflt
	}
	return n
}
