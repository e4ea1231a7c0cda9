// errors.go -- sentinel errors for cdb
//
// (c) Sudhi Herle 2018 -- adapted error set for the CDB format
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"errors"
	"fmt"
)

func errShortWrite(n, want int) error {
	return fmt.Errorf("cdb: incomplete write; exp %d, saw %d", want, n)
}

var (
	// ErrInvalidInput is returned when a Reader's backing byte sequence
	// is shorter than the fixed 256-entry index, or is otherwise
	// internally inconsistent.
	ErrInvalidInput = errors.New("cdb: invalid input")

	// ErrNotFound is returned by At() when a key has no record.
	ErrNotFound = errors.New("cdb: key not found")

	// ErrProtocolMisuse is returned when Put is called on a Writer
	// after Finalize, or Finalize is called more than once.
	ErrProtocolMisuse = errors.New("cdb: protocol misuse")

	// ErrValueTooLarge is returned if a key or value length would
	// overflow the pair width of the variant in use.
	ErrValueTooLarge = errors.New("cdb: key or value too large for this offset width")
)
