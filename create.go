// create.go -- convenience path-based construction with atomic rename
//
// (c) Sudhi Herle 2018 -- adapted from DBWriter's tmpfile-then-rename
// construction in NewDBWriter/Freeze/Abort; the core Writer above takes
// a bare Sink per the format's specification, so this wraps it with the
// same tmpfile discipline as a convenience, not a core requirement.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"fmt"
	"os"
)

// FileWriter is a Writer bound to a file on disk: it builds the CDB in
// a temporary file beside the target path and atomically renames it
// into place on Finalize, so a reader never observes a partially built
// database at the final path.
type FileWriter[T Offset] struct {
	*Writer[T]
	fd       *os.File
	tmp, dst string
	done     bool
}

// createFile opens a temporary file beside path and prepares it to hold a
// CDB. Finalize renames the temporary file to path; Abort discards it.
func createFile[T Offset](path string, hash Hash) (*FileWriter[T], error) {
	tmp := fmt.Sprintf("%s.tmp.%d", path, rand32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}

	w, err := NewWriter[T](fd, hash)
	if err != nil {
		fd.Close()
		os.Remove(tmp)
		return nil, err
	}

	return &FileWriter[T]{Writer: w, fd: fd, tmp: tmp, dst: path}, nil
}

// Finalize builds the slot tables, patches the index, syncs and closes
// the temporary file, then renames it to the target path.
func (w *FileWriter[T]) Finalize() (err error) {
	defer func() {
		if err != nil {
			w.fd.Close()
			os.Remove(w.tmp)
		}
	}()

	if err = w.Writer.Finalize(); err != nil {
		return err
	}
	if err = w.fd.Sync(); err != nil {
		return err
	}
	if err = w.fd.Close(); err != nil {
		return err
	}

	w.done = true
	return os.Rename(w.tmp, w.dst)
}

// Abort discards the in-progress database: the temporary file is
// closed and removed, and the target path is left untouched.
func (w *FileWriter[T]) Abort() {
	if w.done {
		return
	}
	w.fd.Close()
	os.Remove(w.tmp)
}

// CreateWriter32 opens a new 32-bit CDB under construction at path.
func CreateWriter32(path string, hash Hash) (*FileWriter[uint32], error) {
	return createFile[uint32](path, hash)
}

// CreateWriter64 opens a new 64-bit CDB under construction at path.
func CreateWriter64(path string, hash Hash) (*FileWriter[uint64], error) {
	return createFile[uint64](path, hash)
}
