// checksum.go -- optional integrity layer, kept outside the core format
//
// (c) Sudhi Herle 2018 -- adapted: DBWriter/DBReader's in-band
// SHA512-256 + per-record siphash checksums don't fit a file whose
// byte layout is fixed by the CDB format itself (spec section 3.1/6.1);
// here the whole-file digest becomes a detached sidecar, and the
// per-record siphash becomes an opt-in seal on the caller's value
// payload, never touching the index, record headers, or slot tables.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dchest/siphash"
)

// WriteDigestSidecar computes a SHA512-256 digest of the file at path
// and writes it, hex-encoded, to path+".sha512". It does not modify
// the CDB file itself.
func WriteDigestSidecar(path string) error {
	sum, err := fileDigest(path)
	if err != nil {
		return err
	}

	return os.WriteFile(path+".sha512", []byte(hex.EncodeToString(sum[:])+"\n"), 0o644)
}

// VerifyDigestSidecar recomputes the digest of the file at path and
// compares it, in constant time, against path+".sha512". It returns
// ErrInvalidInput if they differ.
func VerifyDigestSidecar(path string) error {
	want, err := os.ReadFile(path + ".sha512")
	if err != nil {
		return err
	}

	var wantSum [sha512.Size256]byte
	n, err := hex.Decode(wantSum[:], want[:min(len(want), hex.EncodedLen(len(wantSum)))])
	if err != nil || n != len(wantSum) {
		return fmt.Errorf("%w: malformed digest sidecar for %s", ErrInvalidInput, path)
	}

	got, err := fileDigest(path)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(got[:], wantSum[:]) != 1 {
		return fmt.Errorf("%w: checksum mismatch for %s", ErrInvalidInput, path)
	}
	return nil
}

func fileDigest(path string) ([sha512.Size256]byte, error) {
	var sum [sha512.Size256]byte

	fd, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer fd.Close()

	h := sha512.New512_256()
	if _, err := io.Copy(h, fd); err != nil {
		return sum, err
	}

	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// sealSize is the length, in bytes, of a RecordSigner tag appended to
// a value by Seal.
const sealSize = 8

// RecordSigner seals an 8-byte siphash-2-4 tag onto a value so a
// Reader can detect a corrupted or substituted record without
// involving the CDB format itself. The tag covers the value bytes and
// the caller-supplied record offset, mirroring teacher's
// writeRecord/decodeRecord.
type RecordSigner struct {
	salt []byte
}

// NewRecordSigner derives a signer from a 16-byte salt. Writer and
// Reader must share the same salt.
func NewRecordSigner(salt []byte) *RecordSigner {
	return &RecordSigner{salt: salt}
}

// Seal returns value with an 8-byte siphash tag of (offset, value)
// appended. Put the result; Open reverses it after Get.
func (s *RecordSigner) Seal(offset uint64, value []byte) []byte {
	tag := s.tag(offset, value)
	out := make([]byte, len(value)+sealSize)
	copy(out, value)
	binary.BigEndian.PutUint64(out[len(value):], tag)
	return out
}

// Open splits a Seal'd value back into its payload and verifies its
// tag against offset. ok is false if sealed is too short or the tag
// doesn't match.
func (s *RecordSigner) Open(offset uint64, sealed []byte) (value []byte, ok bool) {
	if len(sealed) < sealSize {
		return nil, false
	}
	value = sealed[:len(sealed)-sealSize]
	want := binary.BigEndian.Uint64(sealed[len(sealed)-sealSize:])
	return value, want == s.tag(offset, value)
}

func (s *RecordSigner) tag(offset uint64, value []byte) uint64 {
	var o [8]byte
	binary.BigEndian.PutUint64(o[:], offset)

	h := siphash.New(s.salt)
	h.Write(o[:])
	h.Write(value)
	return h.Sum64()
}
