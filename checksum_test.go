// checksum_test.go -- sidecar digest and record seal
//
// (c) Sudhi Herle 2018 -- adapted for WriteDigestSidecar/VerifyDigestSidecar/RecordSigner
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
	"testing"
)

func TestDigestSidecarRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	path := fmt.Sprintf("%s/cdb-digest-%d.db", os.TempDir(), rand32())
	assert(os.WriteFile(path, []byte("some cdb bytes, contents don't matter here"), 0o644) == nil, "write test file")
	defer os.Remove(path)
	defer os.Remove(path + ".sha512")

	assert(WriteDigestSidecar(path) == nil, "write sidecar")
	assert(VerifyDigestSidecar(path) == nil, "verify sidecar")

	assert(os.WriteFile(path, []byte("tampered contents"), 0o644) == nil, "tamper with file")
	err := VerifyDigestSidecar(path)
	assert(err != nil, "exp verify failure after tampering")
}

func TestRecordSignerSealOpen(t *testing.T) {
	assert := newAsserter(t)

	s := NewRecordSigner(randbytes(16))
	value := []byte("the actual payload")
	sealed := s.Seal(42, value)

	got, ok := s.Open(42, sealed)
	assert(ok, "exp seal to verify")
	assert(string(got) == string(value), "exp payload %q, saw %q", value, got)

	_, ok = s.Open(43, sealed)
	assert(!ok, "exp seal to fail to verify against the wrong offset")

	corrupt := append([]byte(nil), sealed...)
	corrupt[0] ^= 0xff
	_, ok = s.Open(42, corrupt)
	assert(!ok, "exp seal to fail to verify after corruption")
}
