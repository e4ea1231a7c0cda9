// db_test.go -- end-to-end Writer/Reader test suite
//
// (c) Sudhi Herle 2018 -- adapted: teacher's db_test.go drove
// NewDBWriter/Add/Freeze/NewDBReader/Find against random 64-bit hash
// keys; this drives NewWriter/Put/Finalize/NewReader/Get against the
// CDB byte format instead, with scenarios from cdblib.py's own test
// suite (empty db, duplicate keys, empty value) added in.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package cdb

import (
	"fmt"
	"testing"

	"github.com/opencoff/go-fasthash"
)

// memSink is an in-memory Sink for tests: a growable buffer addressable
// by Seek, standing in for a real file.
type memSink struct {
	buf []byte
	pos int64
}

func (m *memSink) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memSink) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		m.pos = offset
	case 1:
		m.pos += offset
	case 2:
		m.pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("memSink: bad whence %d", whence)
	}
	return m.pos, nil
}

func buildDB32(t *testing.T, kv map[string]string) *Reader32 {
	t.Helper()
	assert := newAsserter(t)

	sink := &memSink{}
	w, err := NewWriter32(sink, nil)
	assert(err == nil, "new writer: %s", err)

	for k, v := range kv {
		assert(w.Put([]byte(k), []byte(v)) == nil, "put %q", k)
	}
	assert(w.Finalize() == nil, "finalize")

	r, err := NewReader32(NewBytesSource(sink.buf), nil, 0)
	assert(err == nil, "new reader: %s", err)
	return r
}

func TestEmptyDB(t *testing.T) {
	assert := newAsserter(t)

	r := buildDB32(t, nil)
	assert(r.Len() == 0, "exp 0 records, saw %d", r.Len())
	assert(r.Get([]byte("nope"), nil) == nil, "exp nil for absent key in empty db")
	assert(!r.Contains([]byte("nope")), "exp no key in empty db")
}

func TestSingleRecord(t *testing.T) {
	assert := newAsserter(t)

	r := buildDB32(t, map[string]string{"hello": "world"})
	assert(r.Len() == 1, "exp 1 record, saw %d", r.Len())

	v := r.Get([]byte("hello"), nil)
	assert(string(v) == "world", "exp 'world', saw %q", v)

	assert(r.Get([]byte("missing"), nil) == nil, "exp nil for missing key")
}

func TestEmptyValue(t *testing.T) {
	assert := newAsserter(t)

	r := buildDB32(t, map[string]string{"k": ""})
	v, ok := r.Gets([]byte("k")).Next()
	assert(ok, "exp to find key with empty value")
	assert(len(v) == 0, "exp empty value, saw %q", v)
}

func TestDuplicateKeys(t *testing.T) {
	assert := newAsserter(t)

	sink := &memSink{}
	w, err := NewWriter32(sink, nil)
	assert(err == nil, "new writer: %s", err)

	values := []string{"one", "two", "three"}
	var bs [][]byte
	for _, v := range values {
		bs = append(bs, []byte(v))
	}
	assert(w.Puts([]byte("dup"), bs) == nil, "puts")
	assert(w.Finalize() == nil, "finalize")

	r, err := NewReader32(NewBytesSource(sink.buf), nil, 0)
	assert(err == nil, "new reader: %s", err)
	assert(r.Len() == len(values), "exp %d records, saw %d", len(values), r.Len())

	it := r.Gets([]byte("dup"))
	for _, want := range values {
		got, ok := it.Next()
		assert(ok, "exp more values for dup key")
		assert(string(got) == want, "exp %q, saw %q", want, got)
	}
	_, ok := it.Next()
	assert(!ok, "exp iterator exhausted after %d values", len(values))

	// Get returns the first insertion-order value.
	first := r.Get([]byte("dup"), nil)
	assert(string(first) == values[0], "exp first value %q, saw %q", values[0], first)
}

func TestRoundTripAndIteration(t *testing.T) {
	assert := newAsserter(t)

	kv := map[string]string{
		"alpha": "1", "beta": "2", "gamma": "3", "delta": "4",
		"epsilon": "5", "zeta": "6", "eta": "7", "theta": "8",
	}
	r := buildDB32(t, kv)
	assert(r.Len() == len(kv), "exp %d records, saw %d", len(kv), r.Len())

	for k, v := range kv {
		got := r.Get([]byte(k), nil)
		assert(string(got) == v, "key %q: exp %q, saw %q", k, v, got)
	}

	seen := make(map[string]string, len(kv))
	for _, it := range r.Items() {
		seen[string(it.Key)] = string(it.Value)
	}
	assert(len(seen) == len(kv), "exp %d items from IterItems, saw %d", len(kv), len(seen))
	for k, v := range kv {
		assert(seen[k] == v, "iterated key %q: exp %q, saw %q", k, v, seen[k])
	}
}

func TestProtocolMisuse(t *testing.T) {
	assert := newAsserter(t)

	sink := &memSink{}
	w, err := NewWriter32(sink, nil)
	assert(err == nil, "new writer: %s", err)
	assert(w.Put([]byte("a"), []byte("b")) == nil, "put")
	assert(w.Finalize() == nil, "finalize")

	err = w.Finalize()
	assert(err == ErrProtocolMisuse, "exp ErrProtocolMisuse on second Finalize, saw %v", err)

	err = w.Put([]byte("c"), []byte("d"))
	assert(err == ErrProtocolMisuse, "exp ErrProtocolMisuse on Put after Finalize, saw %v", err)
}

// TestCollisionStressLiteral reproduces spec.md section 8 scenario 4
// verbatim: 10,000 keys of the form "k"+decimal(i), each mapped to
// decimal(i), with the two literal post-condition checks the scenario
// names.
func TestCollisionStressLiteral(t *testing.T) {
	assert := newAsserter(t)

	const n = 10000
	sink := &memSink{}
	w, err := NewWriter32(sink, nil)
	assert(err == nil, "new writer: %s", err)

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("k%d", i)
		val := fmt.Sprintf("%d", i)
		assert(w.Put([]byte(key), []byte(val)) == nil, "put %q", key)
	}
	assert(w.Finalize() == nil, "finalize")

	r, err := NewReader32(NewBytesSource(sink.buf), nil, 0)
	assert(err == nil, "new reader: %s", err)

	assert(r.Len() == n, "exp len == %d, saw %d", n, r.Len())

	got := r.Get([]byte("k7777"), nil)
	assert(string(got) == "7777", `exp get("k7777") == "7777", saw %q`, got)

	got = r.Get([]byte("k10001"), nil)
	assert(got == nil, `exp get("k10001") == nil, saw %q`, got)
}

// TestCollisionStress exercises the same 10,000-record scale with a
// pseudorandom keyset (generated with go-fasthash purely as a test-data
// source, not as the CDB hash) to additionally stress bucket placement
// with keys that don't share spec.md scenario 4's sequential structure.
func TestCollisionStress(t *testing.T) {
	assert := newAsserter(t)

	const n = 10000
	seed := rand64()
	kv := make(map[string]string, n)
	for i := 0; i < n; i++ {
		h := fasthash.Hash64(seed, []byte(fmt.Sprint(i)))
		k := fmt.Sprintf("key-%x", h)
		kv[k] = fmt.Sprintf("value-%d", i)
	}
	assert(len(kv) > n/2, "fasthash-generated keyset degenerated to %d uniques", len(kv))

	r := buildDB32(t, kv)
	assert(r.Len() == len(kv), "exp %d records, saw %d", len(kv), r.Len())

	for k, v := range kv {
		got := r.Get([]byte(k), nil)
		assert(string(got) == v, "key %q: exp %q, saw %q", k, v, got)
	}
}

func Test64BitIncompatibleWith32BitReader(t *testing.T) {
	assert := newAsserter(t)

	sink := &memSink{}
	w, err := NewWriter64(sink, nil)
	assert(err == nil, "new writer64: %s", err)
	assert(w.Put([]byte("hello"), []byte("world")) == nil, "put")
	assert(w.Finalize() == nil, "finalize")

	r, err := NewReader32(NewBytesSource(sink.buf), nil, 0)
	if err == nil {
		// The 64-bit index happens to be long enough to pass the
		// 32-bit length check; misparsing it as 32-bit pairs must not
		// recover the original value.
		v := r.Get([]byte("hello"), nil)
		assert(string(v) != "world", "32-bit reader must not correctly decode a 64-bit file")
	}
}
