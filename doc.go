// Package cdb implements D. J. Bernstein's Constant Database (CDB) format:
// an immutable, on-disk associative store mapping byte-string keys to
// byte-string values, built for at most two disk probes per lookup and
// for compact, write-once construction.
//
// A Writer streams key/value records to a seekable sink and, on Finalize,
// lays out 256 per-bucket open-addressed hash tables with a fixed 0.5
// load factor and patches in a 256-entry index at the head of the file.
// A Reader parses that index and resolves a key to zero or more values
// by probing the slot ring for the key's bucket.
//
// Two on-disk widths are supported: the classic 32-bit format (Writer32 /
// Reader32) and a 64-bit format (Writer64 / Reader64) for databases
// larger than 4GiB. The two differ only in the width of the integers
// used to encode offsets, lengths and table sizes; the hash itself is
// always 32 bits wide, even in the 64-bit format.
//
// The Reader is immutable after construction and safe for unlimited
// concurrent callers. The Writer is single-threaded and stateful: Put
// and Finalize must not be called concurrently, and Finalize is terminal.
package cdb
