// endian_be.go -- marks big-endian hosts, where the index's on-disk
// little-endian layout does not coincide with native integer layout.
// We build this file into all arch's that are BE. We list them in the
// build constraint below.
//
// (c) Sudhi Herle 2018 -- adapted from the byte-swap helpers in
// endian_be.go/endian_le.go: this package always decodes explicitly
// with getPair, so only the boolean fork (use the zero-copy index cast
// or not) survives; the byte-swap arithmetic itself is unneeded now
// that every other table is read pair-by-pair.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build ppc64 || mips || mips64

package cdb

const isLittleEndianHost = false
