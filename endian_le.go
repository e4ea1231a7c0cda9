// endian_le.go -- marks little-endian hosts, where the index's on-disk
// layout coincides with native integer layout and decodeIndex can cast
// a resident byte slice straight to a []T instead of decoding pair by
// pair. We build this file into all arch's that are LE; we list them
// in the build constraint below.
//
// (c) Sudhi Herle 2018 -- adapted, see endian_be.go
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build 386 || amd64 || arm || arm64 || ppc64le || mipsle || mips64le

package cdb

const isLittleEndianHost = true
