// debug_off.go -- default build: placement assertions compiled out
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build !cdbdebug

package cdb

func assertPlacement[T Offset](bucket int, slots []bucketEntry[T]) {}
