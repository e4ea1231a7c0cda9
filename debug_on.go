// debug_on.go -- optional consistency checker for slot-table placement
//
// Built with -tags cdbdebug. Re-derives the load-factor and
// bucket-byte invariants (spec section 8) from the just-placed slot
// array, and walks each entry's probe ring from its home slot to verify
// no empty slot breaks the chain before reaching it -- a real Reader
// terminates Gets at the first empty slot it meets, so a gap there
// would make the entry unreachable even though it's on disk. Panics if
// any of this is violated -- a self-check on Writer.Finalize's
// placement loop, not something a correct build ever needs at runtime.
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build cdbdebug

package cdb

import (
	"fmt"

	"github.com/opencoff/go-cdb/internal/bitset"
)

func assertPlacement[T Offset](bucket int, slots []bucketEntry[T]) {
	n := len(slots)
	occ := bitset.New(uint64(n))
	var nset int
	for i, e := range slots {
		if e.hash == 0 && e.offset == 0 {
			continue
		}
		if int(e.hash&0xff) != bucket {
			panic(fmt.Sprintf("cdb: bucket %d: slot %d hash %#x has wrong low byte", bucket, i, e.hash))
		}
		occ.Set(uint64(i))
		nset++
	}
	if 2*nset != n {
		panic(fmt.Sprintf("cdb: bucket %d: %d occupied slots in a %d-slot table (want load factor 0.5)", bucket, nset, n))
	}

	for i, e := range slots {
		if e.hash == 0 && e.offset == 0 {
			continue
		}
		home := int((e.hash >> 8) % uint32(n))
		for j := home; j != i; j = (j + 1) % n {
			if !occ.IsSet(uint64(j)) {
				panic(fmt.Sprintf("cdb: bucket %d: slot %d (home %d) unreachable: empty slot %d breaks the probe ring", bucket, i, home, j))
			}
		}
	}
}
