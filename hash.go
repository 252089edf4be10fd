// hash.go -- byte hasher and typed-key adaptation for FCH
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fch

import (
	"github.com/opencoff/go-fasthash"
)

// hashKey adapts a typed Key to the underlying keyed byte hasher. Integers
// are hashed over their raw in-memory bytes, strings over their payload --
// see Key.Bytes(). The byte hasher itself (go-fasthash.Hash64) is a seeded,
// 64-bit, non-cryptographic hash in the same family as MurmurHash2-64A.
func hashKey(k Key, seed uint64) uint64 {
	return fasthash.Hash64(seed, k.Bytes())
}
