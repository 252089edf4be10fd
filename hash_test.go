// hash_test.go -- test suite for the keyed byte hasher
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

import "testing"

func TestHashKeyDeterministic(t *testing.T) {
	assert := newAsserter(t)

	k := Uint64Key(12345)
	a := hashKey(k, 42)
	b := hashKey(k, 42)
	assert(a == b, "hashKey not deterministic for same (key, seed)")
}

func TestHashKeySeedSensitivity(t *testing.T) {
	assert := newAsserter(t)

	k := StringKey("villainous")
	a := hashKey(k, 1)
	b := hashKey(k, 2)
	assert(a != b, "hashKey produced identical output for different seeds")
}

func TestHashKeyDistinctForDistinctKeys(t *testing.T) {
	assert := newAsserter(t)

	seed := uint64(7)
	seen := make(map[uint64]bool)
	for _, s := range keyw {
		h := hashKey(StringKey(s), seed)
		assert(!seen[h], "hash collision across distinct keys for %q", s)
		seen[h] = true
	}
}
