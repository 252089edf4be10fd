// key_test.go -- test suite for the Key adapters
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

func TestKeyBytesDistinct(t *testing.T) {
	assert := newAsserter(t)

	assert(string(Uint64Key(1).Bytes()) != string(Uint64Key(2).Bytes()), "distinct uint64 keys produced equal byte views")
	assert(string(Uint32Key(1).Bytes()) != string(Uint32Key(2).Bytes()), "distinct uint32 keys produced equal byte views")
	assert(string(StringKey("a").Bytes()) != string(StringKey("b").Bytes()), "distinct string keys produced equal byte views")
}

func TestKeyConstructors(t *testing.T) {
	assert := newAsserter(t)

	ints := []uint64{1, 2, 3}
	keys := Uint64Keys(ints)
	assert(len(keys) == len(ints), "Uint64Keys length mismatch")
	for i, k := range keys {
		assert(k.(Uint64Key) == Uint64Key(ints[i]), "Uint64Keys[%d] mismatch", i)
	}

	strs := []string{"a", "b", "c"}
	skeys := StringKeys(strs)
	assert(len(skeys) == len(strs), "StringKeys length mismatch")
	for i, k := range skeys {
		assert(k.(StringKey) == StringKey(strs[i]), "StringKeys[%d] mismatch", i)
	}
}
