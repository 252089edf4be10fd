// search_test.go -- test suite for the displacement search
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

func TestSearchRunProducesValidShiftsForEveryBucket(t *testing.T) {
	assert := newAsserter(t)

	keys := genUint64Keys(500, 3)
	b, err := initBucketer(60, uint64(len(keys)), rand64(), DefaultPercKeysFirstPart, DefaultPercBucketsFirstPart)
	assert(err == nil, "init bucketer: %s", err)

	bx := newBuckets(keys, &b)
	order := bx.orderBySize()

	var seed uint64
	var shifts []uint64
	for attempt := 0; attempt < 2000; attempt++ {
		seed = rand64()
		if !seedHasNoInBucketCollisions(bx, seed) {
			continue
		}
		s := newSearcher(bx, order, seed)
		var ok bool
		shifts, err = s.run(seed)
		if err == nil {
			ok = true
		}
		if ok {
			break
		}
	}
	assert(err == nil, "search exhausted: %s", err)
	assert(uint64(len(shifts)) == bx.numBuckets(), "shifts length mismatch")

	// Reconstructing Lookup-style positions from the returned shifts must be
	// a bijection onto [0, numKeys).
	numKeysM := computeM(bx.numKeys())
	seen := make([]bool, bx.numKeys())
	for bucket := uint64(0); bucket < bx.numBuckets(); bucket++ {
		if bx.size(bucket) == 0 {
			continue
		}
		packed := shifts[bucket]
		attempt := packed & 1
		shift := packed >> 1
		attemptSeed := seed + attempt

		for i := bx.begin(bucket); i < bx.end(bucket); i++ {
			k := bx.keyAt(i)
			pos := fastmod(hashKey(k, attemptSeed)+shift, numKeysM, bx.numKeys())
			assert(!seen[pos], "position %d claimed by more than one key", pos)
			seen[pos] = true
		}
	}
	for i, s := range seen {
		assert(s, "position %d never claimed", i)
	}
}

func TestHasDuplicatesSmallAndLarge(t *testing.T) {
	assert := newAsserter(t)

	assert(!hasDuplicates([]uint64{1, 2, 3}), "no duplicates expected in small slice")
	assert(hasDuplicates([]uint64{1, 2, 2}), "duplicate not detected in small slice")

	big := make([]uint64, 100)
	for i := range big {
		big[i] = uint64(i)
	}
	assert(!hasDuplicates(big), "no duplicates expected in large distinct slice")

	big[50] = big[10]
	assert(hasDuplicates(big), "duplicate not detected in large slice")
}
