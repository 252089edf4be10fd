// buckets.go -- materialized bucket index over a key set
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

// buckets groups a key set by bucket, in a flat layout: bucket b's key
// indices live at bucketKeys[offsets[b]:offsets[b+1]]. It borrows the
// caller's key slice rather than cloning it -- callers must not mutate or
// discard keys while a buckets value derived from them is in use.
type buckets struct {
	keys []Key

	bucketKeys        []uint64 // indices into keys, reordered by bucket
	offsets           []uint64 // len(offsets) == numBuckets+1
	sizeBiggestBucket uint64
}

// newBuckets groups keys by bucket according to b.
func newBuckets(keys []Key, b *unbalancedBucketer) *buckets {
	numBuckets := b.numBuckets

	bk := make([]uint64, len(keys))
	for i, k := range keys {
		bk[i] = b.bucket(k)
	}

	bx := &buckets{
		keys:       keys,
		bucketKeys: make([]uint64, len(keys)),
		offsets:    make([]uint64, numBuckets+1),
	}

	for _, bucket := range bk {
		bx.offsets[bucket+1]++
	}

	var biggest uint64
	for i := uint64(1); i <= numBuckets; i++ {
		if bx.offsets[i] > biggest {
			biggest = bx.offsets[i]
		}
		bx.offsets[i] += bx.offsets[i-1]
	}
	bx.sizeBiggestBucket = biggest

	cursors := make([]uint64, numBuckets)
	copy(cursors, bx.offsets[:numBuckets])
	for i, bucket := range bk {
		bx.bucketKeys[cursors[bucket]] = uint64(i)
		cursors[bucket]++
	}

	return bx
}

// orderBySize returns a permutation of bucket ids in descending order of
// occupancy, computed via counting sort over sizes in [0, sizeBiggestBucket].
func (bx *buckets) orderBySize() []uint64 {
	numBuckets := bx.numBuckets()
	biggest := bx.sizeBiggestBucket

	// offsets[s] counts how many buckets have size >= s once accumulated, so
	// offsets[s+1] is the first output slot for buckets of size s; the +2
	// span covers sizes [0, biggest] plus offsets[biggest+1], which stays 0.
	offsets := make([]uint64, biggest+2)
	for i := uint64(0); i < numBuckets; i++ {
		offsets[bx.size(i)]++
	}
	for i := biggest; i > 0; i-- {
		offsets[i-1] += offsets[i]
	}

	order := make([]uint64, numBuckets)
	for i := uint64(0); i < numBuckets; i++ {
		s := bx.size(i)
		order[offsets[s+1]] = i
		offsets[s+1]++
	}

	return order
}

// keyAt returns the key at flat position i of the bucket-ordered layout;
// bucket b's keys are at positions [begin(b), end(b)).
func (bx *buckets) keyAt(i uint64) Key {
	return bx.keys[bx.bucketKeys[i]]
}

// begin returns the start offset (inclusive) of bucket b's key range.
func (bx *buckets) begin(b uint64) uint64 {
	return bx.offsets[b]
}

// end returns the end offset (exclusive) of bucket b's key range.
func (bx *buckets) end(b uint64) uint64 {
	return bx.offsets[b+1]
}

// size returns the number of keys in bucket b.
func (bx *buckets) size(b uint64) uint64 {
	return bx.offsets[b+1] - bx.offsets[b]
}

func (bx *buckets) sizeBiggest() uint64 {
	return bx.sizeBiggestBucket
}

func (bx *buckets) numKeys() uint64 {
	return uint64(len(bx.keys))
}

func (bx *buckets) numBuckets() uint64 {
	return uint64(len(bx.offsets) - 1)
}
