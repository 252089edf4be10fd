// bucketer.go -- unbalanced bucketer for the FCH scheme
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

import "math"

// unbalancedBucketer maps a key to a bucket in [0, numBuckets). It routes a
// configurable fraction of the 64-bit hash space into a configurable
// fraction of the buckets (the "dense" prefix [0, bucketsFirstPart)),
// concentrating the largest buckets there so the displacement search places
// them first, while slots are still plentiful.
type unbalancedBucketer struct {
	numBuckets uint64
	seed       uint64

	hashThreshold    uint64
	bucketsFirstPart uint64
	bucketsSecond    uint64

	firstPartM  magic
	secondPartM magic
}

// initBucketer validates and initializes an unbalancedBucketer for the
// given bucket count. percKeysFirstPart and percBucketsFirstPart must be in
// [0,1]; numBuckets must be in [1, numKeys].
func initBucketer(numBuckets, numKeys, seed uint64, percKeysFirstPart, percBucketsFirstPart float64) (unbalancedBucketer, error) {
	var b unbalancedBucketer

	if numBuckets == 0 || numBuckets > numKeys {
		return b, ErrConfig
	}
	if percKeysFirstPart < 0.0 || percKeysFirstPart > 1.0 {
		return b, ErrConfig
	}
	if percBucketsFirstPart < 0.0 || percBucketsFirstPart > 1.0 {
		return b, ErrConfig
	}

	b.numBuckets = numBuckets
	b.seed = seed

	// float64(^uint64(0)) rounds up to 2^64, which a uint64 cannot hold;
	// saturate instead of converting an out-of-range float.
	t := math.Round(float64(^uint64(0)) * percKeysFirstPart)
	if t >= float64(^uint64(0)) {
		b.hashThreshold = ^uint64(0)
	} else {
		b.hashThreshold = uint64(t)
	}
	b.bucketsFirstPart = uint64(math.Round(float64(numBuckets) * percBucketsFirstPart))
	b.bucketsSecond = numBuckets - b.bucketsFirstPart

	// Tiny bucket counts can round one part away entirely (e.g. B=1); bucket()
	// special-cases bucketsFirstPart==0 / bucketsSecond==0 so fastmod never
	// sees a zero divisor.
	if b.bucketsFirstPart > 0 {
		b.firstPartM = computeM(b.bucketsFirstPart)
	}
	if b.bucketsSecond > 0 {
		b.secondPartM = computeM(b.bucketsSecond)
	}

	return b, nil
}

// bucket returns the bucket index in [0, numBuckets) for key k.
func (b *unbalancedBucketer) bucket(k Key) uint64 {
	if b.bucketsSecond == 0 {
		return fastmod(hashKey(k, b.seed), b.firstPartM, b.bucketsFirstPart)
	}
	if b.bucketsFirstPart == 0 {
		return fastmod(hashKey(k, b.seed), b.secondPartM, b.bucketsSecond)
	}

	h := hashKey(k, b.seed)
	if h < b.hashThreshold {
		return fastmod(h, b.firstPartM, b.bucketsFirstPart)
	}
	return b.bucketsFirstPart + fastmod(h, b.secondPartM, b.bucketsSecond)
}

// numBits reports the size, in bits, of this bucketer's metadata.
func (b *unbalancedBucketer) numBits() uint64 {
	// numBuckets, seed, hashThreshold, bucketsFirstPart, bucketsSecond:
	// five uint64 scalars. The magic numbers are derived and not stored
	// on their own in the persisted form -- they are recomputed from
	// bucketsFirstPart/bucketsSecond on unmarshal.
	return 8 * 8 * 5
}
