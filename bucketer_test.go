// bucketer_test.go -- test suite for the unbalanced bucketer
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

func TestBucketerRange(t *testing.T) {
	assert := newAsserter(t)

	keys := genUint64Keys(5000, 42)
	b, err := initBucketer(500, uint64(len(keys)), rand64(), DefaultPercKeysFirstPart, DefaultPercBucketsFirstPart)
	assert(err == nil, "init: %s", err)

	for _, k := range keys {
		idx := b.bucket(k)
		assert(idx < 500, "bucket index %d out of range [0,500)", idx)
	}
}

func TestBucketerSingleBucket(t *testing.T) {
	assert := newAsserter(t)

	// numBuckets=1 forces one of the two parts to be empty after
	// rounding; bucket() must still route every key without dividing
	// by zero.
	b, err := initBucketer(1, 10, rand64(), DefaultPercKeysFirstPart, DefaultPercBucketsFirstPart)
	assert(err == nil, "init: %s", err)

	keys := genUint64Keys(10, 7)
	for _, k := range keys {
		idx := b.bucket(k)
		assert(idx == 0, "bucket index %d, want 0", idx)
	}
}

func TestBucketerConfigValidation(t *testing.T) {
	assert := newAsserter(t)

	_, err := initBucketer(0, 10, 0, 0.6, 0.3)
	assert(err == ErrConfig, "numBuckets=0 should fail with ErrConfig, got %v", err)

	_, err = initBucketer(20, 10, 0, 0.6, 0.3)
	assert(err == ErrConfig, "numBuckets>numKeys should fail with ErrConfig, got %v", err)

	_, err = initBucketer(5, 10, 0, -0.1, 0.3)
	assert(err == ErrConfig, "negative percKeysFirstPart should fail with ErrConfig, got %v", err)

	_, err = initBucketer(5, 10, 0, 0.6, 1.1)
	assert(err == ErrConfig, "percBucketsFirstPart>1 should fail with ErrConfig, got %v", err)
}

func TestBucketerDeterministic(t *testing.T) {
	assert := newAsserter(t)

	seed := uint64(0xdeadbeef)
	keys := genUint64Keys(1000, 99)

	b1, err := initBucketer(100, uint64(len(keys)), seed, DefaultPercKeysFirstPart, DefaultPercBucketsFirstPart)
	assert(err == nil, "init b1: %s", err)
	b2, err := initBucketer(100, uint64(len(keys)), seed, DefaultPercKeysFirstPart, DefaultPercBucketsFirstPart)
	assert(err == nil, "init b2: %s", err)

	for _, k := range keys {
		assert(b1.bucket(k) == b2.bucket(k), "bucket assignment diverged for same seed")
	}
}
