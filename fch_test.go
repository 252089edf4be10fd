// fch_test.go -- test suite for Builder, Build and Lookup
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
	"bytes"
	"errors"
	"testing"
)

func checkMinimalBijection(t *testing.T, f *FCH, keys []Key) {
	assert := newAsserter(t)

	n := f.Len()
	assert(n == uint64(len(keys)), "Len() = %d, want %d", n, len(keys))

	seen := make([]bool, n)
	for _, k := range keys {
		idx := f.Lookup(k)
		assert(idx < n, "Lookup out of range: %d >= %d", idx, n)
		assert(!seen[idx], "index %d claimed by more than one key", idx)
		seen[idx] = true
	}
	for i, s := range seen {
		assert(s, "index %d never produced by Lookup", i)
	}
}

func TestFCHSimpleStringKeys(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(3.0)
	assert(err == nil, "New: %s", err)

	keys := StringKeys(keyw)
	f, err := b.Build(keys, WithSeed(0))
	assert(err == nil, "Build: %s", err)

	checkMinimalBijection(t, f, keys)
}

func TestFCHSingleKey(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(4.0)
	assert(err == nil, "New: %s", err)

	keys := []Key{Uint64Key(42)}
	f, err := b.Build(keys, WithSeed(1))
	assert(err == nil, "Build: %s", err)

	checkMinimalBijection(t, f, keys)
}

func TestFCHNoKeys(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(2.0)
	assert(err == nil, "New: %s", err)

	_, err = b.Build(nil)
	assert(errors.Is(err, ErrNoKeys), "Build(nil) err = %v, want ErrNoKeys", err)
}

func TestFCHThousandKeysAtThreeBitsPerKey(t *testing.T) {
	b, err := New(3.0)
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	keys := genUint64Keys(1000, 0)
	f, err := b.Build(keys, WithSeed(0))
	if err != nil {
		t.Fatalf("Build: %s", err)
	}

	checkMinimalBijection(t, f, keys)
}

func TestFCHHundredThousandKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large build in -short mode")
	}

	b, err := New(2.2)
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	keys := genUint64Keys(100000, 42)
	f, err := b.Build(keys, WithSeed(42))
	if err != nil {
		t.Fatalf("Build: %s", err)
	}

	checkMinimalBijection(t, f, keys)
}

func TestFCHTenThousandStringKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large build in -short mode")
	}

	b, err := New(2.5)
	if err != nil {
		t.Fatalf("New: %s", err)
	}

	keys := genStringKeys(10000, "k")
	f, err := b.Build(keys, WithSeed(7))
	if err != nil {
		t.Fatalf("Build: %s", err)
	}

	checkMinimalBijection(t, f, keys)
}

func TestFCHBuildDeterministic(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(3.0)
	assert(err == nil, "New: %s", err)

	keys := genUint64Keys(2000, 5)

	f1, err := b.Build(keys, WithSeed(123))
	assert(err == nil, "Build f1: %s", err)
	f2, err := b.Build(keys, WithSeed(123))
	assert(err == nil, "Build f2: %s", err)

	for _, k := range keys {
		assert(f1.Lookup(k) == f2.Lookup(k), "Lookup diverged across identical builds for key")
	}
}

func TestFCHConfigValidation(t *testing.T) {
	assert := newAsserter(t)

	_, err := New(1.0)
	assert(err != nil, "New(1.0) should fail: bits_per_key below minimum")

	_, err = New(2.0, WithPercKeysFirstPart(1.5))
	assert(err != nil, "New with out-of-range perc_keys_first_part should fail")

	_, err = New(2.0, WithPercBucketsFirstPart(-0.1))
	assert(err != nil, "New with negative perc_buckets_first_part should fail")
}

func TestFCHNameFormat(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(3.0)
	assert(err == nil, "New: %s", err)

	name := b.Name()
	assert(len(name) > 0, "expected non-empty builder name")
	want := "FCH(bits_per_key=3, perc_keys_first_part=0.6, perc_buckets_first_part=0.3)"
	assert(name == want, "Name() = %q, want %q", name, want)
}

func TestFCHMarshalRoundtrip(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(3.0)
	assert(err == nil, "New: %s", err)

	keys := genUint64Keys(500, 17)
	f, err := b.Build(keys, WithSeed(17))
	assert(err == nil, "Build: %s", err)

	var buf bytes.Buffer
	_, err = f.MarshalBinary(&buf)
	assert(err == nil, "MarshalBinary: %s", err)

	f2, err := Unmarshal(buf.Bytes())
	assert(err == nil, "Unmarshal: %s", err)

	for _, k := range keys {
		assert(f.Lookup(k) == f2.Lookup(k), "Lookup diverged after marshal/unmarshal roundtrip")
	}
	assert(f.NumBits() == f2.NumBits(), "NumBits diverged after roundtrip: %d vs %d", f.NumBits(), f2.NumBits())
}

func TestFCHNumBitsPositive(t *testing.T) {
	assert := newAsserter(t)

	b, err := New(3.0)
	assert(err == nil, "New: %s", err)

	keys := genUint64Keys(1000, 3)
	f, err := b.Build(keys, WithSeed(3))
	assert(err == nil, "Build: %s", err)

	bits := f.NumBits()
	assert(bits > 0, "NumBits should be positive")

	bitsPerKey := float64(bits) / float64(f.Len())
	assert(bitsPerKey < 64, "NumBits/key implausibly large: %g", bitsPerKey)
}
