// compact_test.go -- test suite for the bit-packed container
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

func TestCompactContainerRoundtrip(t *testing.T) {
	assert := newAsserter(t)

	values := []uint64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 1000, 1, 0, 7}
	c := newCompactContainer(values)

	assert(c.size() == uint64(len(values)), "size mismatch: got %d want %d", c.size(), len(values))

	for i, v := range values {
		got := c.at(uint64(i))
		assert(got == v, "at(%d) = %d, want %d", i, got, v)
	}
}

func TestCompactContainerWidth(t *testing.T) {
	assert := newAsserter(t)

	cases := []struct {
		max   uint64
		width uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
		{256, 9},
	}

	for _, c := range cases {
		got := bitWidth(c.max + 1)
		if got == 0 {
			got = 1
		}
		assert(got == c.width, "bitWidth(%d+1) = %d, want %d", c.max, got, c.width)
	}
}

func TestCompactContainerStraddlingWords(t *testing.T) {
	assert := newAsserter(t)

	// width=5 packs 200 values across 16 64-bit words with
	// straddling boundaries.
	values := make([]uint64, 200)
	for i := range values {
		values[i] = uint64(i%31) + 1
	}

	c := newCompactContainer(values)
	for i, v := range values {
		got := c.at(uint64(i))
		assert(got == v, "at(%d) = %d, want %d (width=%d)", i, got, v, c.width)
	}
}

func TestCompactContainerFullWidth(t *testing.T) {
	assert := newAsserter(t)

	values := []uint64{^uint64(0), 0, 12345}
	c := newCompactContainer(values)
	assert(c.width == 64, "expected width 64 for a max value, got %d", c.width)

	for i, v := range values {
		got := c.at(uint64(i))
		assert(got == v, "at(%d) = %d, want %d", i, got, v)
	}
}
