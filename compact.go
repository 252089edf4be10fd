// compact.go -- fixed-width bit-packed integer container
//
// Ported from original_source/include/fch_utils/compact_container.hpp
// (itself a thin wrapper over a compact_vector). Go has no template
// numeric-width inference, so width is computed once from the input and
// values are packed into a flat []uint64 word array with straddling reads.
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

import "math/bits"

// compactContainer stores a vector of non-negative integers at the minimum
// fixed bit width needed to represent the largest of them.
type compactContainer struct {
	width uint64 // bits per stored value
	n     uint64 // number of stored values
	words []uint64
}

// newCompactContainer packs values into a compactContainer. width is
// ceil(log2(1+max(values))), with a floor of 1 bit.
func newCompactContainer(values []uint64) *compactContainer {
	var max uint64
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	width := bitWidth(max + 1)
	if max == ^uint64(0) {
		// max+1 wraps to 0; ceil(log2(2^64)) is 64.
		width = 64
	}
	if width == 0 {
		width = 1
	}

	c := &compactContainer{
		width: width,
		n:     uint64(len(values)),
		words: make([]uint64, wordsFor(uint64(len(values))*width)),
	}

	for i, v := range values {
		c.set(uint64(i), v)
	}

	return c
}

// bitWidth returns ceil(log2(n)) for n >= 1.
func bitWidth(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}

func wordsFor(bitCount uint64) uint64 {
	return (bitCount + 63) / 64
}

func (c *compactContainer) set(i, v uint64) {
	bitPos := i * c.width
	wordIdx := bitPos / 64
	bitOff := bitPos % 64

	mask := uint64(1)<<c.width - 1
	if c.width == 64 {
		mask = ^uint64(0)
	}
	v &= mask

	c.words[wordIdx] |= v << bitOff

	// value straddles into the next word
	if bitOff+c.width > 64 {
		spill := bitOff + c.width - 64
		c.words[wordIdx+1] |= v >> (c.width - spill)
	}
}

// at returns the i-th stored value.
func (c *compactContainer) at(i uint64) uint64 {
	bitPos := i * c.width
	wordIdx := bitPos / 64
	bitOff := bitPos % 64

	mask := uint64(1)<<c.width - 1
	if c.width == 64 {
		mask = ^uint64(0)
	}

	v := c.words[wordIdx] >> bitOff
	if bitOff+c.width > 64 {
		spill := bitOff + c.width - 64
		v |= c.words[wordIdx+1] << (c.width - spill)
	}
	return v & mask
}

func (c *compactContainer) size() uint64 {
	return c.n
}

// numBits reports the in-memory size of the packed word array, in bits.
func (c *compactContainer) numBits() uint64 {
	return uint64(len(c.words)) * 64
}
