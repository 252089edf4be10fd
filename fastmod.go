// fastmod.go -- division-free modulo via a precomputed 128-bit magic number
//
// Implements Lemire's fastmod algorithm for 64-bit divisors:
// https://github.com/lemire/fastmod
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
	"math/big"
	"math/bits"
)

// magic holds the 128-bit constant M = floor((2^128 - 1) / d) + 1 for a divisor d,
// split into high and low 64-bit words (M = hi<<64 | lo).
type magic struct {
	hi, lo uint64
}

// maxUint128 is 2^128 - 1. Lemire's magic number is floor(maxUint128/d) + 1;
// using 2^128 in place of 2^128-1 is off by one whenever d is a power of 2,
// so the subtraction matters.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// computeM precomputes the fastmod magic number for divisor d. d must be > 0.
// This runs once per divisor at build time; the division itself is not on
// any hot path, so it is expressed with math/big rather than hand-rolled
// 128-bit division.
func computeM(d uint64) magic {
	dd := new(big.Int).SetUint64(d)
	m := new(big.Int).Div(maxUint128, dd)
	m.Add(m, big.NewInt(1))

	lo := new(big.Int).And(m, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(m, 64)

	return magic{hi: hi.Uint64(), lo: lo.Uint64()}
}

// fastmod computes x mod d using the precomputed magic number m for d.
// Equivalent to x % d for all x in [0, 2^64), but division-free.
func fastmod(x uint64, m magic, d uint64) uint64 {
	// lowbits = (M * x) mod 2^128
	hi1, lo1 := bits.Mul64(m.lo, x)
	loWordHiX := m.hi * x // (m.hi * x) mod 2^64
	lowbitsHi := hi1 + loWordHiX
	lowbitsLo := lo1

	// result = floor((lowbits * d) / 2^128), i.e. the top 64 bits of the
	// 192-bit product lowbits*d.
	bottomHalf, _ := bits.Mul64(lowbitsLo, d)
	topHi, topLo := bits.Mul64(lowbitsHi, d)

	sumLo, carry := bits.Add64(bottomHalf, topLo, 0)
	_ = sumLo
	return topHi + carry
}
