// utils.go -- utility functions
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
	"crypto/rand"
	"encoding/binary"
	"io"
)

func randbytes(n int) []byte {
	b := make([]byte, n)

	_, err := io.ReadFull(rand.Reader, b)
	if err != nil {
		panic("can't read crypto/rand")
	}
	return b
}

func rand32() uint32 {
	var b [4]byte

	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic("can't read crypto/rand")
	}

	return binary.BigEndian.Uint32(b[:])
}

func rand64() uint64 {
	var b [8]byte

	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic("can't read crypto/rand")
	}

	return binary.BigEndian.Uint64(b[:])
}

// u64sToByteSlice packs v into a little-endian byte slice, for on-disk
// serialization of word-oriented state (compact container backing words).
func u64sToByteSlice(v []uint64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[i*8:], x)
	}
	return b
}

// bsToUint64Slice is the inverse of u64sToByteSlice. b's length must be a
// multiple of 8.
func bsToUint64Slice(b []byte) []uint64 {
	n := len(b) / 8
	v := make([]uint64, n)
	for i := 0; i < n; i++ {
		v[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return v
}

// u32sToByteSlice packs v into a little-endian byte slice.
func u32sToByteSlice(v []uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], x)
	}
	return b
}

// bsToUint32Slice is the inverse of u32sToByteSlice. b's length must be a
// multiple of 4.
func bsToUint32Slice(b []byte) []uint32 {
	n := len(b) / 4
	v := make([]uint32, n)
	for i := 0; i < n; i++ {
		v[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return v
}
