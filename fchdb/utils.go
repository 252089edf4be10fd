// utils.go -- byte/word conversion helpers for the on-disk layout
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

package fchdb

import "encoding/binary"

func u64sToByteSlice(v []uint64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[i*8:], x)
	}
	return b
}

func bsToUint64Slice(b []byte) []uint64 {
	n := len(b) / 8
	v := make([]uint64, n)
	for i := 0; i < n; i++ {
		v[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return v
}

func u32sToByteSlice(v []uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], x)
	}
	return b
}

func bsToUint32Slice(b []byte) []uint32 {
	n := len(b) / 4
	v := make([]uint32, n)
	for i := 0; i < n; i++ {
		v[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return v
}
