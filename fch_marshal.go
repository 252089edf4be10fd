// fch_marshal.go -- marshal/unmarshal an FCH instance
//
// Ported from the header/body layout of chd_marshal.go and bbhash_marshal.go:
// a small fixed header followed by the packed body, all little-endian.
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
	"encoding/binary"
	"io"
)

// _fchHeaderSize is 9 x 64-bit words:
//   o version             uint64
//   o numKeys              uint64
//   o seed                 uint64
//   o bucketer.numBuckets  uint64
//   o bucketer.seed        uint64
//   o bucketer.hashThreshold    uint64
//   o bucketer.bucketsFirstPart uint64
//   o bucketer.bucketsSecond    uint64
//   o shifts.width         uint64
const _fchHeaderSize = 9 * 8
const _fchVersion = 1

// MarshalBinary encodes the FCH into a binary form suitable for durable
// storage. A subsequent call to Unmarshal() reconstructs an equivalent FCH.
func (f *FCH) MarshalBinary(w io.Writer) (int, error) {
	var hdr [_fchHeaderSize]byte
	le := binary.LittleEndian

	le.PutUint64(hdr[0:8], _fchVersion)
	le.PutUint64(hdr[8:16], f.numKeys)
	le.PutUint64(hdr[16:24], f.seed)
	le.PutUint64(hdr[24:32], f.bucketer.numBuckets)
	le.PutUint64(hdr[32:40], f.bucketer.seed)
	le.PutUint64(hdr[40:48], f.bucketer.hashThreshold)
	le.PutUint64(hdr[48:56], f.bucketer.bucketsFirstPart)
	le.PutUint64(hdr[56:64], f.bucketer.bucketsSecond)
	le.PutUint64(hdr[64:72], f.shifts.width)

	ew := newErrWriter(w)
	n, _ := ew.Write(hdr[:])

	m, _ := writeUint64Slice(ew, f.shifts.words)
	n += m

	return n, ew.Error()
}

// Unmarshal reads a previously marshaled FCH from buf.
func Unmarshal(buf []byte) (*FCH, error) {
	if len(buf) < _fchHeaderSize {
		return nil, ErrTooSmall
	}

	hdr := buf[:_fchHeaderSize]
	buf = buf[_fchHeaderSize:]

	le := binary.LittleEndian
	version := le.Uint64(hdr[0:8])
	if version != _fchVersion {
		return nil, ErrVersion
	}

	numKeys := le.Uint64(hdr[8:16])
	seed := le.Uint64(hdr[16:24])
	numBuckets := le.Uint64(hdr[24:32])
	bucketerSeed := le.Uint64(hdr[32:40])
	hashThreshold := le.Uint64(hdr[40:48])
	bucketsFirstPart := le.Uint64(hdr[48:56])
	bucketsSecond := le.Uint64(hdr[56:64])
	shiftsWidth := le.Uint64(hdr[64:72])

	if numKeys == 0 || numBuckets == 0 || numBuckets > numKeys {
		return nil, ErrTooSmall
	}

	bk := unbalancedBucketer{
		numBuckets:       numBuckets,
		seed:             bucketerSeed,
		hashThreshold:    hashThreshold,
		bucketsFirstPart: bucketsFirstPart,
		bucketsSecond:    bucketsSecond,
	}
	if bucketsFirstPart > 0 {
		bk.firstPartM = computeM(bucketsFirstPart)
	}
	if bucketsSecond > 0 {
		bk.secondPartM = computeM(bucketsSecond)
	}

	nwords := wordsFor(numBuckets * shiftsWidth)
	if uint64(len(buf)) < nwords*8 {
		return nil, ErrTooSmall
	}

	words := bsToUint64Slice(buf[:nwords*8])

	shifts := &compactContainer{
		width: shiftsWidth,
		n:     numBuckets,
		words: words,
	}

	return &FCH{
		numKeys:  numKeys,
		numKeysM: computeM(numKeys),
		seed:     seed,
		bucketer: bk,
		shifts:   shifts,
	}, nil
}

func writeUint64Slice(w io.Writer, v []uint64) (int, error) {
	bs := u64sToByteSlice(v)
	return w.Write(bs)
}
