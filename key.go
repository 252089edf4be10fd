// key.go -- key shapes accepted by the FCH builder
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

import "encoding/binary"

// Key is any value that can present itself as a raw byte view for hashing.
// All keys handed to a single Builder.Build() call must have the same
// underlying shape: either all fixed-width integers or all strings.
type Key interface {
	// Bytes returns the byte view used to hash this key. For fixed-width
	// integers this is the in-memory representation; for strings it is
	// the character bytes with no terminator.
	Bytes() []byte
}

// Uint64Key adapts a uint64 key to the Key interface. Its byte view is the
// little-endian in-memory representation of the integer.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Uint32Key adapts a uint32 key to the Key interface.
type Uint32Key uint32

func (k Uint32Key) Bytes() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(k))
	return b[:]
}

// StringKey adapts a variable-length string key to the Key interface. Its
// byte view is the string payload; no terminator is appended.
type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}

// Uint64Keys is a convenience adapter that turns a []uint64 slice into the
// []Key shape Build() expects.
func Uint64Keys(v []uint64) []Key {
	out := make([]Key, len(v))
	for i, x := range v {
		out[i] = Uint64Key(x)
	}
	return out
}

// StringKeys is the string-slice equivalent of Uint64Keys.
func StringKeys(v []string) []Key {
	out := make([]Key, len(v))
	for i, x := range v {
		out[i] = StringKey(x)
	}
	return out
}
