// helpers_test.go - helper routines for tests
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
	"fmt"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}

		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}

		s := fmt.Sprintf(msg, args...)
		t.Fatalf("%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

var keyw = []string{
	"expectoration",
	"mizzenmastman",
	"stockfather",
	"pictorialness",
	"villainous",
	"unquality",
	"sized",
	"Tarahumari",
	"endocrinotherapy",
	"quicksandy",
	"heretics",
	"pediment",
	"spleen's",
	"Shepard's",
	"paralyzed",
	"megahertzes",
	"Richardson's",
	"mechanics's",
	"Springfield",
	"burlesques",
}

// genUint64Keys returns n distinct pseudo-random uint64 keys, deterministic
// given seed.
func genUint64Keys(n int, seed uint64) []Key {
	seen := make(map[uint64]bool, n)
	keys := make([]Key, 0, n)

	x := seed ^ 0x9e3779b97f4a7c15
	for len(keys) < n {
		x = splitmix64(x)
		if seen[x] {
			continue
		}
		seen[x] = true
		keys = append(keys, Uint64Key(x))
	}
	return keys
}

// genStringKeys returns n distinct generated string keys.
func genStringKeys(n int, prefix string) []Key {
	keys := make([]Key, n)
	for i := 0; i < n; i++ {
		keys[i] = StringKey(fmt.Sprintf("%s-%d", prefix, i))
	}
	return keys
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
