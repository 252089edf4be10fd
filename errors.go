// errors.go - public errors exposed by fch
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

import "errors"

var (
	// ErrConfig is returned when a Builder argument is out of range, e.g.
	// bits_per_key < 1.45 or a percentage outside [0,1].
	ErrConfig = errors.New("fch: invalid configuration")

	// ErrInBucketCollisionExhausted is returned when no global seed could
	// be found, within the reseed budget, that avoids in-bucket hash
	// collisions for every bucket.
	ErrInBucketCollisionExhausted = errors.New("fch: seed causes in-bucket collisions")

	// ErrDisplacementExhausted is returned when a bucket could not be
	// placed in either of its two attempts.
	ErrDisplacementExhausted = errors.New("fch: unable to find a satisfying shift")

	// ErrBuildExhausted is returned when both the outer (fit) and inner
	// (search) retry budgets are exhausted without producing a valid MPHF.
	ErrBuildExhausted = errors.New("fch: build exhausted all restarts")

	// ErrNoKeys is returned by Build when given an empty key set.
	ErrNoKeys = errors.New("fch: no keys to build from")

	// ErrTooSmall is returned when unmarshaling a buffer too short to
	// contain a valid encoded FCH.
	ErrTooSmall = errors.New("fch: not enough data to unmarshal")

	// ErrVersion is returned when unmarshaling an encoding produced by an
	// incompatible (future) format version.
	ErrVersion = errors.New("fch: unsupported encoding version")
)
