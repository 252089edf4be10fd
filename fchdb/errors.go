// errors.go -- fchdb sentinel errors
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

import "errors"

var (
	// ErrFrozen is returned when a write operation is attempted on a
	// writer that has already been frozen or aborted.
	ErrFrozen = errors.New("fchdb: writer is frozen")

	// ErrExists is returned when Add is called with a duplicate key.
	ErrExists = errors.New("fchdb: key already exists")

	// ErrNoKey is returned by Find when the key is absent. A record whose
	// checksum doesn't match is reported with ErrCorrupt instead.
	ErrNoKey = errors.New("fchdb: no such key")

	// ErrValueTooLarge is returned when a value exceeds the 32-bit
	// length field used to record it.
	ErrValueTooLarge = errors.New("fchdb: value too large")

	// ErrCorrupt is returned when the on-disk layout fails validation:
	// bad magic, truncated file, or a failed checksum.
	ErrCorrupt = errors.New("fchdb: corrupt database")
)
