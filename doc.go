// doc.go - top level documentation
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

// Package fch implements a minimal perfect hash function (MPHF) using the
// FCH (Fox-Chen-Heath) scheme with unbalanced bucketing:
//    http://cmph.sourceforge.net/papers/fox92.pdf
//
// Given a static set of N distinct keys, Build() produces an FCH value that
// maps each key to a unique integer in [0, N) with constant-time lookup and
// sublinear space (typically 1.5-8 bits/key depending on the bits_per_key
// parameter). Construction is single-threaded and deterministic: the same
// keys, seed and Builder configuration always produce the same FCH.
//
// The primary entry point is Builder: construct one with New(), then call
// Build() with a slice of Key values (Uint64Key or StringKey, or anything
// implementing Key directly). The resulting FCH answers Lookup() queries in
// O(1) and is safe for concurrent read-only use by multiple goroutines.
//
// The companion package fchdb layers a constant on-disk key/value database
// on top of FCH.
package fch
