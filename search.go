// search.go -- per-bucket displacement search, the core of FCH construction
//
// Ported from the random/map-table displacement search in
// original_source/include/fch.hpp, generalized to the package's Key
// abstraction and Go's idioms (explicit errors instead of exceptions,
// a searcher struct instead of free functions closing over locals).
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

import "math/rand"

// maxBucketAttempts is tied to the 1-bit attempt field packed into each
// shift: changing one requires changing the other.
const maxBucketAttempts = 2

// searcher holds the scratch state for one displacement-search attempt:
// a random permutation of [0, numKeys) and its inverse, used to find and
// claim free slots in O(1).
type searcher struct {
	numKeys  uint64
	numKeysM magic
	bkts     *buckets
	order    []uint64

	randomTable []uint64
	mapTable    []uint64
	filled      uint64

	pattern []uint64
}

func newSearcher(bkts *buckets, order []uint64, seed uint64) *searcher {
	numKeys := bkts.numKeys()

	s := &searcher{
		numKeys:     numKeys,
		numKeysM:    computeM(numKeys),
		bkts:        bkts,
		order:       order,
		randomTable: make([]uint64, numKeys),
		mapTable:    make([]uint64, numKeys),
		pattern:     make([]uint64, 0, bkts.sizeBiggest()),
	}

	for i := uint64(0); i < numKeys; i++ {
		s.randomTable[i] = i
	}
	rand.New(rand.NewSource(int64(seed))).Shuffle(int(numKeys), func(i, j int) {
		s.randomTable[i], s.randomTable[j] = s.randomTable[j], s.randomTable[i]
	})
	for i, v := range s.randomTable {
		s.mapTable[v] = uint64(i)
	}

	return s
}

// run executes the full per-bucket search in descending-size order and
// returns the packed shift for every bucket (0 for empty buckets).
// Returns ErrDisplacementExhausted if some bucket cannot be placed in
// either of its two attempts.
func (s *searcher) run(seed uint64) ([]uint64, error) {
	shifts := make([]uint64, s.bkts.numBuckets())

	for _, bucket := range s.order {
		if s.bkts.size(bucket) == 0 {
			continue
		}

		shift, attempt, ok := s.placeBucket(bucket, seed)
		if !ok {
			return nil, ErrDisplacementExhausted
		}
		shifts[bucket] = (shift << 1) | attempt
	}

	return shifts, nil
}

// placeBucket tries both attempt seeds for one bucket and returns the
// accepted (shift, attempt) pair.
func (s *searcher) placeBucket(bucket, seed uint64) (shift, attempt uint64, ok bool) {
	for attempt = 0; attempt < maxBucketAttempts; attempt++ {
		attemptSeed := seed + attempt

		s.pattern = s.pattern[:0]
		for i := s.bkts.begin(bucket); i < s.bkts.end(bucket); i++ {
			k := s.bkts.keyAt(i)
			s.pattern = append(s.pattern, fastmod(hashKey(k, attemptSeed), s.numKeysM, s.numKeys))
		}

		// attempt 0's pattern was already verified collision-free by the
		// global-seed precheck; later attempts must be checked here.
		if attempt > 0 && hasDuplicates(s.pattern) {
			continue
		}

		if sh, found := s.tryPositions(); found {
			s.commit(sh)
			return sh, attempt, true
		}
	}

	return 0, 0, false
}

// tryPositions scans the still-free slots (in random-table order, starting
// at the current fill pointer) for a displacement that places every pattern
// element into a free slot.
func (s *searcher) tryPositions() (uint64, bool) {
	for pos := s.filled; pos < s.numKeys; pos++ {
		shift := fastmod(s.numKeys-s.pattern[0]+s.randomTable[pos], s.numKeysM, s.numKeys)

		found := true
		for _, p := range s.pattern {
			q := fastmod(p+shift, s.numKeysM, s.numKeys)
			if s.mapTable[q] < s.filled {
				found = false
				break
			}
		}
		if found {
			return shift, true
		}
	}
	return 0, false
}

// commit claims the slots for the accepted shift, swapping them to the
// front of the random table (positions < filled) and fixing up mapTable.
func (s *searcher) commit(shift uint64) {
	for _, p := range s.pattern {
		q := fastmod(p+shift, s.numKeysM, s.numKeys)

		y := s.mapTable[q]
		ry := s.randomTable[y]
		s.randomTable[y] = s.randomTable[s.filled]
		s.randomTable[s.filled] = ry
		s.mapTable[s.randomTable[y]] = y
		s.mapTable[s.randomTable[s.filled]] = s.filled
		s.filled++
	}
}

// hasDuplicates reports whether v contains any repeated value. v is bounded
// by the biggest bucket's size: slices shorter than 16 use an
// allocation-free O(n^2) scan, longer ones a map-based set.
func hasDuplicates(v []uint64) bool {
	if len(v) < 16 {
		for i := 0; i < len(v); i++ {
			for j := i + 1; j < len(v); j++ {
				if v[i] == v[j] {
					return true
				}
			}
		}
		return false
	}

	seen := make(map[uint64]struct{}, len(v))
	for _, x := range v {
		if _, ok := seen[x]; ok {
			return true
		}
		seen[x] = struct{}{}
	}
	return false
}

// seedHasNoInBucketCollisions reports whether, under attempt-0's seed, every
// bucket's hash pattern is duplicate-free -- the precondition that lets the
// main search skip the duplicate check for attempt 0.
func seedHasNoInBucketCollisions(bkts *buckets, seed uint64) bool {
	numKeys := bkts.numKeys()
	numKeysM := computeM(numKeys)
	pattern := make([]uint64, 0, bkts.sizeBiggest())

	for b := uint64(0); b < bkts.numBuckets(); b++ {
		pattern = pattern[:0]
		for i := bkts.begin(b); i < bkts.end(b); i++ {
			k := bkts.keyAt(i)
			pattern = append(pattern, fastmod(hashKey(k, seed), numKeysM, numKeys))
		}
		if hasDuplicates(pattern) {
			return false
		}
	}
	return true
}
