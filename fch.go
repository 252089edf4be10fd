// fch.go -- FCH builder orchestration, lookup and sizing
//
// Ported from original_source/include/fch.hpp: the two nested retry loops
// (outer "fit" restarts, inner "search" restarts), the global-seed precheck,
// and the final lookup arithmetic.
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
	"io"
	"math"
	"math/rand"
)

// Default values for the optional Builder parameters, matching
// original_source/include/fch.hpp's Builder constructor defaults.
const (
	DefaultPercKeysFirstPart    = 0.6
	DefaultPercBucketsFirstPart = 0.3
	DefaultNumRestarts          = 5
	DefaultNumSearchRestarts    = 10
	DefaultNumSearchReseeds     = 1000

	// DefaultBitsPerKey is a reasonable general-purpose bits_per_key
	// budget: dense enough to keep the displacement search fast, sparse
	// enough to beat a plain lookup table.
	DefaultBitsPerKey = 2.0
)

// Builder holds validated construction parameters for an FCH. Builders are
// immutable once constructed; build one with New() and reuse it across
// multiple Build() calls.
type Builder struct {
	bitsPerKey           float64
	percKeysFirstPart    float64
	percBucketsFirstPart float64
	numRestarts          uint32
	numSearchRestarts    uint32
	numSearchReseeds     uint32

	name string
}

// Option configures an optional Builder parameter.
type Option func(*Builder)

// WithPercKeysFirstPart overrides the fraction of the hash space routed to
// the dense bucket region (default 0.6). Must be in [0,1].
func WithPercKeysFirstPart(p float64) Option {
	return func(b *Builder) { b.percKeysFirstPart = p }
}

// WithPercBucketsFirstPart overrides the fraction of buckets forming the
// dense region (default 0.3). Must be in [0,1].
func WithPercBucketsFirstPart(p float64) Option {
	return func(b *Builder) { b.percBucketsFirstPart = p }
}

// WithNumRestarts overrides the outer retry budget (default 5).
func WithNumRestarts(n uint32) Option {
	return func(b *Builder) { b.numRestarts = n }
}

// WithNumSearchRestarts overrides the inner retry budget (default 10).
func WithNumSearchRestarts(n uint32) Option {
	return func(b *Builder) { b.numSearchRestarts = n }
}

// WithNumSearchReseeds overrides the global-seed reseed budget (default 1000).
func WithNumSearchReseeds(n uint32) Option {
	return func(b *Builder) { b.numSearchReseeds = n }
}

// New constructs an FCH Builder. bitsPerKey controls the number of buckets
// and must be >= 1.45. Returns ErrConfig if bitsPerKey or any supplied
// option value is out of range.
func New(bitsPerKey float64, opts ...Option) (*Builder, error) {
	b := &Builder{
		bitsPerKey:           bitsPerKey,
		percKeysFirstPart:    DefaultPercKeysFirstPart,
		percBucketsFirstPart: DefaultPercBucketsFirstPart,
		numRestarts:          DefaultNumRestarts,
		numSearchRestarts:    DefaultNumSearchRestarts,
		numSearchReseeds:     DefaultNumSearchReseeds,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.bitsPerKey < 1.45 {
		return nil, fmt.Errorf("fch: bits_per_key must be >= 1.45: %w", ErrConfig)
	}
	if b.percKeysFirstPart < 0.0 || b.percKeysFirstPart > 1.0 {
		return nil, fmt.Errorf("fch: perc_keys_first_part must be in [0,1]: %w", ErrConfig)
	}
	if b.percBucketsFirstPart < 0.0 || b.percBucketsFirstPart > 1.0 {
		return nil, fmt.Errorf("fch: perc_buckets_first_part must be in [0,1]: %w", ErrConfig)
	}

	b.name = fmt.Sprintf("FCH(bits_per_key=%g, perc_keys_first_part=%g, perc_buckets_first_part=%g)",
		b.bitsPerKey, b.percKeysFirstPart, b.percBucketsFirstPart)

	return b, nil
}

// Name returns a human-readable identity for this builder's configuration,
// useful in diagnostics.
func (b *Builder) Name() string {
	return b.name
}

// BuildOption configures one call to Build().
type BuildOption func(*buildConfig)

type buildConfig struct {
	seed    uint64
	verbose io.Writer
}

// WithSeed fixes the RNG seed used for this build (default 0). Builds with
// identical (keys, seed, Builder config) are byte-identical.
func WithSeed(seed uint64) BuildOption {
	return func(c *buildConfig) { c.seed = seed }
}

// WithDiagnostics directs per-phase progress lines (mapping/ordering/
// searching/encoding, plus restart notices) to w. Defaults to io.Discard.
func WithDiagnostics(w io.Writer) BuildOption {
	return func(c *buildConfig) { c.verbose = w }
}

// FCH is an immutable minimal perfect hash function built from a key set.
// The zero value is not usable; obtain one from Builder.Build(). Once built,
// an FCH is safe for concurrent Lookup() calls from multiple goroutines.
type FCH struct {
	numKeys  uint64
	numKeysM magic
	seed     uint64

	bucketer unbalancedBucketer
	shifts   *compactContainer
}

// Build runs the FCH construction pipeline over keys: mapping (bucketing),
// ordering (descending bucket size), searching (displacement) and encoding
// (compact bit packing), retrying per the Builder's restart budgets.
// Returns ErrNoKeys for an empty key set, or ErrBuildExhausted (wrapping the
// last underlying reason) if no valid MPHF could be found.
func (b *Builder) Build(keys []Key, opts ...BuildOption) (*FCH, error) {
	cfg := buildConfig{verbose: io.Discard}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	numKeys := uint64(len(keys))
	numBuckets := uint64(math.Floor((b.bitsPerKey * float64(numKeys)) / math.Ceil(math.Log2(float64(numKeys))+1)))

	// The formula above assumes bits_per_key stays well under log2(numKeys)+1,
	// which can fail for small key sets (e.g. numKeys=1 always has
	// ceil(log2+1)=1). initBucketer requires 1 <= numBuckets <= numKeys.
	if numBuckets < 1 {
		numBuckets = 1
	}
	if numBuckets > numKeys {
		numBuckets = numKeys
	}

	gen := rand.New(rand.NewSource(int64(cfg.seed)))

	var lastErr error
	for fitRestart := uint32(0); ; fitRestart++ {
		fch, err := b.tryFit(keys, numKeys, numBuckets, gen, cfg.verbose)
		if err == nil {
			return fch, nil
		}

		lastErr = err
		if fitRestart >= b.numRestarts {
			return nil, fmt.Errorf("%w: %w", ErrBuildExhausted, lastErr)
		}
		fmt.Fprintf(cfg.verbose, "fit_restart #%d caused by: %s\n", fitRestart+1, err)
	}
}

// tryFit performs one outer ("fit") attempt: fresh bucketer + bucket index,
// ordering, the inner search-restart loop, and encoding.
func (b *Builder) tryFit(keys []Key, numKeys, numBuckets uint64, gen *rand.Rand, verbose io.Writer) (*FCH, error) {
	bucketerSeed := gen.Uint64()

	bk, err := initBucketer(numBuckets, numKeys, bucketerSeed, b.percKeysFirstPart, b.percBucketsFirstPart)
	if err != nil {
		return nil, err
	}

	bx := newBuckets(keys, &bk)
	fmt.Fprintf(verbose, "mapping: %d keys into %d buckets (biggest %d)\n", numKeys, numBuckets, bx.sizeBiggest())

	order := bx.orderBySize()
	fmt.Fprintf(verbose, "ordering: done\n")

	shifts, seed, err := b.searchWithRestarts(bx, order, gen, verbose)
	if err != nil {
		return nil, err
	}

	shiftsContainer := newCompactContainer(shifts)
	fmt.Fprintf(verbose, "encoding: %d bits for %d shifts\n", shiftsContainer.numBits(), len(shifts))

	fch := &FCH{
		numKeys:  numKeys,
		numKeysM: computeM(numKeys),
		seed:     seed,
		bucketer: bk,
		shifts:   shiftsContainer,
	}
	return fch, nil
}

// searchWithRestarts runs the inner retry loop: pick a collision-free global
// seed, then attempt the per-bucket displacement search, up to
// numSearchRestarts+1 times.
func (b *Builder) searchWithRestarts(bx *buckets, order []uint64, gen *rand.Rand, verbose io.Writer) ([]uint64, uint64, error) {
	var lastErr error

	for searchRestart := uint32(0); ; searchRestart++ {
		seed, err := b.seedWithNoInBucketCollisions(bx, gen)
		if err != nil {
			lastErr = err
		} else {
			s := newSearcher(bx, order, seed)
			shifts, err := s.run(seed)
			if err == nil {
				fmt.Fprintf(verbose, "searching: found after %d restart(s)\n", searchRestart)
				return shifts, seed, nil
			}
			lastErr = err
		}

		if searchRestart >= b.numSearchRestarts {
			return nil, 0, lastErr
		}
		fmt.Fprintf(verbose, "search_restart #%d caused by: %s\n", searchRestart+1, lastErr)
	}
}

// seedWithNoInBucketCollisions draws candidate seeds from gen until one
// produces a duplicate-free hash pattern for every bucket, or the reseed
// budget is exhausted.
func (b *Builder) seedWithNoInBucketCollisions(bx *buckets, gen *rand.Rand) (uint64, error) {
	for reseed := uint32(0); reseed <= b.numSearchReseeds; reseed++ {
		seed := gen.Uint64()
		if seedHasNoInBucketCollisions(bx, seed) {
			return seed, nil
		}
	}
	return 0, ErrInBucketCollisionExhausted
}

// Lookup returns the minimal perfect index in [0, N) for key k. The result
// is meaningful only for keys in the original build set; querying a
// non-member returns some value in [0, N) without error, since the MPHF
// does not detect membership.
func (f *FCH) Lookup(k Key) uint64 {
	b := f.bucketer.bucket(k)
	packed := f.shifts.at(b)

	attempt := packed & 1
	shift := packed >> 1

	seed := f.seed + attempt
	return fastmod(hashKey(k, seed)+shift, f.numKeysM, f.numKeys)
}

// Len returns the number of keys this FCH was built over.
func (f *FCH) Len() uint64 {
	return f.numKeys
}

// NumBits reports the in-memory size, in bits, of this FCH: scalar
// metadata, bucketer state, and the compact shift table.
func (f *FCH) NumBits() uint64 {
	const scalarBits = 8 * (8 + 8) // numKeys, seed
	return scalarBits + f.bucketer.numBits() + f.shifts.numBits()
}
