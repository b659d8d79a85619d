// Package dataset provides the randomized sample-provider harness that
// feeds point samples to the assembly pipeline: deterministic yet
// varying per-read RNG seeds, an opt-in skip-on-error policy, and
// recursive batch collation.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/adler32"
	"math/rand"
	"sync"
)

// ErrTransient marks provider failures that should always be retried
// with a random alternate index (e.g. a dropped connection).
var ErrTransient = errors.New("transient sample error")

// Sample is one item produced by a Provider: a named mapping of numeric,
// string, Matrix/Vector or nested values.
type Sample map[string]interface{}

// Provider is the underlying item source. GetItem receives the
// deterministic rng for this read and must use it for all randomness so
// repeated reads stay reproducible.
type Provider interface {
	Len() int
	GetItem(index int, rng *rand.Rand) (Sample, error)
}

// RandomSafe wraps a Provider with deterministic random seeding.
// Each (index, read count, seed) triple hashes to a distinct rng, so a
// sample varies across epochs but a given read is reproducible. With
// IsVal set, every read uses the fixed seed so validation sets stay
// constant.
type RandomSafe struct {
	Provider Provider
	Seed     int64
	// IsVal pins the rng to Seed for consistent validation reads.
	IsVal bool
	// SkipOnError substitutes a random alternate index on any provider
	// failure instead of propagating it. This can mask genuine defects
	// and must remain an explicit opt-in.
	SkipOnError bool

	mu        sync.Mutex
	readCount map[int]int
}

func NewRandomSafe(p Provider, seed int64) *RandomSafe {
	return &RandomSafe{
		Provider:  p,
		Seed:      seed,
		readCount: make(map[int]int),
	}
}

// deterministicHash hashes arbitrary JSON-encodable data to a 32-bit
// value, stable across processes.
func deterministicHash(data interface{}) (uint32, error) {
	jval, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("hash seed data: %w", err)
	}
	return adler32.Checksum(jval), nil
}

// RNG returns the deterministic random source for the next read of
// index, bumping the process-shared read count.
func (d *RandomSafe) RNG(index int) *rand.Rand {
	if d.IsVal {
		return rand.New(rand.NewSource(d.Seed))
	}
	d.mu.Lock()
	count := d.readCount[index]
	d.readCount[index]++
	d.mu.Unlock()
	h, err := deterministicHash([]int64{int64(index), int64(count), d.Seed})
	if err != nil {
		panic(err)
	}
	return rand.New(rand.NewSource(int64(h)))
}

// Get reads one sample. Transient failures are always retried with a
// random alternate index; other failures are retried only when
// SkipOnError is set, and propagate otherwise.
func (d *RandomSafe) Get(index int) (s Sample, err error) {
	rng := d.RNG(index)
	if s, err = d.Provider.GetItem(index, rng); err == nil {
		return
	}
	if errors.Is(err, ErrTransient) || d.SkipOnError {
		if d.SkipOnError && !errors.Is(err, ErrTransient) {
			fmt.Printf("Warning: get item %d error, but handled: %v\n", index, err)
		}
		alt := rng.Intn(d.Provider.Len())
		return d.Get(alt)
	}
	return nil, err
}
