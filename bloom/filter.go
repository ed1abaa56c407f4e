// Package bloom provides a probabilistic duplicate-content hint backed by
// a Bloom filter. It flags posts whose body text was likely seen before,
// which catches reposts of the same content saved under different URLs.
// False positives are possible, so callers treat a hit as a signal to log
// or surface, never as grounds to reject a save.
package bloom

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Filter wraps a Bloom filter over content fingerprints.
// Filter is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// fingerprint reduces content to a stable 8-byte key. Case and surrounding
// whitespace are ignored so trivially reformatted reposts still collide.
func fingerprint(content string) []byte {
	sum := xxhash.Sum64String(strings.ToLower(strings.TrimSpace(content)))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return b[:]
}

// Seen reports whether the content was probably recorded before, then
// records it. The check and the add are a single atomic step.
func (f *Filter) Seen(content string) bool {
	key := fingerprint(content)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAdd(key)
}

// Test returns true if the content might have been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(content string) bool {
	key := fingerprint(content)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Test(key)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
