// Package bloom provides approximate set membership over 64-bit
// fingerprints, used to skip pages a scraper has already visited.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a Bloom filter keyed by fingerprint.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected fingerprints
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd reports whether fp might have been added before, and adds it.
func (f *Filter) TestAndAdd(fp uint64) bool {
	return f.f.TestAndAdd(key(fp))
}

func key(fp uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], fp)
	return b[:]
}
