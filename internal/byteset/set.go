// Package byteset implements a 256-bit set of bytes with a popcount-based rank,
// used to index a dense, sorted slice of children by their first byte.
package byteset

import (
	"github.com/hideo55/go-popcount"
)

// Set is a bitmap of 256 bits representing 2**8 entries.
type Set struct {
	bitmap [4]uint64
}

// Add adds b to the set and reports whether it was absent.
func (s *Set) Add(b byte) bool {
	var (
		ofs = b >> 6
		bit = uint64(1) << (b & 0x3F) // the lowest 6 bits (2**6 == 64)
	)

	if s.bitmap[ofs]&bit != 0 {
		return false
	}

	s.bitmap[ofs] |= bit

	return true
}

// Has reports whether b is in the set.
func (s *Set) Has(b byte) bool {
	return (s.bitmap[b>>6]>>(b&0x3F))&0x01 != 0
}

// Rank returns the number of members less than b, which is the index of b in
// a sorted slice of all members.
func (s *Set) Rank(b byte) int {
	var (
		ofs = b >> 6
		idx = b & 0x3F
		cnt = popcount.Count(s.bitmap[ofs] & ((uint64(1) << idx) - 1))
	)

	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(s.bitmap[j])
	}

	return int(cnt)
}

// Len returns the number of members.
func (s *Set) Len() int {
	var cnt uint64

	for _, bmp := range s.bitmap {
		cnt += popcount.Count(bmp)
	}

	return int(cnt)
}
