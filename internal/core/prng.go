package core

import "unicode/utf16"

// SeedFromString hashes s with a 31-multiplier rolling hash over UTF-16 code
// units, folded to a signed 32-bit value and made non-negative.
func SeedFromString(s string) uint32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = hash*31 + int32(unit)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return uint32(h)
}

// Stream is a Mulberry32 pseudo-random stream. Not safe for concurrent use;
// derive one per call instead of sharing.
type Stream struct {
	state uint32
}

func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296
}

// Draw returns the first value of the stream seeded at seed+offset.
// Each field uses its own offset so that fields stay decorrelated.
func Draw(seed uint32, offset int) float64 {
	return NewStream(seed + uint32(offset)).Float64()
}
