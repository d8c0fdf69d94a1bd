package portal

import "time"

// Mulberry32 is a small deterministic 32-bit PRNG.
// The same seed always yields the same sequence.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a generator seeded with seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 returns the next value in the sequence.
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value scaled to [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / (1 << 32)
}

// IntN returns the next value scaled to [0, n).
func (m *Mulberry32) IntN(n int) int {
	return int(m.Float64() * float64(n))
}

// NewSeed mixes the wall clock with a random draw. Only uniqueness in
// practice matters; the bit pattern carries no meaning.
func NewSeed(now time.Time, draw uint32) uint32 {
	return uint32(now.UnixMilli()) ^ draw
}
