package engine

// Rand is the source of randomness for shuffling and opponent choices.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a uniformly distributed integer in [0, n). n > 0.
	IntN(n int) int
}

// XorShift is a seedable xorshift64 generator. Games created from the same
// seed replay identically.
type XorShift struct {
	state uint64
}

// NewRand returns an XorShift seeded with seed. xorshift can't start at 0, so
// a zero seed is corrected to 1.
func NewRand(seed uint64) *XorShift {
	if seed == 0 {
		seed = 1
	}
	return &XorShift{state: seed}
}

// Uint64 advances the generator.
func (x *XorShift) Uint64() uint64 {
	v := x.state
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	x.state = v
	return v
}

// IntN returns a number in [0, n). Values from the biased tail of the uint64
// range are rejected so every outcome is equally likely.
func (x *XorShift) IntN(n int) int {
	if n <= 0 {
		panic("engine: IntN called with n <= 0")
	}
	bound := uint64(n)
	limit := ^uint64(0) - (^uint64(0)%bound+1)%bound
	for {
		v := x.Uint64()
		if v <= limit {
			return int(v % bound)
		}
	}
}
