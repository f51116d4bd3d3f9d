package rng

// Generator provides uniform random numbers for shuffling.
// The deck takes a Generator as a capability so tests can substitute a
// deterministic source.
type Generator interface {
	// Intn will return a uniform random number in [0, n)
	Intn(n int) int
}
