package rng

import "fmt"

// Script is a Generator that replays a fixed sequence of values.
// It exists so deck shuffles can be made deterministic in tests.
type Script struct {
	values []int
	index  int
}

// NewScript returns a Script that returns the provided values in order
func NewScript(values ...int) *Script {
	return &Script{values: values}
}

// Intn returns the next scripted value
// Panics if the script is exhausted or the value is out of range.
func (s *Script) Intn(n int) int {
	if s.index >= len(s.values) {
		panic("rng script exhausted")
	}

	v := s.values[s.index]
	s.index++

	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted value %d out of range [0, %d)", v, n))
	}

	return v
}

// Zeros is a Generator that always returns 0, making any shuffle driven by
// it deterministic.
type Zeros struct{}

// Intn returns 0
func (Zeros) Intn(int) int {
	return 0
}
