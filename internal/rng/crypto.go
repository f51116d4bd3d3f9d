package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto is a Generator backed by crypto/rand
type Crypto struct{}

// Intn returns a uniform random number in [0, n)
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}

// Salt returns n cryptographically random bytes
func Salt(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return b
}
