package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(5)] = true
	}

	a.True(found[0])
	a.True(found[1])
	a.True(found[2])
	a.True(found[3])
	a.True(found[4])
	a.False(found[5])
}

func TestSalt(t *testing.T) {
	a := assert.New(t)

	s1 := Salt(32)
	s2 := Salt(32)
	a.Len(s1, 32)
	a.Len(s2, 32)
	a.NotEqual(s1, s2)
}

func TestScript_Intn(t *testing.T) {
	a := assert.New(t)

	s := NewScript(3, 0, 1)
	a.Equal(3, s.Intn(5))
	a.Equal(0, s.Intn(5))
	a.Equal(1, s.Intn(2))
	a.Panics(func() { s.Intn(5) })

	a.Panics(func() { NewScript(5).Intn(5) })
}
