package byteset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddHas(t *testing.T) {
	t.Parallel()

	var s Set

	for _, b := range []byte{0, 1, 63, 64, 127, 128, 200, 255} {
		assert.False(t, s.Has(b), b)
		assert.True(t, s.Add(b), b)
		assert.False(t, s.Add(b), b)
		assert.True(t, s.Has(b), b)
	}

	assert.False(t, s.Has(2))
	assert.False(t, s.Has(254))
	assert.Equal(t, 8, s.Len())
}

func TestRank(t *testing.T) {
	t.Parallel()

	s := setOf('a', 'c', 'z', 0x80, 0xFF)

	for _, tcase := range []*struct {
		Byte    byte
		ExpRank int
	}{
		{0, 0},
		{'a', 0},
		{'b', 1},
		{'c', 1},
		{'d', 2},
		{'z', 2},
		{0x80, 3},
		{0xFF, 4},
	} {
		var (
			tcase = tcase
			name  = fmt.Sprintf("%#x", tcase.Byte)
		)

		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tcase.ExpRank, s.Rank(tcase.Byte))
		})
	}
}

func TestRank_Dense(t *testing.T) {
	t.Parallel()

	var (
		s   = setOf('z', 'a', 0xF0, '0')
		exp = []byte{'0', 'a', 'z', 0xF0}
	)

	assert.Equal(t, len(exp), s.Len())

	for i, b := range exp {
		assert.Equal(t, i, s.Rank(b))
	}
}

func setOf(members ...byte) Set {
	var s Set

	for _, b := range members {
		s.Add(b)
	}

	return s
}
