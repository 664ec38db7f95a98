package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCodeLengthAndAlphabet(t *testing.T) {
	for _, n := range []int{8, 10} {
		code := NewCode(n)
		assert.Len(t, code, n)
		assert.Regexp(t, "^[A-HJ-NP-Z2-9]+$", code)
	}
}

func TestNewCodeIsNotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[NewCode(8)] = true
	}
	// 20 draws from a 32^8 space colliding would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}
