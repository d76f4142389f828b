package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntnStaysInRange(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		v := r.Intn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestIntnNonPositiveBound(t *testing.T) {
	assert.Equal(t, 0, New().Intn(0))
	assert.Equal(t, 0, New().Intn(-3))
}

func TestBetweenIsInclusive(t *testing.T) {
	r := New()
	for i := 0; i < 500; i++ {
		v := Between(r, 50, 300)
		assert.GreaterOrEqual(t, v, 50)
		assert.LessOrEqual(t, v, 300)
	}
	assert.Equal(t, 5, Between(r, 5, 5))
}
