package stdx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		assert.Equal(t, 0, Zero[int]())
		assert.Equal(t, int64(0), Zero[int64]())
		assert.Equal(t, float64(0), Zero[float64]())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "", Zero[string]())
	})

	t.Run("reference types", func(t *testing.T) {
		assert.Nil(t, Zero[[]int]())
		assert.Nil(t, Zero[map[string]int]())
		assert.Nil(t, Zero[chan int]())
		assert.Nil(t, Zero[*int]())
		assert.Nil(t, Zero[any]())
	})

	t.Run("struct", func(t *testing.T) {
		type payload struct {
			A int
			B string
		}
		assert.Equal(t, payload{}, Zero[payload]())
	})
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must0(nil) })
	assert.Panics(t, func() { Must0(errors.New("boom")) })

	assert.Equal(t, 42, Must1(42, nil))
	assert.Panics(t, func() { Must1(0, errors.New("boom")) })
}
