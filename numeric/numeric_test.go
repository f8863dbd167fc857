package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/on-the-ground/subscript_ive_go/numeric"
)

func TestModBy_FlooredConvention(t *testing.T) {
	cases := []struct {
		modulus, x, want int
	}{
		{2, -5, 1},
		{2, 5, 1},
		{2, -4, 0},
		{3, -1, 2},
		{-2, 5, -1},
		{-3, -7, -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, numeric.ModBy(c.modulus, c.x),
			"ModBy(%d, %d)", c.modulus, c.x)
	}
}

func TestModBy_ZeroModulusPanics(t *testing.T) {
	assert.Panics(t, func() { numeric.ModBy(0, 5) })
}

func TestRemainderBy_TruncatedConvention(t *testing.T) {
	cases := []struct {
		divisor, x, want int
	}{
		{2, -5, -1},
		{2, 5, 1},
		{3, -7, -1},
		{-3, 7, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, numeric.RemainderBy(c.divisor, c.x),
			"RemainderBy(%d, %d)", c.divisor, c.x)
	}
}

func TestRound_HalvesTowardPositiveInfinity(t *testing.T) {
	assert.Equal(t, 2, numeric.Round(1.5))
	assert.Equal(t, -1, numeric.Round(-1.5))
	assert.Equal(t, 1, numeric.Round(0.5))
	assert.Equal(t, 0, numeric.Round(-0.5))
	assert.Equal(t, 1, numeric.Round(1.4))
	assert.Equal(t, -2, numeric.Round(-1.6))
}

func TestIntegerConversions(t *testing.T) {
	assert.Equal(t, 1, numeric.Floor(1.9))
	assert.Equal(t, -2, numeric.Floor(-1.1))
	assert.Equal(t, 2, numeric.Ceiling(1.1))
	assert.Equal(t, -1, numeric.Ceiling(-1.9))
	assert.Equal(t, 1, numeric.Truncate(1.9))
	assert.Equal(t, -1, numeric.Truncate(-1.9))
}

func TestLogBase(t *testing.T) {
	assert.Equal(t, 8.0, numeric.LogBase(2, 256))
	assert.Equal(t, 2.0, numeric.LogBase(10, 100))
}

func TestAtan2_Quadrants(t *testing.T) {
	assert.InDelta(t, -2.356194490192345, numeric.Atan2(-1, -1), 1e-12)
	assert.InDelta(t, math.Pi/4, numeric.Atan2(1, 1), 1e-12)
}

func TestSqrt_NegativeIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(numeric.Sqrt(-1)))
	assert.Equal(t, 3.0, numeric.Sqrt(9))
}

func TestAngleConversions(t *testing.T) {
	assert.InDelta(t, math.Pi, numeric.Degrees(180), 1e-12)
	assert.InDelta(t, math.Pi, numeric.Turns(0.5), 1e-12)
	assert.Equal(t, 1.25, numeric.Radians(1.25))
	assert.InDelta(t, 1.0, numeric.Sin(numeric.Turns(0.25)), 1e-12)
}

func TestAbsAndPow(t *testing.T) {
	assert.Equal(t, 2.5, numeric.Abs(-2.5))
	assert.Equal(t, 8.0, numeric.Pow(2, 3))
}
