// Package numeric provides the arithmetic surface subscription-driven
// applications are written against: rounding with explicit half-way
// conventions, floored and truncated modulo, and thin forwards to the Go
// math library with IEEE-754 domain behavior.
//
// The package is a collaborator, not a dependency, of the platform runtime:
// nothing here touches subscriptions, and the runtime never imports it.
package numeric

import "math"

// Circle constants.
const (
	Pi = math.Pi
	E  = math.E
)

// Round rounds to the nearest integer, resolving halves toward positive
// infinity: Round(1.5) == 2 and Round(-1.5) == -1.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Floor rounds down to the nearest integer.
func Floor(x float64) int {
	return int(math.Floor(x))
}

// Ceiling rounds up to the nearest integer.
func Ceiling(x float64) int {
	return int(math.Ceil(x))
}

// Truncate drops the fractional part, rounding toward zero.
func Truncate(x float64) int {
	return int(math.Trunc(x))
}

// ModBy performs floored modular arithmetic: the result carries the sign of
// the modulus, so ModBy(2, -5) == 1 and ModBy(-2, 5) == -1. A zero modulus
// panics, as with the built-in % operator.
func ModBy(modulus, x int) int {
	r := x % modulus
	if r != 0 && (r < 0) != (modulus < 0) {
		r += modulus
	}
	return r
}

// RemainderBy is the truncated-division remainder: the result carries the
// sign of the dividend, so RemainderBy(2, -5) == -1. A zero divisor panics.
func RemainderBy(divisor, x int) int {
	return x % divisor
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Sqrt returns the square root of x. Negative inputs yield NaN rather than
// an error.
func Sqrt(x float64) float64 {
	return math.Sqrt(x)
}

// LogBase returns the logarithm of x in the given base, so that
// LogBase(2, 256) == 8 and LogBase(10, 100) == 2.
func LogBase(base, x float64) float64 {
	return math.Log(x) / math.Log(base)
}

// Pow returns base raised to exp.
func Pow(base, exp float64) float64 {
	return math.Pow(base, exp)
}

// Trigonometry, in radians.

func Sin(angle float64) float64 { return math.Sin(angle) }

func Cos(angle float64) float64 { return math.Cos(angle) }

func Tan(angle float64) float64 { return math.Tan(angle) }

func Asin(x float64) float64 { return math.Asin(x) }

func Acos(x float64) float64 { return math.Acos(x) }

func Atan(x float64) float64 { return math.Atan(x) }

// Atan2 returns the angle of the vector (x, y), using the signs of both
// arguments to pick the quadrant: Atan2(-1, -1) is -3π/4.
func Atan2(y, x float64) float64 { return math.Atan2(y, x) }

// Degrees converts an angle in degrees into the radians every function
// above expects.
func Degrees(angle float64) float64 {
	return angle * Pi / 180
}

// Radians is the identity conversion. It exists so call sites can state
// the unit they were given.
func Radians(angle float64) float64 {
	return angle
}

// Turns converts full turns into radians: one turn is 2π.
func Turns(angle float64) float64 {
	return 2 * Pi * angle
}
