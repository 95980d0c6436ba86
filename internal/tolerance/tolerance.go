// Package tolerance provides the epsilon-tolerant comparisons used by
// every percentage and threshold check in the classification rules.
package tolerance

import "math"

// Epsilon is the absolute tolerance applied to threshold comparisons.
const Epsilon = 0.001

// AlmostLE reports whether x is at most upper, within Epsilon.
func AlmostLE(x, upper float64) bool {
	return x < upper+Epsilon
}

// AlmostGE reports whether x is at least lower, within Epsilon.
func AlmostGE(lower, x float64) bool {
	return x+Epsilon > lower
}

// AlmostEq reports whether a and b differ by less than Epsilon.
func AlmostEq(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// AlmostZero reports whether x is zero within Epsilon.
func AlmostZero(x float64) bool {
	return AlmostEq(x, 0)
}
