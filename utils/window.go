// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Sinc is the normalized sinc function sin(pi*x)/(pi*x).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// BlackmanHarris evaluates the 4-term Blackman-Harris window at position n in
// [0, 1]; it is zero outside that range.
func BlackmanHarris(n float64) float64 {
	if n < 0 || n > 1 {
		return 0
	}

	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	x := 2 * math.Pi * n
	return a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
}
