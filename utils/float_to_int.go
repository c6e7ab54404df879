// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FloatToInt16 scales x by 32768, rounds half away from zero and clamps to
// the int16 range, so that int16 -> /32768 -> int16 is lossless.
func FloatToInt16(x float64) int16 {
	if x != x { // NaN
		return 0
	}

	v := math.Round(x * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}
