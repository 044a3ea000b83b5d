package calllog

import "math"

// Round1 rounds half up at one decimal place: 1.25 -> 1.3.
func Round1(x float64) float64 {
	return math.Trunc(x*10+0.5) / 10
}

// Round2 rounds half up at two decimal places.
func Round2(x float64) float64 {
	return math.Trunc(x*100+0.5) / 100
}

// RoundValue applies Round1 to a numeric cell value. Missing and
// non-numeric values become the empty string.
func RoundValue(v any) any {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) {
		return ""
	}
	return Round1(f)
}

// ratio divides guarding a zero denominator to 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
