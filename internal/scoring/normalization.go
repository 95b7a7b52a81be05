package scoring

// NormalizeByMax divides every value by the maximum value.
// A negative maximum still divides, which flips the order of the values.
// When the maximum is zero the values are returned unchanged and degenerate
// is true.
func NormalizeByMax(values []float64) (normalized []float64, degenerate bool) {
	normalized = make([]float64, len(values))
	if len(values) == 0 {
		return normalized, false
	}

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == 0 {
		copy(normalized, values)
		return normalized, true
	}

	for i, v := range values {
		normalized[i] = v / maxVal
	}
	return normalized, false
}
