package utils

import "math"

// PxPerMm is the CSS reference ratio: 96 DPI / 25.4 mm per inch
const PxPerMm = 96.0 / 25.4

// MmToPx converts millimeters to CSS pixels
func MmToPx(mm float64) float64 {
	return mm * PxPerMm
}

// MmToPxInt converts millimeters to whole device pixels, rounding to nearest
func MmToPxInt(mm float64) int {
	return int(math.Round(MmToPx(mm)))
}

// Round2 rounds to two decimals so structural descriptions compare stably
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
