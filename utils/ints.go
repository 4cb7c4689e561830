package utils

import (
	"golang.org/x/exp/constraints"
)

// Clamp limits value to the [low, high] range.
func Clamp[T constraints.Integer | constraints.Float](value, low, high T) (clamped T) {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
