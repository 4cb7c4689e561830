package random

import (
	"math/rand/v2"
)

const (
	CharsetAlphaNumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CharsetUpperAlpha   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetDigits       = "0123456789"
	CharsetHex          = "0123456789abcdef"
)

func String(r *rand.Rand, options string, length int) (s string) {
	rOptions := []rune(options)

	var temp = make([]rune, length)
	for index := range temp {
		temp[index] = rOptions[r.IntN(len(rOptions))]
	}
	return string(temp)
}

// Reference builds a prefixed identifier for processor echoes and request
// correlation, e.g. Reference(r, "req_", 16).
func Reference(r *rand.Rand, prefix string, length int) (ref string) {
	return prefix + String(r, CharsetHex, length)
}
