package random

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// CryptoRand builds a rand.Rand seeded from the system entropy source.
// Used wherever generated references must be unpredictable.
func CryptoRand() (r *rand.Rand) {
	var seed [32]byte
	crand.Reader.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}
