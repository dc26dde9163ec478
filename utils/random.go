// utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns n characters from an unambiguous
// alphabet, used for order numbers and payment references.
func GenerateRandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to read random source")
		}
		out[i] = randomAlphabet[idx.Int64()]
	}
	return string(out)
}
