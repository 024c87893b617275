package random

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.Intn(len(charset))]
	}
	return string(b)
}

func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(charset)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// Key returns an opaque token suitable for tagging a mutating request so
// the upstream can spot duplicates. Falls back to the weaker source if the
// system one is unavailable.
func Key() string {
	s, err := StringSecure(24)
	if err != nil {
		return String(24)
	}
	return s
}
