package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomID returns length random bytes hex encoded, suitable for
// session identifiers.
func GenerateRandomID(length int) string {
	b := make([]byte, length)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
