package common

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandByteArray returns size bytes from the process CSPRNG. It panics
// if the source fails, which on supported platforms indicates a broken
// runtime rather than a recoverable condition.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandBase64String returns a base64-encoded string of size random bytes.
// Used for opaque tokens where predictability would be a takeover vector.
func MakeRandBase64String(size int) string {
	return base64.StdEncoding.EncodeToString(GenerateRandByteArray(size))
}
