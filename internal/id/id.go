package id

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateID creates a unique 16-character alphanumeric ID.
func GenerateID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}

// UserKey derives the stable key under which a token's progress is stored,
// so raw tokens never reach the database.
func UserKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
