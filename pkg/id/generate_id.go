// Package id generates the opaque public identifiers used for
// students, applications, documents and messages.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns exactly 32 lowercase hex characters, the public-ID
// format across all entities (no separators/prefixes).
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Valid reports whether s is a well-formed public identifier.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
