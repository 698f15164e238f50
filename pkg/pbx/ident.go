package pbx

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// IDLen is the identifier width in hex digits.
const IDLen = 24

// RandomID returns a 24-digit uppercase hex identifier. It does not
// check uniqueness; Graph.NewID retries until the candidate is free.
func RandomID() string {
	var b [IDLen / 2]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return strings.ToUpper(hex.EncodeToString(b[:]))
}

// ValidID reports whether s has identifier shape: exactly 24
// uppercase hex digits.
func ValidID(s string) bool {
	if len(s) != IDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' || c >= 'A' && c <= 'F' {
			continue
		}
		return false
	}
	return true
}
