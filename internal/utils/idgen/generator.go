// Package idgen produces opaque, prefixed identifiers for API-facing records.
package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// charset is lowercase alphanumeric so IDs survive case-insensitive storage.
const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// Well-known prefixes for tracker records.
const (
	PrefixTemplate = "tmpl"
	PrefixField    = "fld"
	PrefixEntry    = "ent"
	PrefixAnalysis = "ana"
)

// GenerateSecureID returns a cryptographically random ID of the form
// "<prefix>_<length random chars>".
func GenerateSecureID(prefix string, length int) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("idgen: prefix must not be empty")
	}
	if length <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}

	return prefix + "_" + string(buf), nil
}

// MustGenerateSecureID panics on generation failure. crypto/rand only fails
// when the OS entropy source is broken, which is not recoverable anyway.
func MustGenerateSecureID(prefix string, length int) string {
	id, err := GenerateSecureID(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// ValidateIDFormat reports whether id is a well-formed ID for expectedPrefix.
func ValidateIDFormat(id, expectedPrefix string) bool {
	if !strings.HasPrefix(id, expectedPrefix+"_") {
		return false
	}
	suffix := id[len(expectedPrefix)+1:]
	if suffix == "" {
		return false
	}
	for _, char := range suffix {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}
