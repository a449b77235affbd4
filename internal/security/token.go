// Package security provides token security and credential sanitization utilities.
package security

import (
	"fmt"
	"os"
	"strings"
)

const (
	// Minimum token length to show partial masking (show last 4 chars).
	minTokenLengthForPartialMask = 8
	// Number of characters to show when masking.
	maskShowChars = 4
	// maskEmpty is returned for empty tokens.
	maskEmpty = "[empty]"
	// maskRedacted is returned for short tokens.
	maskRedacted = "[redacted]"
)

// SecureToken wraps sensitive tokens to prevent accidental logging.
// The String() method returns a masked value, making it safe to use in logs,
// error messages, and fmt operations.
//
// Example:
//
//	token := NewSecureToken("ghp_secret123456")
//	fmt.Printf("Token: %s", token)  // Output: "Token: [token:****3456]"
type SecureToken struct {
	value string
}

// NewSecureToken creates a new SecureToken from a string value.
func NewSecureToken(token string) SecureToken {
	return SecureToken{value: strings.TrimSpace(token)}
}

// TokenFromEnv reads a bearer token from the named environment variable.
// A missing variable yields an empty token; the remote API reports the
// authentication failure.
func TokenFromEnv(name string) SecureToken {
	return NewSecureToken(os.Getenv(name))
}

// String implements fmt.Stringer and returns a masked representation.
func (t SecureToken) String() string {
	if t.value == "" {
		return maskEmpty
	}

	if len(t.value) < minTokenLengthForPartialMask {
		return maskRedacted
	}

	lastChars := t.value[len(t.value)-maskShowChars:]
	return fmt.Sprintf("[token:****%s]", lastChars)
}

// Value returns the actual token value.
// Only call this when handing the token to an HTTP transport. Never log the result.
func (t SecureToken) Value() string {
	return t.value
}

// IsEmpty returns true if the token is empty.
func (t SecureToken) IsEmpty() bool {
	return t.value == ""
}

// GoString implements fmt.GoStringer to prevent leaking in %#v formatting.
func (t SecureToken) GoString() string {
	return t.String()
}
