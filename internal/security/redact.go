package security

import (
	"regexp"
	"strings"
)

const (
	redactedGitHub = "[github-token-redacted]"
	redactedGitLab = "[gitlab-token-redacted]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Credential shapes GitHub and GitLab hand out, plus the places a client
// library or proxy may echo one back.
var rules = []rule{
	{regexp.MustCompile(`glpat-[A-Za-z0-9_-]{6,}`), redactedGitLab},
	{regexp.MustCompile(`gh[opsu]_[A-Za-z0-9]{20,}`), redactedGitHub},
	{regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`), redactedGitHub},
	{regexp.MustCompile(`(?i)(authorization:\s*(?:bearer|basic|token)\s+)[^\s,;]+`), "${1}" + maskRedacted},
	{regexp.MustCompile(`(?i)(private-token:\s*)[^\s,;]+`), "${1}" + maskRedacted},
	{regexp.MustCompile(`(https?://)[^/\s@]+@`), "${1}" + maskRedacted + "@"},
}

var sensitiveKeys = []string{"token", "password", "secret", "auth", "credential"}

// Redactor masks credentials in text shown to the user: the tokens it was
// built with wherever they appear, and anything shaped like a platform
// token. The zero value only applies the shape rules.
type Redactor struct {
	secrets []string
}

// NewRedactor creates a redactor for tokens. Empty tokens are ignored.
func NewRedactor(tokens ...SecureToken) *Redactor {
	r := &Redactor{}
	for _, t := range tokens {
		if !t.IsEmpty() {
			r.secrets = append(r.secrets, t.Value())
		}
	}
	return r
}

// String returns s with every credential masked.
func (r *Redactor) String(s string) string {
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, maskRedacted)
	}
	for _, rl := range rules {
		s = rl.pattern.ReplaceAllString(s, rl.replacement)
	}
	return s
}

// Error returns err with a masked message. The returned error unwraps to
// err, so errors.Is and errors.As see the original chain.
func (r *Redactor) Error(err error) error {
	if err == nil {
		return nil
	}
	return &RedactedError{err: err, msg: r.String(err.Error())}
}

// Fields masks the values of keys naming a credential and redacts the
// other values.
func (r *Redactor) Fields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			out[k] = maskRedacted
			continue
		}
		out[k] = r.String(v)
	}
	return out
}

// RedactedError carries an error whose message had credentials masked.
type RedactedError struct {
	err error
	msg string
}

func (e *RedactedError) Error() string {
	return e.msg
}

func (e *RedactedError) Unwrap() error {
	return e.err
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
