package security

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sgaunet/bullets"
)

// DebugAuth logs which credentials a platform client was built with.
// Values under credential-like keys are masked and token is redacted from
// the rest.
func DebugAuth(logger *bullets.Logger, platform string, token SecureToken, details map[string]string) {
	if logger == nil {
		return
	}

	fields := NewRedactor(token).Fields(details)
	parts := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, k+"="+fields[k])
	}
	logger.Debug(fmt.Sprintf("Using %s authentication: token %s, %s", platform, token, strings.Join(parts, " ")))
}
