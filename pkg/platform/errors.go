package platform

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel errors classifying every failure of a release run.
var (
	// ErrValidation is returned for bad local input (bump kind, manifest shape, configuration).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a path, branch, tag, or commit does not exist remotely.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for stale revision markers and duplicate tags or pull requests.
	ErrConflict = errors.New("conflict")

	// ErrTransport is returned for network failures, rate limits, and 5xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrAuth is returned when the credential is missing, invalid, or lacks permission.
	ErrAuth = errors.New("authentication failed")

	// ErrNothingToRelease is returned when no pull requests qualify and empty releases are refused.
	ErrNothingToRelease = errors.New("nothing to release")
)

// Kind is the category of a failure, used for exit codes.
type Kind int

// Failure kinds, in the order KindOf checks them.
const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTransport
	KindAuth
	KindNothingToRelease
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindValidation:       "validation",
	KindNotFound:         "not found",
	KindConflict:         "conflict",
	KindTransport:        "transport",
	KindAuth:             "auth",
	KindNothingToRelease: "nothing to release",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// KindOf returns the kind of err by inspecting its chain.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrNothingToRelease):
		return KindNothingToRelease
	default:
		return KindUnknown
	}
}

// FromStatus maps an HTTP status and API message to a sentinel.
// Returns nil when the status does not indicate a failure class.
//
// 422 and 400 are ambiguous across hosting platforms: they mean a conflict
// when the message says the object already exists or changed underneath,
// and a validation failure otherwise.
func FromStatus(status int, message string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		if isConflictMessage(message) {
			return ErrConflict
		}
		return ErrValidation
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return ErrTransport
	default:
		return nil
	}
}

func isConflictMessage(message string) bool {
	m := strings.ToLower(message)
	for _, marker := range []string{"already exists", "does not match", "has changed since", `"sha" wasn't supplied`} {
		if strings.Contains(m, marker) {
			return true
		}
	}
	return false
}
