// Package manifest reads and rewrites the version field of a project
// manifest while preserving key order and indentation.
package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/sgaunet/auto-release/pkg/platform"
)

// VersionKey is the manifest field holding the project version.
const VersionKey = "version"

var (
	errMissingVersion    = errors.New("manifest has no version field")
	errVersionNotString  = errors.New("manifest version field is not a string")
	errUnsupportedFormat = errors.New("unsupported manifest format")
	errMalformed         = errors.New("malformed manifest")

	// ErrMissingVersion is returned when the manifest has no version field.
	ErrMissingVersion = errMissingVersion
	// ErrVersionNotString is returned when the version field is not a string.
	ErrVersionNotString = errVersionNotString
	// ErrUnsupportedFormat is returned for paths that are neither JSON nor YAML.
	ErrUnsupportedFormat = errUnsupportedFormat
	// ErrMalformed is returned when the document cannot be decoded.
	ErrMalformed = errMalformed
)

// Document is a decoded manifest.
type Document interface {
	// Version returns the current version field.
	Version() (string, error)
	// SetVersion replaces the version field in place.
	SetVersion(v string) error
	// Encode serializes the document deterministically.
	Encode() ([]byte, error)
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) (Document, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return parseJSON(data)
	case ".yml", ".yaml":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %w: %s", platform.ErrValidation, errUnsupportedFormat, name)
	}
}

// Rewrite parses data, replaces its version with v, and re-encodes it.
// It returns the previous version alongside the new content.
func Rewrite(name string, data []byte, v string) ([]byte, string, error) {
	doc, err := Parse(name, data)
	if err != nil {
		return nil, "", err
	}
	previous, err := doc.Version()
	if err != nil {
		return nil, "", err
	}
	if err := doc.SetVersion(v); err != nil {
		return nil, "", err
	}
	out, err := doc.Encode()
	if err != nil {
		return nil, "", err
	}
	return out, previous, nil
}

func validation(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", platform.ErrValidation, err, fmt.Sprintf(format, args...))
}
