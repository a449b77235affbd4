package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/version"
	"github.com/sgaunet/bullets"
)

var errTagExists = errors.New("tag already exists")

// ErrTagExists is returned, wrapped with platform.ErrConflict, when the
// release tag was published by an earlier run.
var ErrTagExists = errTagExists

// Tagger creates annotated release tags.
type Tagger struct {
	provider platform.Provider
	prefix   string
	log      *bullets.Logger
}

// NewTagger creates a tagger naming tags prefix+version.
func NewTagger(provider platform.Provider, prefix string) *Tagger {
	return &Tagger{
		provider: provider,
		prefix:   prefix,
		log:      logger.NoLogger(),
	}
}

// SetLogger sets the logger for the tagger.
func (t *Tagger) SetLogger(log *bullets.Logger) {
	t.log = log
}

// Name returns the tag name for v.
func (t *Tagger) Name(v string) string {
	return version.TagName(t.prefix, v)
}

// Create tags commitID as the release of v. The tag message is the tag
// name. An existing tag is never touched: Create fails with
// platform.ErrConflict instead.
func (t *Tagger) Create(ctx context.Context, commitID, v string) (*platform.TagRef, error) {
	name := t.Name(v)

	exists, err := t.provider.TagExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag %s: %w", name, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %w: %s", platform.ErrConflict, errTagExists, name)
	}

	ref, err := t.provider.CreateTag(ctx, platform.TagRequest{
		Name:      name,
		Message:   name,
		CommitSHA: commitID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag %s: %w", name, err)
	}

	t.log.Debug(fmt.Sprintf("Tag %s published at %s", ref.Ref, commitID))
	return ref, nil
}
