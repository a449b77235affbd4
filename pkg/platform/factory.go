package platform

import (
	"errors"
	"fmt"

	"github.com/sgaunet/auto-release/internal/security"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/git"
	ghclient "github.com/sgaunet/auto-release/pkg/github"
	glclient "github.com/sgaunet/auto-release/pkg/gitlab"
	"github.com/sgaunet/bullets"
)

// errUnsupportedPlatform is returned when the configured platform is not supported.
var errUnsupportedPlatform = errors.New("unsupported platform")

// NewProvider creates the Provider for the configured platform,
// authenticating with token.
//
//nolint:ireturn // Factory function must return interface to enable platform abstraction.
func NewProvider(cfg *config.Config, token security.SecureToken, logger *bullets.Logger) (Provider, error) {
	p, err := cfg.PlatformName()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	security.DebugAuth(logger, string(p), token, map[string]string{
		"api":     cfg.BaseURL,
		"project": cfg.Release.Owner + "/" + cfg.Release.Repo,
	})

	switch p {
	case git.PlatformGitLab:
		client, err := glclient.NewClient(token, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		client.SetLogger(logger)
		if err := client.SetProject(cfg.Release.Owner + "/" + cfg.Release.Repo); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return NewGitLabAdapter(client, logger), nil

	case git.PlatformGitHub:
		client, err := ghclient.NewClient(token, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		client.SetLogger(logger)
		if err := client.SetRepository(cfg.Release.Owner, cfg.Release.Repo); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return NewGitHubAdapter(client, logger), nil

	default:
		return nil, fmt.Errorf("%w: %w: %s", ErrValidation, errUnsupportedPlatform, p)
	}
}
