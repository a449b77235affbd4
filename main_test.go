package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sgaunet/auto-release/internal/lock"
	"github.com/sgaunet/auto-release/internal/security"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain", errors.New("boom"), exitFailure},
		{"usage", fmt.Errorf("%w: unknown flag", errUsage), exitValidation},
		{"config", fmt.Errorf("%w: owner", config.ErrInvalid), exitValidation},
		{"lock", fmt.Errorf("%w (lock: /tmp/x)", lock.ErrHeld), exitLockHeld},
		{"validation step", &release.StepError{Step: release.StepResolveVersion, Err: platform.ErrValidation}, exitValidation},
		{"not found", &release.StepError{Step: release.StepReadManifestRevision, Err: platform.ErrNotFound}, exitNotFound},
		{"conflict", &release.StepError{Step: release.StepWriteManifest, Err: platform.ErrConflict}, exitConflict},
		{"transport", &release.StepError{Step: release.StepReadHistory, Err: platform.ErrTransport}, exitTransport},
		{"auth", fmt.Errorf("%w: GITHUB_TOKEN", platform.ErrAuth), exitAuth},
		{"nothing", &release.StepError{Step: release.StepComposeNotes, Err: platform.ErrNothingToRelease}, exitNothingToRelease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestBumpArgs(t *testing.T) {
	require.NoError(t, bumpArgs(rootCmd, []string{"patch"}))

	err := bumpArgs(rootCmd, nil)
	assert.ErrorIs(t, err, errUsage)
	assert.Equal(t, exitValidation, exitCode(err))

	assert.ErrorIs(t, bumpArgs(rootCmd, []string{"patch", "minor"}), errUsage)
}

func TestRunRelease_InvalidKindFailsFirst(t *testing.T) {
	configPath = "/nonexistent/auto-release.yml"
	t.Cleanup(func() { configPath = "" })

	err := runRelease(t.Context(), "gigantic")
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrValidation)
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestReport(t *testing.T) {
	t.Run("usage error prints usage", func(t *testing.T) {
		var buf bytes.Buffer
		code := report(&buf, bumpArgs(rootCmd, nil))

		assert.Equal(t, exitValidation, code)
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Error: invalid usage: expected exactly one bump kind"))
		assert.Contains(t, out, "Usage:")
		assert.Contains(t, out, "auto-release <major|minor|patch>")
		assert.Contains(t, out, "--dry-run")
	})

	t.Run("release failure prints only the error", func(t *testing.T) {
		var buf bytes.Buffer
		err := &release.StepError{Step: release.StepCreateTag, Err: platform.ErrConflict}

		assert.Equal(t, exitConflict, report(&buf, err))
		assert.Equal(t, "Error: CreateTag failed: conflict\n", buf.String())
	})

	t.Run("credentials are masked", func(t *testing.T) {
		var buf bytes.Buffer
		token := security.NewSecureToken("custom-ci-secret-42")
		err := security.NewRedactor(token).Error(
			fmt.Errorf("%w: custom-ci-secret-42 was rejected", platform.ErrAuth))

		assert.Equal(t, exitAuth, report(&buf, err))
		assert.NotContains(t, buf.String(), "custom-ci-secret-42")
	})
}

func TestRunRelease_MasksCredentialsInErrors(t *testing.T) {
	configPath = "/nonexistent/auto-release.yml"
	t.Cleanup(func() { configPath = "" })

	err := runRelease(t.Context(), "patch")
	require.Error(t, err)
	var redacted *security.RedactedError
	assert.ErrorAs(t, err, &redacted)
	assert.Equal(t, exitValidation, exitCode(err))
}
