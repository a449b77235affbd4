package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/sgaunet/auto-release/pkg/release"
	"github.com/sgaunet/bullets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_Confirm(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		c := &Confirmer{ask: func(prompt survey.Prompt, response any) error {
			confirm, ok := prompt.(*survey.Confirm)
			require.True(t, ok)
			assert.Equal(t, "Release v1.2.4?", confirm.Message)
			assert.False(t, confirm.Default)
			*(response.(*bool)) = true
			return nil
		}}

		ok, err := c.Confirm("Release v1.2.4?")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("prompt error", func(t *testing.T) {
		c := &Confirmer{ask: func(survey.Prompt, any) error {
			return errors.New("interrupt")
		}}

		ok, err := c.Confirm("Release v1.2.4?")
		require.Error(t, err)
		assert.False(t, ok)
	})
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Release", []SummaryRow{
		{Label: "Version", Value: "1.2.4"},
		{Label: "Pull request", Value: "https://github.com/o/r/pull/7"},
	})

	assert.Contains(t, out, "Release")
	assert.Contains(t, out, "1.2.4")
	assert.Contains(t, out, "https://github.com/o/r/pull/7")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 3)

	assert.Empty(t, RenderSummary("Release", nil))
}

func TestIsTerminal_File(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}

func TestStepProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewStepProgress(bullets.New(&buf))

	p.StepStarted(release.StepReadManifestRevision)
	p.StepStarted(release.StepReadHistory)
	p.StepFinished(release.StepReadManifestRevision, nil)
	p.StepFinished(release.StepReadHistory, errors.New("boom"))
	p.StepFinished(release.StepCreateTag, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Reading manifest...")
	assert.Contains(t, lines[1], "Reading release history...")
	assert.Contains(t, lines[2], "Reading manifest (")
	assert.Contains(t, lines[3], "Reading release history failed (")
	assert.NotContains(t, buf.String(), "Creating tag")
	assert.NotContains(t, buf.String(), "\r", "no in-place redraw")
	assert.Empty(t, p.started)
}
