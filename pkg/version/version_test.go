package version_test

import (
	"testing"

	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBumpKind(t *testing.T) {
	tests := []struct {
		input   string
		want    version.BumpKind
		wantErr bool
	}{
		{input: "major", want: version.Major},
		{input: "Minor", want: version.Minor},
		{input: "PATCH", want: version.Patch},
		{input: " patch ", want: version.Patch},
		{input: "bogus", wantErr: true},
		{input: "", wantErr: true},
		{input: "prerelease", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := version.ParseBumpKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, version.ErrInvalidBumpKind)
				assert.ErrorIs(t, err, platform.ErrValidation)
				assert.Equal(t, platform.KindValidation, platform.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		current string
		kind    version.BumpKind
		want    string
	}{
		{current: "1.2.3", kind: version.Patch, want: "1.2.4"},
		{current: "1.2.3", kind: version.Minor, want: "1.3.0"},
		{current: "1.2.3", kind: version.Major, want: "2.0.0"},
		{current: "0.0.0", kind: version.Patch, want: "0.0.1"},
		{current: "0.9.9", kind: version.Minor, want: "0.10.0"},
		{current: "v1.9.12", kind: version.Major, want: "2.0.0"},
		{current: "1.2.3+build.5", kind: version.Patch, want: "1.2.4"},
		{current: "1.2.3-beta.1", kind: version.Patch, want: "1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.current+"/"+string(tt.kind), func(t *testing.T) {
			got, err := version.Resolve(tt.current, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Monotonic(t *testing.T) {
	for _, current := range []string{"0.0.0", "1.2.3", "10.0.99", "3.4.5-rc.1"} {
		for _, kind := range version.Kinds {
			next, err := version.Resolve(current, kind)
			require.NoError(t, err)

			before, err := version.Parse(current)
			require.NoError(t, err)
			after, err := version.Parse(next)
			require.NoError(t, err)
			assert.True(t, after.GreaterThan(before), "%s %s -> %s must increase", current, kind, next)
		}
	}
}

func TestResolve_Errors(t *testing.T) {
	_, err := version.Resolve("1.2.3", version.BumpKind("bogus"))
	assert.ErrorIs(t, err, version.ErrInvalidBumpKind)

	_, err = version.Resolve("not-a-version", version.Patch)
	assert.ErrorIs(t, err, version.ErrInvalidVersion)
	assert.ErrorIs(t, err, platform.ErrValidation)
}

func TestTags(t *testing.T) {
	assert.Equal(t, "v1.2.4", version.TagName("v", "1.2.4"))

	v, ok := version.FromTag("v", "v1.2.4")
	assert.True(t, ok)
	assert.Equal(t, "1.2.4", v)

	_, ok = version.FromTag("v", "nightly")
	assert.False(t, ok)
	_, ok = version.FromTag("v", "1.2.4")
	assert.False(t, ok)
	_, ok = version.FromTag("v", "v1.2")
	assert.False(t, ok)

	assert.True(t, version.Equal("1.2.4", "v1.2.4"))
	assert.False(t, version.Equal("1.2.4", "1.2.5"))
	assert.False(t, version.Equal("1.2.4", "garbage"))
}
