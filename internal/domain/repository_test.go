package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryRef(t *testing.T) {
	ref := NewRepositoryRef("github.com", "golang", "go")

	assert.Equal(t, "golang/go", ref.FullName)
	assert.Equal(t, "https://github.com/golang/go", ref.CanonicalURL)
	assert.Equal(t, "golang", ref.Owner)
	assert.Equal(t, "go", ref.Name)
}

func TestSameRepository(t *testing.T) {
	a := NewRepositoryRef("github.com", "owner", "repo")
	b := NewRepositoryRef("github.com", "owner", "repo")
	c := NewRepositoryRef("github.com", "owner", "other")

	tests := []struct {
		name     string
		left     *RepositoryRef
		right    *RepositoryRef
		expected bool
	}{
		{"both nil", nil, nil, true},
		{"left nil", nil, &a, false},
		{"right nil", &a, nil, false},
		{"same full name", &a, &b, true},
		{"different name", &a, &c, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SameRepository(tt.left, tt.right))
		})
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input    string
		host     string
		segments []string
	}{
		{"https://github.com/owner/repo", "github.com", []string{"owner", "repo"}},
		{"github.com/owner/repo/tree/main", "github.com", []string{"owner", "repo", "tree", "main"}},
		{"https://GitHub.com//owner//repo/", "github.com", []string{"owner", "repo"}},
		{"https://github.com/owner/repo?tab=readme#top", "github.com", []string{"owner", "repo"}},
		{"https://gitlab.com/", "gitlab.com", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			loc, err := ParseLocation(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.host, loc.Hostname)
			assert.Equal(t, tt.segments, loc.Segments())
		})
	}
}

func TestParseLocation_Empty(t *testing.T) {
	_, err := ParseLocation("   ")
	require.Error(t, err)
}

func TestStatsError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &StatsError{Attempts: 30, Cause: cause, Kind: ErrPollTimeout}

	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTransportFailure)
	assert.Equal(t, "statistics computation timed out after 30 attempts: connection refused", err.Error())
}

func TestWidgetState_Visible(t *testing.T) {
	assert.False(t, StateAbsent.Visible())
	assert.True(t, StateLoading.Visible())
	assert.True(t, StateSuccess.Visible())
	assert.True(t, StateError.Visible())
	assert.True(t, StateNoServer.Visible())
}
