package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolines/internal/domain"
)

func loc(host string, segments ...string) domain.Location {
	path := ""
	for _, s := range segments {
		path += "/" + s
	}
	return domain.Location{Hostname: host, Path: path}
}

func TestIdentify_RejectsShortPathsAndOtherHosts(t *testing.T) {
	id := New(DefaultRules())

	tests := []struct {
		name string
		loc  domain.Location
	}{
		{"root", loc("github.com")},
		{"owner only", loc("github.com", "owner")},
		{"other host", loc("gitlab.com", "owner", "repo")},
		{"subdomain", loc("gist.github.com", "owner", "repo")},
		{"empty host", loc("", "owner", "repo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, id.Identify(tt.loc))
		})
	}
}

func TestIdentify_RepositoryRoot(t *testing.T) {
	id := New(DefaultRules())

	ref := id.Identify(loc("github.com", "owner", "repo"))

	require.NotNil(t, ref)
	assert.Equal(t, "owner/repo", ref.FullName)
	assert.Equal(t, "owner", ref.Owner)
	assert.Equal(t, "repo", ref.Name)
	assert.Equal(t, "https://github.com/owner/repo", ref.CanonicalURL)
}

func TestIdentify_SubPages(t *testing.T) {
	id := New(DefaultRules())

	tests := []struct {
		segments []string
		accepted bool
	}{
		{[]string{"owner", "repo", "wiki"}, true},
		{[]string{"owner", "repo", "tree", "main", "src"}, true},
		{[]string{"owner", "repo", "blob", "main", "README.md"}, true},
		{[]string{"owner", "repo", "pull", "42"}, true},
		{[]string{"owner", "repo", "settings"}, true},
		{[]string{"owner", "repo", "stargazers"}, false},
		{[]string{"owner", "repo", "discussions"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.segments[2], func(t *testing.T) {
			ref := id.Identify(loc("github.com", tt.segments...))
			if tt.accepted {
				require.NotNil(t, ref)
				assert.Equal(t, "owner/repo", ref.FullName)
			} else {
				assert.Nil(t, ref)
			}
		})
	}
}

func TestIdentify_ReservedFirstSegment(t *testing.T) {
	id := New(DefaultRules())

	for _, segments := range [][]string{
		{"settings", "profile"},
		{"settings", "profile", "tree"},
		{"notifications", "beta"},
		{"explore", "topics"},
		{"marketplace", "actions", "issues"},
	} {
		assert.Nil(t, id.Identify(loc("github.com", segments...)), segments)
	}
}

func TestIdentify_ConfigurableRules(t *testing.T) {
	id := New(Rules{
		ReservedOwners: []string{"orgs"},
		SiteDomain:     "GitHub.Example.com",
		SubPages:       []string{"discussions"},
	})

	assert.Nil(t, id.Identify(loc("github.example.com", "orgs", "acme")))
	assert.NotNil(t, id.Identify(loc("github.example.com", "owner", "repo", "discussions")))
	assert.Nil(t, id.Identify(loc("github.example.com", "owner", "repo", "wiki")))
	// settings is only reserved by default
	assert.NotNil(t, id.Identify(loc("github.example.com", "settings", "profile")))

	ref := id.Identify(loc("github.example.com", "owner", "repo"))
	require.NotNil(t, ref)
	assert.Equal(t, "https://github.example.com/owner/repo", ref.CanonicalURL)
}

func TestIdentifyURL(t *testing.T) {
	id := New(DefaultRules())

	ref := id.IdentifyURL("https://github.com/golang/go/issues?q=is%3Aopen")
	require.NotNil(t, ref)
	assert.Equal(t, "golang/go", ref.FullName)

	assert.Nil(t, id.IdentifyURL(""))
	assert.Nil(t, id.IdentifyURL("https://github.com/golang"))
}
