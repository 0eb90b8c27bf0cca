package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RepositoryRef identifies the repository a page belongs to.
// Values are immutable; two refs are the same repository when FullName matches.
type RepositoryRef struct {
	CanonicalURL string // https://<domain>/<owner>/<name>
	FullName     string // owner/name
	Name         string
	Owner        string
}

// NewRepositoryRef builds a RepositoryRef for a repository hosted on siteDomain
func NewRepositoryRef(siteDomain, owner, name string) RepositoryRef {
	return RepositoryRef{
		CanonicalURL: fmt.Sprintf("https://%s/%s/%s", siteDomain, owner, name),
		FullName:     owner + "/" + name,
		Name:         name,
		Owner:        owner,
	}
}

// Equal reports whether both refs name the same repository
func (r RepositoryRef) Equal(other RepositoryRef) bool {
	return r.FullName == other.FullName
}

// String returns the owner/name form
func (r RepositoryRef) String() string {
	return r.FullName
}

// SameRepository compares two optional refs. Two nil refs are the same.
func SameRepository(a, b *RepositoryRef) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

// Location is the part of a page address the identifier looks at
type Location struct {
	Hostname string
	Path     string
}

// ParseLocation splits a page URL into hostname and path.
// A missing scheme is tolerated ("github.com/owner/repo").
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}

	return Location{
		Hostname: strings.ToLower(u.Hostname()),
		Path:     u.Path,
	}, nil
}

// Segments returns the non-empty path segments
func (l Location) Segments() []string {
	parts := strings.Split(l.Path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// String renders the location as an https URL
func (l Location) String() string {
	return "https://" + l.Hostname + l.Path
}
