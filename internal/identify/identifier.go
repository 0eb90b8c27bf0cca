// Package identify decides whether a page location belongs to a repository.
package identify

import (
	"strings"

	"repolines/internal/domain"
	"repolines/logging"
)

// DefaultSiteDomain is the code-hosting site the widget runs on
const DefaultSiteDomain = "github.com"

// DefaultReservedOwners are site-level routes that look like an owner segment
var DefaultReservedOwners = []string{"settings", "notifications", "explore", "marketplace"}

// DefaultSubPages are third segments that still belong to a repository page
var DefaultSubPages = []string{
	"tree", "blob", "commits", "releases", "issues", "pull",
	"actions", "projects", "wiki", "security", "insights", "settings",
}

// Rules is the data the identifier matches against
type Rules struct {
	ReservedOwners []string
	SiteDomain     string
	SubPages       []string
}

// DefaultRules returns the built-in rules
func DefaultRules() Rules {
	return Rules{
		ReservedOwners: append([]string(nil), DefaultReservedOwners...),
		SiteDomain:     DefaultSiteDomain,
		SubPages:       append([]string(nil), DefaultSubPages...),
	}
}

// Identifier maps locations to repositories. It is immutable and safe for concurrent use.
type Identifier struct {
	reserved   map[string]bool
	siteDomain string
	subPages   map[string]bool
}

// New builds an Identifier; empty rule fields fall back to the defaults
func New(rules Rules) *Identifier {
	defaults := DefaultRules()
	if rules.SiteDomain == "" {
		rules.SiteDomain = defaults.SiteDomain
	}
	if len(rules.ReservedOwners) == 0 {
		rules.ReservedOwners = defaults.ReservedOwners
	}
	if len(rules.SubPages) == 0 {
		rules.SubPages = defaults.SubPages
	}

	return &Identifier{
		reserved:   toSet(rules.ReservedOwners),
		siteDomain: strings.ToLower(rules.SiteDomain),
		subPages:   toSet(rules.SubPages),
	}
}

// SiteDomain returns the domain the identifier accepts
func (i *Identifier) SiteDomain() string {
	return i.siteDomain
}

// Identify returns the repository for loc, or nil when loc is not a repository page
func (i *Identifier) Identify(loc domain.Location) *domain.RepositoryRef {
	segments := loc.Segments()

	if loc.Hostname != i.siteDomain || len(segments) < 2 {
		return nil
	}

	// Site routes such as /settings/profile are never owners
	if i.reserved[segments[0]] {
		return nil
	}

	// Deeper paths must be a known repository sub-page
	if len(segments) > 2 && !i.subPages[segments[2]] {
		return nil
	}

	ref := domain.NewRepositoryRef(i.siteDomain, segments[0], segments[1])
	return &ref
}

// IdentifyURL parses raw and identifies it; unparsable input is not a repository
func (i *Identifier) IdentifyURL(raw string) *domain.RepositoryRef {
	loc, err := domain.ParseLocation(raw)
	if err != nil {
		logging.Logger.Debug("Ignoring unparsable location", "location", raw, "error", err)
		return nil
	}

	ref := i.Identify(loc)
	logging.Logger.Debug("Identified location",
		"location", raw,
		"repository", ref)
	return ref
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}
