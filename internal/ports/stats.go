package ports

import (
	"context"

	"repolines/internal/domain"
)

// StatsFetcher runs the statistics protocol for one repository.
// progress receives intermediate outcomes; the return value is terminal.
// Cancelling ctx stops any pending poll timer.
type StatsFetcher interface {
	Fetch(ctx context.Context, baseURL string, repo domain.RepositoryRef, progress func(domain.Outcome)) domain.Outcome
}

// RepositoryIdentifier maps a page location to a repository
type RepositoryIdentifier interface {
	IdentifyURL(raw string) *domain.RepositoryRef
}

// LocationProvider returns the current page location
type LocationProvider interface {
	Location() string
}
