package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stats is the statistic reported by the remote server for a repository
type Stats struct {
	Cached     bool
	TotalFiles int64
	TotalLines int64
}

// OutcomeKind tells terminal and intermediate fetch outcomes apart
type OutcomeKind string

const (
	OutcomeFailure    OutcomeKind = "failure"
	OutcomeProcessing OutcomeKind = "processing"
	OutcomeReady      OutcomeKind = "ready"
)

// Outcome is the result of a statistics fetch.
// Processing is only ever reported as progress; Fetch returns Ready or Failure.
type Outcome struct {
	Err   error
	Kind  OutcomeKind
	Stats *Stats
}

// Ready wraps a finished statistic
func Ready(stats Stats) Outcome {
	return Outcome{Kind: OutcomeReady, Stats: &stats}
}

// Processing reports that the server is still computing
func Processing() Outcome {
	return Outcome{Kind: OutcomeProcessing}
}

// Failure wraps a fetch error
func Failure(err error) Outcome {
	return Outcome{Err: err, Kind: OutcomeFailure}
}

// PollSession tracks one in-flight fetch for one repository.
// At most one session is live at a time; the widget controller owns it.
type PollSession struct {
	Attempt    int
	ID         string
	Repository RepositoryRef
	StartedAt  time.Time
}

// NewPollSession starts a session for repo at the given time
func NewPollSession(repo RepositoryRef, now time.Time) *PollSession {
	return &PollSession{
		ID:         uuid.New().String(),
		Repository: repo,
		StartedAt:  now,
	}
}

// ServerConfig is the statistics server the widget talks to
type ServerConfig struct {
	BaseURL string
}

// Configured reports whether a server address is set
func (c ServerConfig) Configured() bool {
	return c.BaseURL != ""
}
