package statsclient

import (
	"fmt"
	"time"
)

// Schedule describes when status queries are issued while the server computes.
// It is immutable after construction.
type Schedule struct {
	Initial        time.Duration // wait before the first status query
	Base           time.Duration // base delay between not-ready answers
	Step           time.Duration // added per completed attempt
	Max            time.Duration // cap for the growing delay
	TransientDelay time.Duration // fixed delay after a failed status query
	MaxAttempts    int           // status queries before giving up
}

// DefaultSchedule returns the polling schedule the statistics server expects:
// first query after 2s, then min(2s + attempt*500ms, 10s), 5s after transport
// errors, 30 attempts in total (about five minutes).
func DefaultSchedule() Schedule {
	return Schedule{
		Initial:        2 * time.Second,
		Base:           2 * time.Second,
		Step:           500 * time.Millisecond,
		Max:            10 * time.Second,
		TransientDelay: 5 * time.Second,
		MaxAttempts:    30,
	}
}

// Delay returns the wait after the given number of completed not-ready attempts (1-based).
func (s Schedule) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return s.Initial
	}
	d := s.Base + time.Duration(attempt)*s.Step
	if d > s.Max {
		return s.Max
	}
	return d
}

// Validate ensures the schedule can be applied
func (s Schedule) Validate() error {
	if s.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be >0")
	}
	if s.Initial < 0 || s.Base < 0 || s.Step < 0 || s.TransientDelay < 0 {
		return fmt.Errorf("delays must be >=0")
	}
	if s.Max < s.Base {
		return fmt.Errorf("max (%s) must be >= base (%s)", s.Max, s.Base)
	}
	return nil
}
