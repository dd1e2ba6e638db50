package domain

import "time"

// Launch Library 2 status codes.
const (
	StatusGo             = 1
	StatusTBD            = 2
	StatusSuccess        = 3
	StatusFailure        = 4
	StatusHold           = 5
	StatusInFlight       = 6
	StatusPartialFailure = 7
	StatusTBC            = 8
)

// LaunchRecord is the canonical, provider-independent snapshot of one launch.
// Records are immutable; a provider refresh replaces the whole collection.
type LaunchRecord struct {
	ID                 int64  // internal sequence id, assigned by the cache
	LLID               string // stable Launch Library id
	Name               string
	Status             int
	Payload            string
	Vehicle            string
	Location           string
	NET                time.Time // authoritative launch instant (UTC)
	LaunchWindow       time.Duration
	MissionType        string
	MissionDescription string
	Provider           string
	VidURLs            []VidURL
	RocketImg          string
}

// VidURL is one stream/recording link attached to a launch.
type VidURL struct {
	Priority int    `json:"priority"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// IsScrubbed reports whether the status indicates a delay or scrub.
func (l LaunchRecord) IsScrubbed() bool {
	return l.Status == StatusTBD || l.Status == StatusHold || l.Status == StatusTBC
}

// HasOutcome reports whether the launch has concluded with a known outcome.
func (l LaunchRecord) HasOutcome() bool {
	return l.Status == StatusSuccess || l.Status == StatusFailure || l.Status == StatusPartialFailure
}
