package broadcast

import (
	"context"
	"time"
)

// Candidate is a match-like row scraped from a broadcast listing. Every
// field is untrusted text.
type Candidate struct {
	HomeName      string    `json:"homeName"`
	AwayName      string    `json:"awayName"`
	VenueName     string    `json:"venueName,omitempty"`
	BroadcastText string    `json:"broadcast"`
	StatusText    string    `json:"status,omitempty"`
	KickoffText   string    `json:"kickoff,omitempty"`
	Competition   string    `json:"competition,omitempty"`
	ScrapedAt     time.Time `json:"scrapedAt"`
}

type Strategy string

const (
	StrategyStadium      Strategy = "stadium"
	StrategyExactNames   Strategy = "exactNames"
	StrategyPartialNames Strategy = "partialNames"
	StrategyNone         Strategy = "none"
)

// Correlation links one candidate to at most one fixture. FixtureID is nil
// when nothing matched, which is a normal outcome.
type Correlation struct {
	Candidate Candidate
	FixtureID *int64
	Strategy  Strategy
	MatchURL  string
}

func (c Correlation) Matched() bool {
	return c.FixtureID != nil
}

// Source produces the full candidate list of one listing.
type Source interface {
	Name() string
	FetchCandidates(ctx context.Context) ([]Candidate, error)
}
