package broadcast

import (
	"strings"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/normalize"
)

// Correlator links scraped candidates to authoritative fixtures.
//
// For each candidate the first rule that matches wins:
//  1. stadium: normalized venues are equal or one contains the other;
//  2. names: normalized team names are equal in either orientation
//     (exactNames), or each side contains the other (partialNames).
//
// Ties go to the first fixture in input order. There is no scoring, so two
// fixtures at the same venue on the same list resolve to whichever comes
// first.
type Correlator struct {
	normalizer *normalize.Normalizer
}

func NewCorrelator(normalizer *normalize.Normalizer) *Correlator {
	if normalizer == nil {
		normalizer = normalize.MustNew()
	}
	return &Correlator{normalizer: normalizer}
}

type fixtureKeys struct {
	id    int64
	venue string
	home  string
	away  string
}

type nameKeys struct {
	home string
	away string
}

func (c *Correlator) Correlate(candidates []Candidate, fixtures []fixture.Record) []Correlation {
	keys := make([]fixtureKeys, 0, len(fixtures))
	for _, f := range fixtures {
		keys = append(keys, fixtureKeys{
			id:    f.ID,
			venue: c.normalizer.Venue(f.Venue),
			home:  c.normalizer.Name(f.HomeTeam),
			away:  c.normalizer.Name(f.AwayTeam),
		})
	}

	out := make([]Correlation, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, c.correlate(candidate, keys))
	}
	return out
}

func (c *Correlator) correlate(candidate Candidate, fixtures []fixtureKeys) Correlation {
	result := Correlation{Candidate: candidate, Strategy: StrategyNone}

	if venue := c.normalizer.Venue(candidate.VenueName); venue != "" {
		for _, f := range fixtures {
			if overlaps(venue, f.venue) {
				result.FixtureID = idPtr(f.id)
				result.Strategy = StrategyStadium
				return result
			}
		}
	}

	names := nameKeys{
		home: c.normalizer.Name(candidate.HomeName),
		away: c.normalizer.Name(candidate.AwayName),
	}
	if names.home == "" || names.away == "" {
		return result
	}
	for _, f := range fixtures {
		if strategy := matchNames(names, f); strategy != StrategyNone {
			result.FixtureID = idPtr(f.id)
			result.Strategy = strategy
			return result
		}
	}
	return result
}

func matchNames(names nameKeys, f fixtureKeys) Strategy {
	if f.home == "" || f.away == "" {
		return StrategyNone
	}
	if (names.home == f.home && names.away == f.away) || (names.home == f.away && names.away == f.home) {
		return StrategyExactNames
	}
	if overlaps(names.home, f.home) && overlaps(names.away, f.away) {
		return StrategyPartialNames
	}
	return StrategyNone
}

// FindBroadcast returns the first candidate playing home against away, in
// either orientation, comparing cleaned and normalized names for equality.
func (c *Correlator) FindBroadcast(home, away string, candidates []Candidate) (Candidate, bool) {
	want := nameKeys{
		home: c.normalizer.Name(normalize.CleanTeamName(home)),
		away: c.normalizer.Name(normalize.CleanTeamName(away)),
	}
	if want.home == "" || want.away == "" {
		return Candidate{}, false
	}

	for _, candidate := range candidates {
		got := nameKeys{
			home: c.normalizer.Name(normalize.CleanTeamName(candidate.HomeName)),
			away: c.normalizer.Name(normalize.CleanTeamName(candidate.AwayName)),
		}
		if (got.home == want.home && got.away == want.away) || (got.home == want.away && got.away == want.home) {
			return candidate, true
		}
	}
	return Candidate{}, false
}

// overlaps is true when a and b are non-empty and one contains the other.
func overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func idPtr(id int64) *int64 {
	return &id
}
