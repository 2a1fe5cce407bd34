package fixture

import (
	"time"

	"github.com/riskibarqy/matchcast/internal/platform/normalize"
)

const URLPrefix = "/jogo/"

// URLKey builds the public key of a match page:
// "<league>/<home>-vs-<away>-<dd-MM-yyyy>", the date in loc.
func URLKey(r Record, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return normalize.Slug(r.League) + "/" +
		normalize.Slug(r.HomeTeam) + "-vs-" + normalize.Slug(r.AwayTeam) + "-" +
		r.KickoffAt.In(loc).Format("02-01-2006")
}
