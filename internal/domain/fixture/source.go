package fixture

import (
	"context"
	"time"
)

// Source is the authoritative match data provider. Dates are calendar days
// in the provider timezone.
type Source interface {
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)
	ListLive(ctx context.Context) ([]Record, error)
	ListByDateAndStatus(ctx context.Context, date time.Time, shortCodes []string) ([]Record, error)
	GetByID(ctx context.Context, id int64) (Record, bool, error)
	ListLineups(ctx context.Context, id int64) ([]Lineup, error)
	ListStatistics(ctx context.Context, id int64) ([]TeamStatistics, error)
	ListEvents(ctx context.Context, id int64) ([]Event, error)
	GetPrediction(ctx context.Context, id int64) (*Prediction, error)
	GetOdds(ctx context.Context, id int64) (*Odds, error)
	Ping(ctx context.Context) error
}
