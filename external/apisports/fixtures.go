package apisports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
)

var _ fixture.Source = (*Client)(nil)

func (c *Client) formatDate(date time.Time) string {
	return date.In(c.location).Format(time.DateOnly)
}

func (c *Client) ListByDate(ctx context.Context, date time.Time) ([]fixture.Record, error) {
	items, err := getList[fixturePayload](ctx, c, "/fixtures", map[string]string{
		"date":     c.formatDate(date),
		"timezone": c.timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", c.formatDate(date), err)
	}
	return mapFixtures(items), nil
}

func (c *Client) ListLive(ctx context.Context) ([]fixture.Record, error) {
	items, err := getList[fixturePayload](ctx, c, "/fixtures", map[string]string{
		"live":     "all",
		"timezone": c.timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}
	return mapFixtures(items), nil
}

func (c *Client) ListByDateAndStatus(ctx context.Context, date time.Time, shortCodes []string) ([]fixture.Record, error) {
	codes := statusCodes(shortCodes)
	if codes == "" {
		return c.ListByDate(ctx, date)
	}

	items, err := getList[fixturePayload](ctx, c, "/fixtures", map[string]string{
		"date":     c.formatDate(date),
		"status":   codes,
		"timezone": c.timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s status=%s: %w", c.formatDate(date), codes, err)
	}
	return mapFixtures(items), nil
}

// statusCodes joins short status codes the way the provider expects them,
// upper-cased and dash separated.
func statusCodes(shortCodes []string) string {
	codes := make([]string, 0, len(shortCodes))
	for _, code := range shortCodes {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, "-")
}

// GetByID reports found=false when the provider returns an empty list.
func (c *Client) GetByID(ctx context.Context, id int64) (fixture.Record, bool, error) {
	items, err := getList[fixturePayload](ctx, c, "/fixtures", map[string]string{
		"id":       strconv.FormatInt(id, 10),
		"timezone": c.timezone,
	})
	if err != nil {
		return fixture.Record{}, false, fmt.Errorf("fetch fixture id=%d: %w", id, err)
	}
	records := mapFixtures(items)
	if len(records) == 0 {
		return fixture.Record{}, false, nil
	}
	return records[0], true, nil
}

func fixtureQuery(id int64) map[string]string {
	return map[string]string{"fixture": strconv.FormatInt(id, 10)}
}

func (c *Client) ListLineups(ctx context.Context, id int64) ([]fixture.Lineup, error) {
	items, err := getList[lineupPayload](ctx, c, "/fixtures/lineups", fixtureQuery(id))
	if err != nil {
		return nil, fmt.Errorf("fetch lineups fixture=%d: %w", id, err)
	}
	return mapLineups(items), nil
}

func (c *Client) ListStatistics(ctx context.Context, id int64) ([]fixture.TeamStatistics, error) {
	items, err := getList[statisticsPayload](ctx, c, "/fixtures/statistics", fixtureQuery(id))
	if err != nil {
		return nil, fmt.Errorf("fetch statistics fixture=%d: %w", id, err)
	}
	return mapStatistics(items), nil
}

func (c *Client) ListEvents(ctx context.Context, id int64) ([]fixture.Event, error) {
	items, err := getList[eventPayload](ctx, c, "/fixtures/events", fixtureQuery(id))
	if err != nil {
		return nil, fmt.Errorf("fetch events fixture=%d: %w", id, err)
	}
	return mapEvents(items), nil
}

// GetPrediction returns nil when the provider has no prediction.
func (c *Client) GetPrediction(ctx context.Context, id int64) (*fixture.Prediction, error) {
	items, err := getList[predictionPayload](ctx, c, "/predictions", fixtureQuery(id))
	if err != nil {
		return nil, fmt.Errorf("fetch prediction fixture=%d: %w", id, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return mapPrediction(items[0]), nil
}

func (c *Client) GetOdds(ctx context.Context, id int64) (*fixture.Odds, error) {
	items, err := getList[oddsPayload](ctx, c, "/odds", fixtureQuery(id))
	if err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", id, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return mapOdds(items[0]), nil
}

// Ping calls the account status endpoint, which does not count against the
// daily quota.
func (c *Client) Ping(ctx context.Context) error {
	var out envelope[any]
	if err := c.doJSON(ctx, "/status", nil, &out); err != nil {
		return fmt.Errorf("ping api-football: %w", err)
	}
	return nil
}
