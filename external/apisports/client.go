// Package apisports is the api-football v3 client behind fixture.Source.
package apisports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const (
	source          = "apisports"
	defaultBaseURL  = "https://v3.football.api-sports.io"
	defaultTimezone = "America/Sao_Paulo"
	defaultTimeout  = 10 * time.Second
	maxBodyBytes    = 6 << 20
	apiKeyHeader    = "x-apisports-key"
)

var apiKeyParamRegex = regexp.MustCompile(`(?i)(x-apisports-key|api_key|key)=[^&\s"']+`)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timezone       string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
	FetcherOptions []resilience.FetcherOption
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timezone   string
	location   *time.Location
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	fetcher    *resilience.Fetcher
	flight     resilience.InFlight[string, []byte]
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := logging.OrDefault(cfg.Logger).Named(source)

	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker, resilience.WithStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("apisports circuit breaker state changed", "from", from, "to", to)
	}))

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timezone:   timezone,
		location:   location,
		logger:     logger,
		breaker:    breaker,
		fetcher:    resilience.NewFetcher(source, cfg.Retry, logger, cfg.FetcherOptions...),
	}, nil
}

// Location is the zone used for calendar dates sent to the provider.
func (c *Client) Location() *time.Location {
	return c.location
}

// envelope is the api-football response wrapper. Errors is either an empty
// array or an object keyed by error name.
type envelope[T any] struct {
	Response T   `json:"response"`
	Errors   any `json:"errors"`
	Results  int `json:"results"`
}

type envelopeHeader struct {
	Errors  any `json:"errors"`
	Results int `json:"results"`
}

// getList fetches path and decodes the response array.
func getList[T any](ctx context.Context, c *Client, path string, query map[string]string) ([]T, error) {
	var out envelope[[]T]
	if err := c.doJSON(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out.Response, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Only the leader of a deduplicated call takes a breaker slot, so every
	// Allow is paired with exactly one Record. The request runs detached from
	// ctx; the client timeout bounds it.
	raw, err, _ := c.flight.Do(ctx, path+"?"+values.Encode(), func(ctx context.Context) ([]byte, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "apisports circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return nil, resilience.NewFetchError(source, resilience.KindCircuitOpen, err)
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr == nil {
			reqErr = checkEnvelope(raw)
		}
		c.breaker.Record(reqErr)
		return raw, reqErr
	})
	if err != nil && ctx.Err() != nil && resilience.KindOf(err) == "" {
		err = resilience.NewFetchError(source, resilience.KindCanceled, err)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "apisports request failed",
			"path", path,
			"kind", string(resilience.KindOf(err)),
			"error", c.sanitize(err.Error()),
		)
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return resilience.NewFetchError(source, resilience.KindMalformed, crerr.Wrapf(err, "decode %s", path))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, resilience.NewFetchError(source, resilience.KindClient, crerr.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.fetcher.Do(ctx, func(ctx context.Context, _ int) (*resilience.Response, error) {
		res, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		return &resilience.Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// checkEnvelope turns a populated errors field into a FetchError. The
// provider answers 200 for quota and token problems.
func checkEnvelope(raw []byte) error {
	var header envelopeHeader
	if err := sonic.Unmarshal(raw, &header); err != nil {
		return resilience.NewFetchError(source, resilience.KindMalformed, crerr.Wrap(err, "decode envelope"))
	}

	messages := envelopeMessages(header.Errors)
	if len(messages) == 0 {
		return nil
	}

	kind := resilience.KindClient
	joined := strings.Join(messages, "; ")
	lower := strings.ToLower(joined)
	for _, hint := range []string{"ratelimit", "rate limit", "request limit", "too many requests", "requests:"} {
		if strings.Contains(lower, hint) {
			kind = resilience.KindRateLimited
			break
		}
	}
	return resilience.NewFetchError(source, kind, crerr.Newf("provider errors: %s", joined))
}

func envelopeMessages(errs any) []string {
	switch v := errs.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{strings.TrimSpace(v)}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if text := strings.TrimSpace(fmt.Sprint(item)); text != "" {
				out = append(out, text)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, key := range keys {
			out = append(out, fmt.Sprintf("%s: %v", key, v[key]))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "$1=REDACTED")
}
