// Package guiajogos scrapes the guiadejogos.com listing for broadcast
// candidates.
package guiajogos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/matchcast/internal/domain/broadcast"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const (
	sourceName           = "guiadejogos"
	DefaultPageURL       = "https://guiadejogos.com/"
	DefaultProxyTemplate = "https://api.allorigins.win/raw?url=%s"
	defaultTimeout       = 5 * time.Second
	defaultMinInterval   = 2 * time.Second
	defaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxPageBytes         = 4 << 20
)

type Config struct {
	HTTPClient *http.Client
	PageURL    string
	// ProxyTemplate wraps the escaped page URL, e.g. a CORS relay. Set it to
	// "-" to fetch the page directly.
	ProxyTemplate  string
	Timeout        time.Duration
	MinInterval    time.Duration
	UserAgent      string
	Selectors      Selectors
	Retry          *resilience.RetryPolicy
	Logger         *logging.Logger
	FetcherOptions []resilience.FetcherOption
	Now            func() time.Time
}

type Source struct {
	httpClient *http.Client
	target     string
	userAgent  string
	selectors  Selectors
	limiter    *rate.Limiter
	fetcher    *resilience.Fetcher
	logger     *logging.Logger
	now        func() time.Time
}

var _ broadcast.Source = (*Source)(nil)

func NewSource(cfg Config) *Source {
	logger := logging.OrDefault(cfg.Logger).Named(sourceName)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	interval := cfg.MinInterval
	if interval <= 0 {
		interval = defaultMinInterval
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	policy := resilience.FixedRetryPolicy(2, time.Second)
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Source{
		httpClient: httpClient,
		target:     buildTarget(cfg.PageURL, cfg.ProxyTemplate),
		userAgent:  userAgent,
		selectors:  cfg.Selectors.withDefaults(),
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		fetcher:    resilience.NewFetcher(sourceName, policy, logger, cfg.FetcherOptions...),
		logger:     logger,
		now:        now,
	}
}

func buildTarget(pageURL, proxyTemplate string) string {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	proxyTemplate = strings.TrimSpace(proxyTemplate)
	switch proxyTemplate {
	case "-":
		return pageURL
	case "":
		proxyTemplate = DefaultProxyTemplate
	}
	return fmt.Sprintf(proxyTemplate, url.QueryEscape(pageURL))
}

func (s *Source) Name() string {
	return sourceName
}

// Target is the URL actually requested.
func (s *Source) Target() string {
	return s.target
}

func (s *Source) FetchCandidates(ctx context.Context) ([]broadcast.Candidate, error) {
	req, err := http.NewRequest(http.MethodGet, s.target, nil)
	if err != nil {
		return nil, resilience.NewFetchError(sourceName, resilience.KindClient, crerr.Wrap(err, "build request"))
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	resp, err := s.fetcher.Do(ctx, func(ctx context.Context, _ int) (*resilience.Response, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := s.httpClient.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, maxPageBytes))
		if err != nil {
			return nil, err
		}
		return &resilience.Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "broadcast listing fetch failed", "target", s.target, "error", err)
		return nil, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, resilience.NewFetchError(sourceName, resilience.KindMalformed, crerr.New("empty listing page"))
	}

	candidates, err := Parse(bytes.NewReader(resp.Body), s.selectors, s.now())
	if err != nil {
		return nil, resilience.NewFetchError(sourceName, resilience.KindMalformed, crerr.Wrap(err, "parse listing page"))
	}
	s.logger.DebugContext(ctx, "broadcast listing scraped", "candidates", len(candidates))
	return candidates, nil
}
