package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/imageloader"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/usecase"
)

const imageCacheControl = "public, max-age=86400"

// ImageLoader is the subset of imageloader.Loader the image proxy needs.
type ImageLoader interface {
	Load(ctx context.Context, url string) (imageloader.Image, error)
	Stats() imageloader.Stats
}

type Handler struct {
	fixtureService   *usecase.FixtureService
	leagueService    *usecase.LeagueService
	broadcastService *usecase.BroadcastService
	statusService    *usecase.StatusService
	images           ImageLoader
	imageHosts       map[string]struct{}
	logger           *logging.Logger
	validator        *validator.Validate
}

// NewHandler wires the services behind the HTTP API. broadcastService may be
// nil when the broadcast listing is disabled. An empty imageHosts allows any
// http(s) image host.
func NewHandler(
	fixtureService *usecase.FixtureService,
	leagueService *usecase.LeagueService,
	broadcastService *usecase.BroadcastService,
	statusService *usecase.StatusService,
	images ImageLoader,
	imageHosts []string,
	logger *logging.Logger,
) *Handler {
	hosts := make(map[string]struct{}, len(imageHosts))
	for _, host := range imageHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hosts[host] = struct{}{}
		}
	}

	return &Handler{
		fixtureService:   fixtureService,
		leagueService:    leagueService,
		broadcastService: broadcastService,
		statusService:    statusService,
		images:           images,
		imageHosts:       hosts,
		logger:           logging.OrDefault(logger).Named("httpapi"),
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetStatus")
	defer span.End()

	out := statusDTO{
		Upstream:         h.statusService.Check(ctx),
		BroadcastEnabled: h.broadcastService != nil,
	}
	if h.images != nil {
		stats := h.images.Stats()
		out.Images = &stats
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListMatchesByDate")
	defer span.End()

	req := matchesByDateRequest{Date: strings.TrimSpace(r.URL.Query().Get("date"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, req.Date, h.fixtureService.Location())
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	records, err := h.fixtureService.GetMatchesByDate(ctx, date.Add(12*time.Hour))
	h.writeMatches(ctx, w, "list matches by date failed", records, err)
}

func (h *Handler) ListTodayMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTodayMatches")
	defer span.End()

	records, err := h.fixtureService.GetTodayMatches(ctx)
	h.writeMatches(ctx, w, "list today matches failed", records, err)
}

func (h *Handler) ListTomorrowMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTomorrowMatches")
	defer span.End()

	records, err := h.fixtureService.GetTomorrowMatches(ctx)
	h.writeMatches(ctx, w, "list tomorrow matches failed", records, err)
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListLiveMatches")
	defer span.End()

	records, err := h.fixtureService.GetLiveMatches(ctx)
	h.writeMatches(ctx, w, "list live matches failed", records, err)
}

func (h *Handler) ListFinishedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListFinishedMatches")
	defer span.End()

	records, err := h.fixtureService.GetFinishedMatches(ctx)
	h.writeMatches(ctx, w, "list finished matches failed", records, err)
}

func (h *Handler) writeMatches(ctx context.Context, w http.ResponseWriter, failure string, records []fixture.Record, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, failure, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(records))
	for _, record := range records {
		items = append(items, h.matchToDTO(record))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetMatch")
	defer span.End()

	id, err := pathID(r, "matchID", "match")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.writeMatchDetails(ctx, w, id)
}

func (h *Handler) GetMatchByURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetMatchByURL")
	defer span.End()

	key := r.PathValue("key")
	id, err := h.fixtureService.ResolveMatchURL(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match url failed", "key", key, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.writeMatchDetails(ctx, w, id)
}

func (h *Handler) writeMatchDetails(ctx context.Context, w http.ResponseWriter, id int64) {
	details, err := h.fixtureService.GetMatchDetails(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get match details failed", "fixture_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := h.detailsToDTO(details)
	if h.broadcastService != nil {
		// Broadcast info is decoration; a scrape failure never fails the match.
		text, found, err := h.broadcastService.FindBroadcastInfo(ctx, details.HomeTeam, details.AwayTeam)
		switch {
		case err != nil:
			h.logger.WarnContext(ctx, "broadcast lookup failed", "fixture_id", id, "error", err)
		case found:
			out.Broadcast = &text
		}
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListBroadcasts")
	defer span.End()

	if h.broadcastService == nil {
		writeError(ctx, w, errBroadcastDisabled)
		return
	}
	correlations, err := h.broadcastService.CorrelatedCandidates(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list broadcasts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]correlationDTO, 0, len(correlations))
	for _, c := range correlations {
		items = append(items, correlationToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LookupBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "LookupBroadcast")
	defer span.End()

	if h.broadcastService == nil {
		writeError(ctx, w, errBroadcastDisabled)
		return
	}
	query := r.URL.Query()
	req := broadcastLookupRequest{
		Home: strings.TrimSpace(query.Get("home")),
		Away: strings.TrimSpace(query.Get("away")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	text, found, err := h.broadcastService.FindBroadcastInfo(ctx, req.Home, req.Away)
	if err != nil {
		h.logger.WarnContext(ctx, "broadcast lookup failed", "home", req.Home, "away", req.Away, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, broadcastLookupDTO{
		Home:      req.Home,
		Away:      req.Away,
		Found:     found,
		Broadcast: text,
	})
}

// GetImage proxies a remote image through the shared loader. A failed load
// is a 502; the loader keeps the failure until the URL is evicted.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetImage")
	defer span.End()

	req := imageRequest{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.checkImageHost(req.URL); err != nil {
		writeError(ctx, w, err)
		return
	}

	img, err := h.images.Load(ctx, req.URL)
	if err != nil {
		h.logger.WarnContext(ctx, "image load failed", "url", req.URL, "error", err)
		writeError(ctx, w, err)
		return
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

func (h *Handler) checkImageHost(raw string) error {
	if len(h.imageHosts) == 0 {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid image url", usecase.ErrInvalidInput)
	}
	if _, ok := h.imageHosts[strings.ToLower(parsed.Hostname())]; !ok {
		return fmt.Errorf("%w: image host %q is not allowed", usecase.ErrInvalidInput, parsed.Hostname())
	}
	return nil
}
