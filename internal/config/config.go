package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	APISportsBaseURL               string
	APISportsKey                   string
	APISportsTimezone              string
	APISportsTimeout               time.Duration
	APISportsMaxRetries            int
	APISportsRetryBaseDelay        time.Duration
	APISportsRetryMaxDelay         time.Duration
	APISportsRetryMultiplier       float64
	APISportsRetryRateLimited      bool
	APISportsCircuitEnabled        bool
	APISportsCircuitFailureCount   int
	APISportsCircuitOpenTimeout    time.Duration
	APISportsCircuitHalfOpenMaxReq int
	StatusTimeout                  time.Duration

	FixtureCacheTTL time.Duration
	LiveCacheTTL    time.Duration
	AliasesFile     string

	LeagueSeason       int
	LeaguePriority     []int64
	LeagueCacheTTL     time.Duration
	LeagueTimeout      time.Duration
	LeagueUpcomingDays int

	ImageMaxConcurrent int
	ImageMaxRetries    int
	ImageRetryDelay    time.Duration
	ImageTimeout       time.Duration
	ImageMaxBytes      int
	ImageAllowedHosts  []string

	BroadcastEnabled         bool
	BroadcastPageURL         string
	BroadcastProxyTemplate   string
	BroadcastTimeout         time.Duration
	BroadcastMinInterval     time.Duration
	BroadcastLookupTTL       time.Duration
	BroadcastCorrelationTTL  time.Duration
	BroadcastRefreshInterval time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

// Load reads the environment. Every value is validated; the first invalid
// one is returned as an error naming the variable.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	p := &parser{}
	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "matchcast-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		ReadTimeout:        p.positiveDuration("APP_READ_TIMEOUT", "10s"),
		WriteTimeout:       p.positiveDuration("APP_WRITE_TIMEOUT", "30s"),
		ShutdownTimeout:    p.positiveDuration("APP_SHUTDOWN_TIMEOUT", "15s"),
		LogLevel:           logLevel,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:     p.bool("SWAGGER_ENABLED", swaggerDefault),

		APISportsBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("APISPORTS_BASE_URL", "https://v3.football.api-sports.io")), "/"),
		APISportsKey:                   strings.TrimSpace(getEnv("APISPORTS_KEY", "")),
		APISportsTimezone:              strings.TrimSpace(getEnv("APISPORTS_TIMEZONE", "America/Sao_Paulo")),
		APISportsTimeout:               p.positiveDuration("APISPORTS_TIMEOUT", "10s"),
		APISportsMaxRetries:            p.nonNegativeInt("APISPORTS_MAX_RETRIES", 3),
		APISportsRetryBaseDelay:        p.positiveDuration("APISPORTS_RETRY_BASE_DELAY", "1s"),
		APISportsRetryMaxDelay:         p.positiveDuration("APISPORTS_RETRY_MAX_DELAY", "5s"),
		APISportsRetryMultiplier:       p.multiplier("APISPORTS_RETRY_MULTIPLIER", "1.5"),
		APISportsRetryRateLimited:      p.bool("APISPORTS_RETRY_RATE_LIMITED", "true"),
		APISportsCircuitEnabled:        p.bool("APISPORTS_CIRCUIT_ENABLED", "true"),
		APISportsCircuitFailureCount:   p.positiveInt("APISPORTS_CIRCUIT_FAILURE_COUNT", 5),
		APISportsCircuitOpenTimeout:    p.positiveDuration("APISPORTS_CIRCUIT_OPEN_TIMEOUT", "30s"),
		APISportsCircuitHalfOpenMaxReq: p.positiveInt("APISPORTS_CIRCUIT_HALF_OPEN_MAX_REQ", 1),
		StatusTimeout:                  p.positiveDuration("APISPORTS_STATUS_TIMEOUT", "5s"),

		FixtureCacheTTL: p.positiveDuration("FIXTURE_CACHE_TTL", "60s"),
		LiveCacheTTL:    p.positiveDuration("LIVE_CACHE_TTL", "15s"),
		AliasesFile:     strings.TrimSpace(getEnv("ALIASES_FILE", "")),

		LeagueSeason:       p.nonNegativeInt("LEAGUE_SEASON", 0),
		LeaguePriority:     p.ids("LEAGUE_PRIORITY"),
		LeagueCacheTTL:     p.positiveDuration("LEAGUE_CACHE_TTL", "10m"),
		LeagueTimeout:      p.positiveDuration("LEAGUE_TIMEOUT", "10s"),
		LeagueUpcomingDays: p.positiveInt("LEAGUE_UPCOMING_DAYS", 14),

		ImageMaxConcurrent: p.positiveInt("IMAGE_MAX_CONCURRENT", 5),
		ImageMaxRetries:    p.nonNegativeInt("IMAGE_MAX_RETRIES", 3),
		ImageRetryDelay:    p.positiveDuration("IMAGE_RETRY_DELAY", "1s"),
		ImageTimeout:       p.positiveDuration("IMAGE_TIMEOUT", "10s"),
		ImageMaxBytes:      p.positiveInt("IMAGE_MAX_BYTES", 4<<20),
		ImageAllowedHosts:  splitCSV(getEnv("IMAGE_ALLOWED_HOSTS", "media.api-sports.io")),

		BroadcastEnabled:         p.bool("BROADCAST_ENABLED", "true"),
		BroadcastPageURL:         strings.TrimSpace(getEnv("BROADCAST_PAGE_URL", "https://guiadejogos.com/")),
		BroadcastProxyTemplate:   strings.TrimSpace(getEnv("BROADCAST_PROXY_TEMPLATE", "https://api.allorigins.win/raw?url=%s")),
		BroadcastTimeout:         p.positiveDuration("BROADCAST_TIMEOUT", "5s"),
		BroadcastMinInterval:     p.positiveDuration("BROADCAST_MIN_INTERVAL", "2s"),
		BroadcastLookupTTL:       p.positiveDuration("BROADCAST_LOOKUP_TTL", "30m"),
		BroadcastCorrelationTTL:  p.positiveDuration("BROADCAST_CORRELATION_TTL", "5m"),
		BroadcastRefreshInterval: p.positiveDuration("BROADCAST_REFRESH_INTERVAL", "1h"),

		UptraceEnabled: p.bool("UPTRACE_ENABLED", "false"),
		UptraceDSN:     strings.TrimSpace(getEnv("UPTRACE_DSN", "")),

		PyroscopeEnabled:           p.bool("PYROSCOPE_ENABLED", "false"),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "matchcast-api")),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        p.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"),

		PprofEnabled: p.bool("PPROF_ENABLED", "false"),
		PprofAddr:    strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("APP_HTTP_ADDR is required")
	}
	if c.AppEnv == EnvProd && c.APISportsKey == "" {
		return fmt.Errorf("APISPORTS_KEY is required when APP_ENV=%s", EnvProd)
	}
	if err := validateHTTPURL("APISPORTS_BASE_URL", c.APISportsBaseURL); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.APISportsTimezone); err != nil {
		return fmt.Errorf("invalid APISPORTS_TIMEZONE %q: %w", c.APISportsTimezone, err)
	}
	if c.APISportsRetryMaxDelay < c.APISportsRetryBaseDelay {
		return fmt.Errorf("APISPORTS_RETRY_MAX_DELAY must be >= APISPORTS_RETRY_BASE_DELAY")
	}
	if c.BroadcastEnabled {
		if err := validateHTTPURL("BROADCAST_PAGE_URL", c.BroadcastPageURL); err != nil {
			return err
		}
		if c.BroadcastProxyTemplate != "-" && strings.Count(c.BroadcastProxyTemplate, "%s") != 1 {
			return fmt.Errorf("BROADCAST_PROXY_TEMPLATE must contain exactly one %%s, or be - for direct fetches")
		}
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled && c.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	return nil
}

// parser keeps the first parse error so Load can read every key in one
// literal.
type parser struct {
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) bool(key, fallback string) bool {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
	}
	return out
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
	}
	return out
}

// multiplier parses a backoff growth factor; below 1 the delays would shrink.
func (p *parser) multiplier(key, fallback string) float64 {
	out, err := strconv.ParseFloat(strings.TrimSpace(getEnv(key, fallback)), 64)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out < 1 {
		p.fail(fmt.Errorf("%s must be >= 1", key))
	}
	return out
}

func (p *parser) positiveInt(key string, fallback int) int {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
	}
	return out
}

func (p *parser) nonNegativeInt(key string, fallback int) int {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out < 0 {
		p.fail(fmt.Errorf("%s must be >= 0", key))
	}
	return out
}

// ids parses a comma separated list of positive ids. Unset is nil.
func (p *parser) ids(key string) []int64 {
	fields := splitCSV(getEnv(key, ""))
	if len(fields) == 0 {
		return nil
	}
	out := make([]int64, 0, len(fields))
	for _, field := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil || id <= 0 {
			p.fail(fmt.Errorf("%s: %q is not a positive id", key, field))
			return nil
		}
		out = append(out, id)
	}
	return out
}

func validateHTTPURL(key, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
