package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"

	"review_insights/internal/domain"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	APIBase     string
	SiteBase    string
	MaxReviews  int
	Delay       time.Duration
	Sort        string
	RPS         int
	ProxyHTTP   string
	ProxyHTTPS  string
	OutputDir   string
	CacheTTL    time.Duration
}

// Load reads the environment, after merging an optional .env file from the working directory.
func Load() Config {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be parsed, using OS environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		MySQLDSN:    os.Getenv("MYSQL_DSN"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		APIBase:     env("REVIEWS_API_BASE", "https://www.bestbuy.ca/api/reviews/v2"),
		SiteBase:    env("REVIEWS_SITE_BASE", "https://www.bestbuy.ca/en-ca/product"),
		MaxReviews:  atoi("REVIEWS_MAX", domain.DefaultMaxReviews),
		Delay:       time.Duration(atoi("REVIEWS_DELAY_MS", int(domain.DefaultDelay/time.Millisecond))) * time.Millisecond,
		Sort:        env("REVIEWS_SORT", string(domain.SortRelevancy)),
		RPS:         atoi("REVIEWS_RPS", 5),
		ProxyHTTP:   os.Getenv("PROXY_HTTP"),
		ProxyHTTPS:  os.Getenv("PROXY_HTTPS"),
		OutputDir:   env("OUTPUT_DIR", "."),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.ProxyHTTP == "" && c.ProxyHTTPS == "" {
		log.Debug().Msg("no proxy configured, connecting directly")
	}
	return c
}

// FetchConfig builds the immutable per-run parameters for one product.
func (c Config) FetchConfig(productID string) (domain.FetchConfig, error) {
	sort, err := domain.ParseSortOrder(c.Sort)
	if err != nil {
		return domain.FetchConfig{}, err
	}
	fc := domain.NewFetchConfig(productID)
	fc.MaxReviews = c.MaxReviews
	fc.Delay = c.Delay
	fc.Sort = sort
	fc.Proxy = domain.ProxyConfig{HTTP: c.ProxyHTTP, HTTPS: c.ProxyHTTPS}
	return fc, fc.Validate()
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
