// internal/adapters/bestbuy/client.go
package bestbuy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
	"review_insights/internal/shared"
)

const (
	service        = "bestbuy"
	defaultTimeout = 15 * time.Second
)

type Options struct {
	BaseURL    string // review API root, e.g. https://www.bestbuy.ca/api/reviews/v2
	SiteURL    string // product page root, used for Referer
	Proxy      domain.ProxyConfig
	Timeout    time.Duration // per attempt; 15s when zero
	RPS        int           // client-side ceiling; 5 when <= 0
	Policy     RetryPolicy   // DefaultRetryPolicy when MaxAttempts is zero
	Identities *Rotator      // DefaultUserAgents when nil
}

type Client struct {
	base    string
	site    string
	timeout time.Duration
	hc      *http.Client // routes through Options.Proxy
	rl      *rate.Limiter
	ids     *Rotator
	policy  RetryPolicy

	mu     sync.Mutex
	routed map[domain.ProxyConfig]*http.Client // per-run proxy overrides, built on first use
}

func New(o Options) (*Client, error) {
	if o.BaseURL == "" {
		return nil, errors.New("review API base URL is required")
	}
	if u, err := url.Parse(o.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid review API base URL %q", o.BaseURL)
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc, err := newHTTPClient(o.Proxy, o.Timeout)
	if err != nil {
		return nil, err
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Policy.MaxAttempts <= 0 {
		o.Policy = DefaultRetryPolicy()
	}
	if o.Identities == nil {
		o.Identities = NewRotator()
	}

	c := &Client{
		base:    strings.TrimRight(o.BaseURL, "/"),
		site:    strings.TrimRight(o.SiteURL, "/"),
		timeout: o.Timeout,
		hc:      hc,
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		ids:     o.Identities,
		policy:  o.Policy,
		routed:  map[domain.ProxyConfig]*http.Client{},
	}
	if o.Proxy != (domain.ProxyConfig{}) {
		c.routed[o.Proxy] = hc
	}
	return c, nil
}

// newHTTPClient owns one transport for its lifetime so keep-alive connections are reused.
func newHTTPClient(p domain.ProxyConfig, timeout time.Duration) (*http.Client, error) {
	proxy, err := proxyFunc(p)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = proxy
	return &http.Client{Timeout: timeout, Transport: tr}, nil
}

// httpClientFor returns the client for a run's proxy settings. An empty config means the
// client-level proxy from Options.
func (c *Client) httpClientFor(p domain.ProxyConfig) (*http.Client, error) {
	if p == (domain.ProxyConfig{}) {
		return c.hc, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if hc, ok := c.routed[p]; ok {
		return hc, nil
	}
	hc, err := newHTTPClient(p, c.timeout)
	if err != nil {
		return nil, err
	}
	c.routed[p] = hc
	return hc, nil
}

// ---- Public API ----

// FetchPage requests one page of a product's review listing and returns the raw review objects.
func (c *Client) FetchPage(ctx context.Context, pr domain.PageRequest) ([]domain.RawReview, error) {
	id := url.PathEscape(pr.ProductID)
	q := url.Values{}
	q.Set("source", "all")
	q.Set("lang", "en-CA")
	q.Set("pageSize", strconv.Itoa(pr.PageSize))
	q.Set("page", strconv.Itoa(pr.Page))
	q.Set("sortBy", string(pr.Sort))
	q.Set("hasPhotosFilter", "false")

	h := http.Header{}
	h.Set("Accept", "application/json")
	if c.site != "" {
		h.Set("Referer", c.site+"/"+id)
	}

	hc, err := c.httpClientFor(pr.Proxy)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, hc, "reviews", c.base+"/products/"+id+"/reviews", q, h)
	if err != nil {
		return nil, err
	}

	var page struct {
		Reviews []domain.RawReview `json:"reviews"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", domain.ErrMalformedPage, pr.Page, err)
	}
	return page.Reviews, nil
}

// Get performs a resilient GET against an arbitrary URL and returns the response body.
func (c *Client) Get(ctx context.Context, target string, params url.Values, headers http.Header) ([]byte, error) {
	return c.get(ctx, c.hc, "get", target, params, headers)
}

// ---- Internals ----

// get retries transient statuses (and transport errors when the policy allows) with
// exponential backoff, honoring Retry-After when the server provides one.
func (c *Client) get(ctx context.Context, hc *http.Client, endpoint, target string, params url.Values, headers http.Header) ([]byte, error) {
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		// client-side rate limiting
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}

		// build a fresh request each attempt, with a fresh identity
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("User-Agent", c.ids.Next())

		var wait time.Duration
		var cause string

		start := time.Now()
		resp, err := hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.policy.RetryNetwork {
				return nil, err
			}
			lastErr = err
			wait = c.policy.Backoff(attempt)
			cause = "network"
		} else {
			observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				b, err := io.ReadAll(resp.Body)
				resp.Body.Close()
				if err != nil {
					return nil, fmt.Errorf("read body: %w", err)
				}
				return b, nil
			}

			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			serr := &domain.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
			if !c.policy.Retryable(resp.StatusCode) {
				return nil, serr
			}
			lastErr = serr
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			if wait = c.policy.clamp(retryAfter(resp)); wait == 0 {
				wait = c.policy.Backoff(attempt)
			}
			cause = strconv.Itoa(resp.StatusCode)
		}

		if attempt == c.policy.MaxAttempts {
			break
		}
		observability.ObserveRetry(cause)
		log.Warn().
			Str("endpoint", endpoint).
			Str("cause", cause).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("transient fetch failure, retrying")
		if !shared.SleepCtx(ctx, wait) {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetriesExhausted, c.policy.MaxAttempts, lastErr)
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// proxyFunc routes http and https targets through their configured proxies.
// With neither configured the environment (HTTP_PROXY/HTTPS_PROXY) decides.
func proxyFunc(p domain.ProxyConfig) (func(*http.Request) (*url.URL, error), error) {
	if p.HTTP == "" && p.HTTPS == "" {
		return http.ProxyFromEnvironment, nil
	}
	parse := func(raw string) (*url.URL, error) {
		if raw == "" {
			return nil, nil
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", redact(raw))
		}
		return u, nil
	}
	httpProxy, err := parse(p.HTTP)
	if err != nil {
		return nil, err
	}
	httpsProxy, err := parse(p.HTTPS)
	if err != nil {
		return nil, err
	}
	return func(r *http.Request) (*url.URL, error) {
		if r.URL.Scheme == "https" {
			return httpsProxy, nil
		}
		return httpProxy, nil
	}, nil
}

// redact drops userinfo so proxy credentials never reach logs or errors.
func redact(raw string) string {
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		if j := strings.Index(raw, "://"); j >= 0 && j < i {
			return raw[:j+3] + "***" + raw[i:]
		}
		return "***" + raw[i:]
	}
	return raw
}
