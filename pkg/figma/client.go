package figma

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/cache"
	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/observability"
)

const (
	defaultBaseURL = "https://api.figma.com"

	// defaultTimeout bounds every network call; on expiry the client falls
	// back to a stale cache entry or fails with a timeout error.
	defaultTimeout = 30 * time.Second

	// maxRetryWait caps how long the single 429 retry waits, regardless of
	// what Retry-After asks for.
	maxRetryWait = 60 * time.Second

	// cdnBlockThreshold separates a transient rate limit from a CDN-level
	// block. A Retry-After beyond this is not worth waiting out.
	cdnBlockThreshold = time.Hour

	// defaultPacing is the delay inserted between sequential non-essential
	// network calls to avoid bursting a constrained quota.
	defaultPacing = 1200 * time.Millisecond
)

// Stats counts how a run's requests were satisfied.
type Stats struct {
	Hits         int `json:"cache_hits"`
	StaleServes  int `json:"stale_serves"`
	NetworkCalls int `json:"network_calls"`
	Skipped      int `json:"skipped"`
}

// ClientConfig holds the settings for a Client.
type ClientConfig struct {
	// Token is the personal access token sent as X-Figma-Token.
	Token string

	// BaseURL overrides the API base, mainly for tests.
	BaseURL string

	// Cache stores raw response payloads. Nil disables caching.
	Cache cache.Cache

	// Keyer maps request paths to cache keys. Nil uses the default.
	Keyer cache.Keyer

	// Logger receives request-level diagnostics. Nil uses log.Default().
	Logger *log.Logger

	// Timeout bounds each network call. Zero uses the 30s default.
	Timeout time.Duration

	// Pacing is the delay between sequential non-essential calls.
	// Zero uses the default; negative disables pacing.
	Pacing time.Duration
}

// Client fetches file, node, and image-export data from the Figma REST API.
//
// Calls are strictly serialized and cache-first: a fresh cache hit never
// touches the network, and stale entries are served whenever the API times
// out, errors, or rate-limits. A Client is not safe for concurrent use;
// create one per run.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	token   string
	base    string
	timeout time.Duration
	pacing  time.Duration

	lowBudget bool
	lastCall  time.Time
	stats     Stats

	// Injection points for tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Pacing == 0 {
		cfg.Pacing = defaultPacing
	}

	return &Client{
		http:    &http.Client{},
		cache:   cfg.Cache,
		keyer:   cfg.Keyer,
		logger:  cfg.Logger,
		token:   cfg.Token,
		base:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		pacing:  cfg.Pacing,
		sleep:   sleepCtx,
		now:     time.Now,
	}
}

// File fetches the complete document tree. Essential: failures are fatal.
func (c *Client) File(ctx context.Context, key string) (*FileResponse, error) {
	data, err := c.request(ctx, "/v1/files/"+key, true)
	if err != nil {
		return nil, err
	}
	var resp FileResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed file response")
	}
	return &resp, nil
}

// Nodes fetches a subset of nodes by ID. Essential: failures are fatal.
func (c *Client) Nodes(ctx context.Context, key string, ids []string) (*NodesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	data, err := c.request(ctx, "/v1/files/"+key+"/nodes?"+q.Encode(), true)
	if err != nil {
		return nil, err
	}
	var resp NodesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed nodes response")
	}
	return &resp, nil
}

// ImageFills resolves every imageRef in the file to a downloadable URL.
// Essential: the spec formatter cannot place images without it.
func (c *Client) ImageFills(ctx context.Context, key string) (map[string]string, error) {
	data, err := c.request(ctx, "/v1/files/"+key+"/images", true)
	if err != nil {
		return nil, err
	}
	var resp ImageFillsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed image fills response")
	}
	return resp.Meta.Images, nil
}

// renderFormats are the export formats the images endpoint accepts.
var renderFormats = map[string]bool{"jpg": true, "png": true, "svg": true, "pdf": true}

// RenderNodes exports the given nodes as images and returns node ID to URL.
// Non-essential: callers must treat failures as missing enrichment, not as
// run-aborting errors. Nodes the API could not render map to "".
func (c *Client) RenderNodes(ctx context.Context, key string, ids []string, format string, scale float64) (map[string]string, error) {
	if format != "" && !renderFormats[format] {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported render format: %q (must be jpg, png, svg, or pdf)", format)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("format", format)
	if scale > 0 {
		q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	}
	data, err := c.request(ctx, "/v1/images/"+key+"?"+q.Encode(), false)
	if err != nil {
		return nil, err
	}
	var resp RenderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed render response")
	}
	if resp.Err != "" {
		return nil, errors.New(errors.ErrCodeNetwork, "render failed: %s", resp.Err)
	}
	return resp.Images, nil
}

// Me fetches the identity behind the access token. The call skips the read
// side of the cache so a changed token is reflected immediately.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	data, _, err := c.fetch(ctx, "/v1/me", c.keyer.RequestKey("/v1/me"))
	if err != nil {
		return nil, err
	}
	var resp MeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "malformed me response")
	}
	return &resp, nil
}

// Stats returns the request counters accumulated so far.
func (c *Client) Stats() Stats {
	return c.stats
}

// LowBudget reports whether a minimal-quota plan tier was detected.
func (c *Client) LowBudget() bool {
	return c.lowBudget
}

// request is the single entry point for all API calls.
//
// Resolution order: fresh cache hit, low-budget skip (non-essential only),
// network call, stale fallback on timeout/network/429, then for essential
// calls one paced retry after a transient 429. A Retry-After beyond an hour
// is a CDN block and fails fast with remediation instead of retrying.
func (c *Client) request(ctx context.Context, path string, essential bool) ([]byte, error) {
	key := c.keyer.RequestKey(path)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		c.stats.Hits++
		observability.Cache().OnCacheHit(ctx, "response")
		c.logger.Debug("Cache hit", "path", path)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "response")

	if !essential && c.lowBudget {
		c.stats.Skipped++
		c.logger.Debug("Skipping request to conserve quota", "path", path)
		return nil, errors.New(errors.ErrCodeBudgetExhausted,
			"request skipped: minimal API quota detected for this account")
	}

	if !essential {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}
	}

	data, retryAfter, err := c.fetch(ctx, path, key)
	if err == nil {
		return data, nil
	}

	// Any cached value, even expired, beats waiting out a rate limit or
	// hoping a flaky network recovers.
	if staleWorthy(err) {
		if stale, ok, cerr := c.cache.GetStale(ctx, key); cerr == nil && ok {
			c.stats.StaleServes++
			observability.Cache().OnCacheStale(ctx, "response")
			c.logger.Warn("Serving stale cache entry", "path", path, "reason", errors.GetCode(err))
			return stale, nil
		}
	}

	if !errors.Is(err, errors.ErrCodeRateLimited) {
		return nil, err
	}

	// Rate limited with nothing cached.
	if retryAfter >= 0 && time.Duration(retryAfter)*time.Second > cdnBlockThreshold {
		return nil, errors.New(errors.ErrCodeCDNBlocked,
			"the API responded with a %s cooldown, which indicates a CDN-level block rather than a transient rate limit",
			(time.Duration(retryAfter) * time.Second).String()).
			WithRemediation("duplicate the file into a different workspace, rotate your network egress, or upgrade the account plan; waiting will not lift this block")
	}
	if !essential {
		return nil, err
	}

	// Retrying before the server's window resets the cooldown, so wait the
	// requested time up to the cap, then retry exactly once.
	wait := maxRetryWait
	if retryAfter >= 0 && time.Duration(retryAfter)*time.Second < maxRetryWait {
		wait = time.Duration(retryAfter) * time.Second
	}
	c.logger.Warn("Rate limited, waiting before single retry", "path", path, "wait", wait)
	if err := c.sleep(ctx, wait); err != nil {
		return nil, err
	}

	data, _, err = c.fetch(ctx, path, key)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// fetch performs one network round trip. It returns the parsed Retry-After
// in seconds (-1 when absent) alongside any error so the caller can decide
// between retry, fallback, and fail-fast.
func (c *Client) fetch(ctx context.Context, path, key string) ([]byte, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, -1, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("X-Figma-Token", c.token)

	c.stats.NetworkCalls++
	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, path)
	start := c.now()
	resp, err := c.http.Do(req)
	c.lastCall = c.now()
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, path, err)
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, -1, errors.New(errors.ErrCodeTimeout, "request timed out after %s", c.timeout)
		}
		return nil, -1, errors.Wrap(errors.ErrCodeNetwork, err, "request failed")
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, path, resp.StatusCode, c.now().Sub(start))

	c.sniffBudget(resp.Header)

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, -1, errors.Wrap(errors.ErrCodeNetwork, err, "read response")
		}
		if err := c.cache.Set(ctx, key, body, cache.TTLResponse); err != nil {
			c.logger.Warn("Cache write failed", "path", path, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "response", len(body))
		}
		return body, -1, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		ra := parseRetryAfter(resp.Header.Get("Retry-After"))
		observability.HTTP().OnRateLimited(ctx, path, ra)
		return nil, ra, &errors.RateLimitedError{RetryAfter: ra, Message: "API rate limit exceeded"}

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, -1, errors.New(errors.ErrCodeUnauthorized, "invalid or missing access token").
			WithRemediation("set FIGMA_TOKEN or pass --token with a personal access token generated in your account settings")

	case resp.StatusCode == http.StatusForbidden:
		return nil, -1, errors.New(errors.ErrCodeForbidden, "the token does not grant access to this file").
			WithRemediation("ask the file owner to share it, or use a token from an account that can open the file")

	case resp.StatusCode == http.StatusNotFound:
		return nil, -1, errors.New(errors.ErrCodeFileNotFound, "file or node not found").
			WithRemediation("check the file key or URL; the file may have been moved or deleted")

	default:
		return nil, -1, errors.New(errors.ErrCodeNetwork, "unexpected status %d", resp.StatusCode)
	}
}

// pace enforces the inter-call delay for non-essential requests.
func (c *Client) pace(ctx context.Context) error {
	if c.pacing <= 0 || c.lastCall.IsZero() {
		return nil
	}
	elapsed := c.now().Sub(c.lastCall)
	if elapsed >= c.pacing {
		return nil
	}
	return c.sleep(ctx, c.pacing-elapsed)
}

// sniffBudget latches the low-budget flag when response headers reveal a
// minimal plan tier. Once set it stays set for the rest of the run.
func (c *Client) sniffBudget(h http.Header) {
	if c.lowBudget {
		return
	}
	switch strings.ToLower(h.Get("X-Figma-Plan-Tier")) {
	case "starter", "free":
		c.lowBudget = true
		c.logger.Info("Minimal plan tier detected, skipping non-essential requests from here on")
		return
	}
	if rem := h.Get("X-RateLimit-Remaining"); rem != "" {
		if n, err := strconv.Atoi(rem); err == nil && n <= 2 {
			c.lowBudget = true
			c.logger.Info("Nearly exhausted quota detected, skipping non-essential requests from here on",
				"remaining", n)
		}
	}
}

// staleWorthy reports whether an error class permits serving expired cache.
// Credential and not-found errors are authoritative and never masked.
func staleWorthy(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeRateLimited, errors.ErrCodeTimeout, errors.ErrCodeNetwork:
		return true
	}
	return false
}

// parseRetryAfter reads an integer-seconds Retry-After value.
// Returns -1 for absent or unparseable headers (HTTP-date form included).
func parseRetryAfter(v string) int {
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
