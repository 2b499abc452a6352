// Package radiobrowser provides a client for the radio-browser.info station
// directory API.
package radiobrowser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/antenna/internal/station"
)

// ErrServer is returned when the directory answers with a non-2xx status.
var ErrServer = errors.New("server returned an error")

const (
	discoveryHost    = "all.api.radio-browser.info"
	fallbackBaseURL  = "https://de2.api.radio-browser.info"
	defaultUserAgent = "Antenna/0.1"
	defaultTimeout   = 15 * time.Second
	discoveryTimeout = 5 * time.Second

	// DefaultSearchLimit is the page size used when Filters.Limit is zero.
	DefaultSearchLimit = 50
	// DefaultTagLimit is the number of tags returned by Tags when limit is zero.
	DefaultTagLimit = 100
)

// resolver is the subset of net.Resolver used for server discovery.
type resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Client is a radio-browser.info API client. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	resolver   resolver

	baseOnce sync.Once
	baseURL  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL pins the API server and disables DNS discovery.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func withResolver(r resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// New creates a new radio-browser client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     slog.Default(),
		resolver:   net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filters narrows a station search. Empty fields are not sent.
type Filters struct {
	Name        string
	Tag         string
	Country     string
	CountryCode string
	Limit       int
	Offset      int
}

// IsEmpty reports whether no search criterion is set.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Name) == "" &&
		strings.TrimSpace(f.Tag) == "" &&
		strings.TrimSpace(f.Country) == "" &&
		strings.TrimSpace(f.CountryCode) == ""
}

func (f Filters) values() url.Values {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(max(f.Offset, 0)))
	params.Set("hidebroken", "true")
	params.Set("order", "votes")
	params.Set("reverse", "true")
	if s := strings.TrimSpace(f.Name); s != "" {
		params.Set("name", s)
	}
	if s := strings.TrimSpace(f.Tag); s != "" {
		params.Set("tag", s)
	}
	if s := strings.TrimSpace(f.Country); s != "" {
		params.Set("country", s)
	}
	if s := strings.TrimSpace(f.CountryCode); s != "" {
		params.Set("countrycode", s)
	}
	return params
}

// Search returns stations matching f, most voted first.
func (c *Client) Search(ctx context.Context, f Filters) ([]station.Station, error) {
	var out []station.Station
	if err := c.get(ctx, "/json/stations/search", f.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopVoted returns the limit most voted stations.
func (c *Client) TopVoted(ctx context.Context, limit int) ([]station.Station, error) {
	return c.top(ctx, "topvote", limit)
}

// TopClicked returns the limit most played stations.
func (c *Client) TopClicked(ctx context.Context, limit int) ([]station.Station, error) {
	return c.top(ctx, "topclick", limit)
}

func (c *Client) top(ctx context.Context, kind string, limit int) ([]station.Station, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	params := url.Values{}
	params.Set("hidebroken", "true")

	var out []station.Station
	path := "/json/stations/" + kind + "/" + strconv.Itoa(limit)
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Countries returns every country with at least one working station.
func (c *Client) Countries(ctx context.Context) ([]station.Country, error) {
	params := url.Values{}
	params.Set("order", "stationcount")
	params.Set("reverse", "true")
	params.Set("hidebroken", "true")

	var out []station.Country
	if err := c.get(ctx, "/json/countries", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags returns the most used tags.
func (c *Client) Tags(ctx context.Context, limit int) ([]station.Tag, error) {
	if limit <= 0 {
		limit = DefaultTagLimit
	}
	params := url.Values{}
	params.Set("order", "stationcount")
	params.Set("reverse", "true")
	params.Set("hidebroken", "true")
	params.Set("limit", strconv.Itoa(limit))

	var out []station.Tag
	if err := c.get(ctx, "/json/tags", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportClick tells the directory a station was played from it.
func (c *Client) ReportClick(ctx context.Context, stationUUID string) error {
	if stationUUID == "" {
		return errors.New("report click: empty station uuid")
	}
	resp, err := c.do(ctx, "/json/url/"+url.PathEscape(stationUUID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.do(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do issues a GET and returns the response for any 2xx status.
func (c *Client) do(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.base(ctx) + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Status)
	}
	return resp, nil
}

// base returns the API server, discovering it on first use.
func (c *Client) base(ctx context.Context) string {
	c.baseOnce.Do(func() {
		if c.baseURL != "" {
			return
		}
		// The result is kept for every later call, so the lookup must not
		// fail just because the first caller gave up.
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discoveryTimeout)
		defer cancel()
		c.baseURL = c.discover(dctx)
		c.logger.Debug("radiobrowser: using server", "url", c.baseURL)
	})
	return c.baseURL
}

// discover picks a random server behind the round-robin discovery name and
// turns its address back into a host name, which the TLS certificate needs.
func (c *Client) discover(ctx context.Context) string {
	addrs, err := c.resolver.LookupHost(ctx, discoveryHost)
	if err != nil || len(addrs) == 0 {
		c.logger.Debug("radiobrowser: discovery lookup failed", "err", err)
		return fallbackBaseURL
	}
	addr := addrs[rand.IntN(len(addrs))] //nolint:gosec // load spreading, not security

	names, err := c.resolver.LookupAddr(ctx, addr)
	if err != nil || len(names) == 0 {
		c.logger.Debug("radiobrowser: reverse lookup failed", "addr", addr, "err", err)
		return fallbackBaseURL
	}
	return "https://" + strings.TrimSuffix(names[0], ".")
}

// BaseURL returns the API server in use, discovering it if needed.
func (c *Client) BaseURL(ctx context.Context) string {
	return c.base(ctx)
}
