package artwork

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	cacheDirName         = "antenna/favicons"
	defaultMemoryEntries = 256
	defaultTimeout       = 5 * time.Second
	defaultUserAgent     = "Antenna/0.1"

	// maxArtworkBytes bounds what is read from the network for one icon.
	maxArtworkBytes = 4 << 20

	// iconSize bounds the PNG icon stored next to each entry.
	iconSize   = 128
	iconSuffix = ".png"
)

var errTooLarge = errors.New("artwork exceeds size limit")

// Cache resolves artwork for source URLs. Safe for concurrent use.
type Cache struct {
	dir       string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	entries   int

	mem   *lru.Cache[string, *Artwork]
	group singleflight.Group

	// diskMu serialises disk tier writes.
	diskMu sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithDir sets the disk tier directory.
func WithDir(dir string) Option {
	return func(c *Cache) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithMemoryEntries bounds the memory tier.
func WithMemoryEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.entries = n
		}
	}
}

// WithTimeout sets the network fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the client used for network fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Cache) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithUserAgent sets the User-Agent sent with network fetches.
func WithUserAgent(ua string) Option {
	return func(c *Cache) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger for absorbed failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates a cache. The disk tier defaults to the user's XDG cache
// directory.
func NewCache(opts ...Option) (*Cache, error) {
	c := &Cache{
		dir:       filepath.Join(xdg.CacheHome, cacheDirName),
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
		entries:   defaultMemoryEntries,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artwork cache dir: %w", err)
	}
	mem, err := lru.New[string, *Artwork](c.entries)
	if err != nil {
		return nil, fmt.Errorf("create artwork memory tier: %w", err)
	}
	c.mem = mem
	return c, nil
}

// Key returns the cache key for a source URL: the hex SHA-256 of the URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Dir returns the disk tier directory.
func (c *Cache) Dir() string { return c.dir }

// Fetch returns the artwork for url, or false when none is available.
// Failures are never reported: missing artwork is not an error. Failed
// fetches are not remembered, so the next call tries the network again.
func (c *Cache) Fetch(ctx context.Context, url string) (*Artwork, bool) {
	if url == "" {
		return nil, false
	}
	key := Key(url)
	if a, ok := c.mem.Get(key); ok {
		return a, true
	}

	// Concurrent lookups of one key share a fill. The fill outlives a caller
	// that gives up, so other waiters still get the result.
	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fill(fillCtx, key, url), nil
	})

	select {
	case res := <-ch:
		a, _ := res.Val.(*Artwork)
		return a, a != nil
	case <-ctx.Done():
		return nil, false
	}
}

// Cached returns the artwork for url from the memory tier only.
func (c *Cache) Cached(url string) (*Artwork, bool) {
	if url == "" {
		return nil, false
	}
	return c.mem.Get(Key(url))
}

// Path returns the PNG icon stored for url, scaled to fit in iconSize
// pixels, or "" when it has not been stored. Notification daemons read it
// regardless of the format the station serves.
func (c *Cache) Path(url string) string {
	if url == "" {
		return ""
	}
	p := c.iconPath(Key(url))
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Len returns the number of entries in the memory tier.
func (c *Cache) Len() int {
	return c.mem.Len()
}

func (c *Cache) fill(ctx context.Context, key, url string) *Artwork {
	if a, ok := c.mem.Get(key); ok {
		return a
	}
	if a := c.readDisk(key); a != nil {
		if _, err := os.Stat(c.iconPath(key)); err != nil {
			c.storeIcon(key, url, a)
		}
		c.mem.Add(key, a)
		return a
	}

	a, err := c.download(ctx, url)
	if err != nil {
		c.logger.Debug("artwork: fetch failed", "url", url, "err", err)
		return nil
	}
	if err := c.writeDisk(c.path(key), a.Data); err != nil {
		c.logger.Debug("artwork: disk write failed", "url", url, "err", err)
	}
	c.storeIcon(key, url, a)
	c.mem.Add(key, a)
	return a
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key)
}

func (c *Cache) iconPath(key string) string {
	return filepath.Join(c.dir, key+iconSuffix)
}

// storeIcon writes the scaled PNG rendition of a. Failures only cost the
// notification its icon.
func (c *Cache) storeIcon(key, url string, a *Artwork) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Thumbnail(iconSize, iconSize)); err != nil {
		c.logger.Debug("artwork: icon encode failed", "url", url, "err", err)
		return
	}
	if err := c.writeDisk(c.iconPath(key), buf.Bytes()); err != nil {
		c.logger.Debug("artwork: icon write failed", "url", url, "err", err)
	}
}

func (c *Cache) readDisk(key string) *Artwork {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil
	}
	return decodeArtwork(data)
}

// writeDisk stores data at dst atomically: readers never see a partial file.
func (c *Cache) writeDisk(dst string, data []byte) error {
	c.diskMu.Lock()
	defer c.diskMu.Unlock()

	tmp, err := os.CreateTemp(c.dir, filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (c *Cache) download(ctx context.Context, url string) (*Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxArtworkBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", errTooLarge, maxArtworkBytes)
	}
	a := decodeArtwork(data)
	if a == nil {
		return nil, fmt.Errorf("undecodable image (%s)", resp.Header.Get("Content-Type"))
	}
	return a, nil
}
