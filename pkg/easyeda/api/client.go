// Package api fetches component descriptions and 3-D assets from the EasyEDA
// web service.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda"
)

var (
	// ErrNotFound is returned when the service has no such component or asset.
	ErrNotFound = errors.New("api: not found")
	// ErrInvalidResponse is returned when a body cannot be decoded.
	ErrInvalidResponse = errors.New("api: invalid response")
)

const (
	DefaultComponentEndpoint = "https://easyeda.com/api/products/{id}/components?version=6.4.19.5"
	DefaultMeshEndpoint      = "https://modules.easyeda.com/3dmodel/{uuid}"
	DefaultSolidEndpoint     = "https://modules.easyeda.com/qAxj6KHrDKw4blvCG8QJPs7Y/{uuid}"
)

// Config holds client settings.
type Config struct {
	ComponentEndpoint string // must contain {id}
	MeshEndpoint      string // must contain {uuid}
	SolidEndpoint     string // must contain {uuid}
	UserAgent         string
	Timeout           time.Duration

	CacheEnabled  bool // persist bodies under CacheDir
	CacheDir      string
	CacheCapacity int
	CacheTTL      time.Duration
}

// DefaultConfig returns the public service endpoints with an in-memory cache
// only.
func DefaultConfig() Config {
	return Config{
		ComponentEndpoint: DefaultComponentEndpoint,
		MeshEndpoint:      DefaultMeshEndpoint,
		SolidEndpoint:     DefaultSolidEndpoint,
		UserAgent:         "ee2kicad",
		Timeout:           30 * time.Second,
		CacheDir:          ".easyeda_cache",
		CacheCapacity:     256,
		CacheTTL:          time.Hour,
	}
}

// asset kinds double as disk cache extensions
const (
	kindComponent = "json"
	kindMesh      = "obj"
	kindSolid     = "step"
)

// Client talks to the component and 3-D model endpoints.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
	memory *memoryCache
	disk   *diskCache
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for cache and transport events.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. Call Close to release the in-memory cache.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	mem, err := newMemoryCache(cfg.CacheCapacity, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	c.memory = mem

	if cfg.CacheEnabled {
		c.disk = newDiskCache(cfg.CacheDir, c.logger)
		c.logger.Info("disk cache enabled", zap.String("dir", cfg.CacheDir))
	}
	return c, nil
}

// Close releases cache resources.
func (c *Client) Close() {
	c.memory.Close()
}

var _ easyeda.ModelSource = (*Client)(nil)

// Component fetches and decodes the description of one component, e.g.
// "C2040".
func (c *Client) Component(ctx context.Context, id string) (*easyeda.CADData, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty component id: %w", ErrNotFound)
	}

	decode := func(body []byte) (*easyeda.CADData, error) {
		cad, err := easyeda.ParseAPIResponse(body)
		switch {
		case errors.Is(err, easyeda.ErrNoResult):
			return nil, fmt.Errorf("component %s: %w", id, errors.Join(ErrNotFound, err))
		case err != nil:
			return nil, fmt.Errorf("component %s: %w", id, errors.Join(ErrInvalidResponse, err))
		}
		return cad, nil
	}

	if body, ok := c.cached(kindComponent, id); ok {
		if cad, err := decode(body); err == nil {
			return cad, nil
		}
		c.logger.Warn("invalid cached component, fetching fresh data", zap.String("id", id))
	}

	body, err := c.get(ctx, expand(c.cfg.ComponentEndpoint, "{id}", id), true)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", id, err)
	}
	cad, err := decode(body)
	if err != nil {
		return nil, err
	}

	c.store(kindComponent, id, body)
	return cad, nil
}

// ModelMesh fetches the OBJ mesh of a 3-D asset.
func (c *Client) ModelMesh(ctx context.Context, assetID string) (string, error) {
	body, err := c.asset(ctx, kindMesh, c.cfg.MeshEndpoint, assetID)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ModelSolid fetches the STEP model of a 3-D asset.
func (c *Client) ModelSolid(ctx context.Context, assetID string) ([]byte, error) {
	return c.asset(ctx, kindSolid, c.cfg.SolidEndpoint, assetID)
}

func (c *Client) asset(ctx context.Context, kind, endpoint, assetID string) ([]byte, error) {
	id := NormalizeAssetID(assetID)
	if id == "" {
		return nil, fmt.Errorf("empty asset id: %w", ErrNotFound)
	}
	if body, ok := c.cached(kind, id); ok {
		return body, nil
	}

	body, err := c.get(ctx, expand(endpoint, "{uuid}", id), false)
	if err != nil {
		return nil, fmt.Errorf("3-D %s %s: %w", kind, id, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("3-D %s %s: empty body: %w", kind, id, ErrNotFound)
	}

	c.store(kind, id, body)
	return body, nil
}

// NormalizeAssetID returns the canonical 32-digit lower-case form of a UUID
// asset id. Ids that are not UUIDs are returned trimmed but otherwise
// unchanged.
func NormalizeAssetID(id string) string {
	id = strings.TrimSpace(id)
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return strings.ReplaceAll(u.String(), "-", "")
}

func (c *Client) cached(kind, id string) ([]byte, bool) {
	key := kind + ":" + id
	if body, ok := c.memory.Get(key); ok {
		c.logger.Debug("memory cache hit", zap.String("key", key))
		return body, true
	}
	if c.disk == nil {
		return nil, false
	}
	body, ok := c.disk.Read(id, kind)
	if ok {
		c.memory.Set(key, body)
	}
	return body, ok
}

func (c *Client) store(kind, id string, body []byte) {
	c.memory.Set(kind+":"+id, body)
	if c.disk != nil {
		c.disk.Write(id, kind, body)
	}
}

func (c *Client) get(ctx context.Context, target string, apiHeaders bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if apiHeaders {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return decodeBody(raw, resp.Header.Get("Content-Encoding"))
}

var gzipMagic = []byte{0x1f, 0x8b}

// decodeBody inflates gzip bodies (detected by magic bytes, since the
// service does not always label them) and deflate bodies.
func decodeBody(raw []byte, encoding string) ([]byte, error) {
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		defer zr.Close()
		return readAll(zr)
	case strings.EqualFold(encoding, "deflate"):
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		defer zr.Close()
		return readAll(zr)
	default:
		return raw, nil
	}
}

func readAll(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return body, nil
}

func expand(endpoint, placeholder, value string) string {
	return strings.ReplaceAll(endpoint, placeholder, url.PathEscape(value))
}

// prettyJSON indents a JSON body for the disk cache; other bodies are
// returned unchanged.
func prettyJSON(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return body
	}
	return buf.Bytes()
}
