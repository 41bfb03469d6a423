package records

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"classcal/internal/config"
	appLog "classcal/internal/log"
)

// Source identifies one backend collection endpoint.
type Source struct {
	// ID is an internal identifier ("classes", "schedules", ...).
	ID string
	// URL is the full collection endpoint.
	URL string
}

// FetchResult contains the outcome of fetching a single collection.
type FetchResult struct {
	Source    Source
	Body      []byte // JSON payload (either freshly fetched or from cache)
	FromCache bool   // true if we reused cached body due to 304 or a network failure
}

// cacheEntry holds HTTP cache metadata for a single collection URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher retrieves collection bodies with HTTP caching (ETag /
// Last-Modified) backed by a disk cache, so a backend outage degrades to
// stale data instead of an empty calendar.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a new collection Fetcher. cacheDir is the base
// directory for per-URL cache subdirectories, e.g. "/var/lib/classcal/cache".
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		// Caller should set this explicitly; fall back to a relative dir so
		// that development runs without root permissions.
		cacheDir = "./var/cache"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
	}
}

// FetchOne fetches a single collection, honoring ETag and Last-Modified.
func (f *Fetcher) FetchOne(ctx context.Context, src Source) (FetchResult, error) {
	if src.URL == "" {
		return FetchResult{}, errors.New("source URL is empty")
	}

	cachePath, err := f.cachePathForURL(src.URL)
	if err != nil {
		return FetchResult{}, err
	}
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return FetchResult{}, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := f.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	// Conditional headers from cache metadata.
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Network error; if we have a cached body, fall back to it.
		if len(cachedBody) > 0 {
			appLog.Error("records fetch network error, using cached body", err, "id", src.ID)
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return FetchResult{}, readErr
		}

		newMeta := cacheEntry{
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			// Log but still return the freshly fetched body.
			appLog.Error("records cache save failed", err, "id", src.ID)
		}

		appLog.Debug("records fetch success", "id", src.ID, "bytes", len(body))
		return FetchResult{Source: src, Body: body, FromCache: false}, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			// 304 but no cached body: treat as error.
			return FetchResult{}, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Debug("records fetch not modified; using cache", "id", src.ID)
		return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil

	default:
		// Non-OK status: if we have cached data, fall back to it.
		if len(cachedBody) > 0 {
			appLog.Error("records fetch non-OK, using cached body", errors.New(resp.Status), "id", src.ID, "status", resp.StatusCode)
			return FetchResult{Source: src, Body: cachedBody, FromCache: true}, nil
		}
		return FetchResult{}, errors.New(resp.Status)
	}
}

func (f *Fetcher) cachePathForURL(url string) (string, error) {
	if url == "" {
		return "", errors.New("empty url")
	}
	sum := sha256.Sum256([]byte(url))
	dir := hex.EncodeToString(sum[:8])
	return filepath.Join(f.cacheDir, dir), nil
}

func (f *Fetcher) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (f *Fetcher) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.json"))
}

func (f *Fetcher) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.json"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// Client fetches and decodes all four collections from a configured backend.
type Client struct {
	fetcher *Fetcher
	backend config.BackendConfig
}

func NewClient(backend config.BackendConfig, cacheDir string) *Client {
	return &Client{
		fetcher: NewFetcher(cacheDir),
		backend: backend,
	}
}

// FetchCollections fetches the four collections. Failures are per-source:
// every error is returned, but a failed or malformed source simply leaves
// its slice empty while the others proceed.
func (c *Client) FetchCollections(ctx context.Context) (Collections, []error) {
	var out Collections
	var errs []error

	fetch := func(id, path string) []byte {
		src := Source{ID: id, URL: joinURL(c.backend.BaseURL, path)}
		res, err := c.fetcher.FetchOne(ctx, src)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("records fetch failed", err, "id", id)
			return nil
		}
		return res.Body
	}

	out.Classes = decodeList[ClassDefinition]("classes", fetch("classes", c.backend.ClassesPath))
	out.Schedules = decodeList[ScheduleEntry]("schedules", fetch("schedules", c.backend.SchedulesPath))
	out.Attendance = decodeList[AttendanceEntry]("attendance", fetch("attendance", c.backend.AttendancePath))
	out.Makeups = decodeList[MakeupEntry]("makeups", fetch("makeups", c.backend.MakeupsPath))

	return out, errs
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
