package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/adoperator/internal/log"
)

const (
	// DefaultCacheName is the versioned cache of the current worker.
	// Bumping the version makes Activate drop every older cache.
	DefaultCacheName = "adoperator-v2"

	// APIPrefix marks backend traffic, which is never cached.
	APIPrefix = "/api"

	// defaultMaxBodySize bounds a cached response body.
	defaultMaxBodySize = 10 * 1024 * 1024
)

// ShellAssets are the application shell paths precached on Install.
func ShellAssets() []string {
	return []string{"/", "/index.html"}
}

// ErrInvalidOrigin is returned by NewWorker for an origin that is not an absolute http(s) URL.
var ErrInvalidOrigin = errors.New("origin must be an absolute http or https URL")

var errBodyTooLarge = errors.New("response body exceeds the cache limit")

// State is the worker lifecycle state.
type State int

const (
	// StateNew is a worker that has not been installed.
	StateNew State = iota
	// StateInstalled is a worker whose shell is precached.
	StateInstalled
	// StateActivated is a worker that controls requests.
	StateActivated
)

// String returns the lifecycle state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalled:
		return "installed"
	case StateActivated:
		return "activated"
	default:
		return "unknown"
	}
}

// Worker is an http.Handler in front of the web app origin.
//
// Until it is activated the worker forwards every request to the origin
// without touching the cache. Once activated:
//   - requests under APIPrefix go to the network only; a network failure
//     answers 503 {"error":"offline"}
//   - other GET requests are served from the cache when possible and
//     refreshed in the background; a miss waits for the network and stores
//     same-origin 200 responses
//   - a network failure with no cached copy answers the offline page for
//     navigations and an empty 408 otherwise
//   - non-GET requests go to the network only
type Worker struct {
	origin      *url.URL
	client      *http.Client
	cache       Cache
	name        string
	assets      []string
	page        []byte
	maxBodySize int64
	logger      *slog.Logger
	now         func() time.Time

	mu    sync.RWMutex
	state State

	wg sync.WaitGroup
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithHTTPClient sets the client used to reach the origin.
func WithHTTPClient(c *http.Client) WorkerOption {
	return func(w *Worker) {
		w.client = c
	}
}

// WithCacheName sets the versioned cache name.
func WithCacheName(name string) WorkerOption {
	return func(w *Worker) {
		w.name = name
	}
}

// WithShellAssets replaces the paths precached on Install.
func WithShellAssets(paths ...string) WorkerOption {
	return func(w *Worker) {
		w.assets = paths
	}
}

// WithOfflinePage replaces the built-in offline page.
// NewWorker rejects a page that is not self-contained.
func WithOfflinePage(page []byte) WorkerOption {
	return func(w *Worker) {
		w.page = page
	}
}

// WithMaxBodySize sets the largest body the worker buffers and caches.
func WithMaxBodySize(size int64) WorkerOption {
	return func(w *Worker) {
		w.maxBodySize = size
	}
}

// WithLogger sets the worker logger.
func WithLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = l
	}
}

// NewWorker returns a worker fronting origin and storing responses in cache.
func NewWorker(origin string, cache Cache, opts ...WorkerOption) (*Worker, error) {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	w := &Worker{
		origin:      u,
		client:      &http.Client{Timeout: 30 * time.Second},
		cache:       cache,
		name:        DefaultCacheName,
		assets:      ShellAssets(),
		page:        defaultPage,
		maxBodySize: defaultMaxBodySize,
		logger:      log.Discard(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := ValidateSelfContained(w.page); err != nil {
		return nil, err
	}
	return w, nil
}

// CacheName returns the cache the worker reads and writes.
func (w *Worker) CacheName() string {
	return w.name
}

// State returns the lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
}

// Install precaches the shell assets. Precaching is all or nothing and
// best-effort: a failure is logged and leaves the cache untouched. The worker
// skips waiting, so Install never blocks on older workers.
func (w *Worker) Install(ctx context.Context) {
	entries := make([]Entry, 0, len(w.assets))
	for _, path := range w.assets {
		e, err := w.precache(ctx, path)
		if err != nil {
			w.logger.Warn("precache failed", "path", path, "error", err)
			w.setState(StateInstalled)
			return
		}
		entries = append(entries, e)
	}
	for _, e := range entries {
		if err := w.cache.Put(ctx, w.name, e); err != nil {
			w.logger.Warn("failed to store precached asset", "url", e.URL, "error", err)
		}
	}
	w.logger.Debug("worker installed", "cache", w.name, "assets", len(entries))
	w.setState(StateInstalled)
}

func (w *Worker) precache(ctx context.Context, path string) (Entry, error) {
	target := w.resolve(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return Entry{}, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := w.readBody(resp.Body)
	if err != nil {
		return Entry{}, err
	}
	return w.entry(target, resp, body), nil
}

// Activate deletes every cache other than the current one and starts
// controlling requests.
func (w *Worker) Activate(ctx context.Context) error {
	names, err := w.cache.Names(ctx)
	if err != nil {
		return fmt.Errorf("failed to list caches: %w", err)
	}
	var errs []error
	for _, name := range names {
		if name == w.name {
			continue
		}
		if err := w.cache.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete cache %s: %w", name, err))
			continue
		}
		w.logger.Debug("deleted stale cache", "cache", name)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	w.setState(StateActivated)
	return nil
}

// Start installs and activates the worker.
func (w *Worker) Start(ctx context.Context) error {
	w.Install(ctx)
	return w.Activate(ctx)
}

// Wait blocks until every background refresh has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// ServeHTTP implements http.Handler.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	switch {
	case w.State() != StateActivated:
		w.passthrough(rw, r, func() { http.Error(rw, "origin unreachable", http.StatusBadGateway) })
	case strings.HasPrefix(r.URL.Path, APIPrefix):
		w.passthrough(rw, r, func() {
			rw.Header().Set("Content-Type", "application/json")
			rw.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(rw, `{"error":"offline"}`)
		})
	case r.Method != http.MethodGet:
		w.passthrough(rw, r, func() { http.Error(rw, "origin unreachable", http.StatusBadGateway) })
	default:
		w.serveCached(rw, r)
	}
}

// passthrough forwards r to the origin and calls onFailure on a network error.
func (w *Worker) passthrough(rw http.ResponseWriter, r *http.Request, onFailure func()) {
	resp, err := w.fetch(r.Context(), r)
	if err != nil {
		w.logger.Debug("network request failed", "path", r.URL.Path, "error", err)
		onFailure()
		return
	}
	defer resp.Body.Close()

	copyHeader(rw.Header(), resp.Header)
	rw.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(rw, resp.Body)
}

func (w *Worker) serveCached(rw http.ResponseWriter, r *http.Request) {
	key := w.resolve(r.URL)
	cached, hit, err := w.cache.Match(r.Context(), w.name, key)
	if err != nil {
		w.logger.Warn("cache lookup failed", "url", key, "error", err)
		hit = false
	}

	if hit {
		w.refresh(r)
		writeEntry(rw, cached)
		return
	}

	resp, err := w.fetch(r.Context(), r)
	if err != nil {
		w.logger.Debug("network request failed", "url", key, "error", err)
		w.fallback(rw, r)
		return
	}
	defer resp.Body.Close()

	body, err := w.readBody(resp.Body)
	switch {
	case errors.Is(err, errBodyTooLarge):
		w.logger.Debug("response too large to cache", "url", key, "limit", w.maxBodySize)
		copyHeader(rw.Header(), resp.Header)
		rw.WriteHeader(resp.StatusCode)
		if _, err := rw.Write(body); err == nil {
			_, _ = io.Copy(rw, resp.Body)
		}
		return
	case err != nil:
		w.logger.Debug("failed to read response", "url", key, "error", err)
		w.fallback(rw, r)
		return
	}
	e := w.entry(key, resp, body)
	if w.cacheable(resp) {
		if err := w.cache.Put(r.Context(), w.name, e); err != nil {
			w.logger.Warn("failed to cache response", "url", key, "error", err)
		}
	}
	writeEntry(rw, e)
}

// refresh revalidates a cached entry in the background.
func (w *Worker) refresh(r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	req := r.Clone(ctx)
	req.Body = http.NoBody

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		resp, err := w.fetch(ctx, req)
		if err != nil {
			w.logger.Debug("background refresh failed", "path", req.URL.Path, "error", err)
			return
		}
		defer resp.Body.Close()

		if !w.cacheable(resp) {
			return
		}
		body, err := w.readBody(resp.Body)
		if err != nil {
			return
		}
		key := w.resolve(req.URL)
		if err := w.cache.Put(ctx, w.name, w.entry(key, resp, body)); err != nil {
			w.logger.Warn("failed to refresh cache entry", "url", key, "error", err)
		}
	}()
}

func (w *Worker) fallback(rw http.ResponseWriter, r *http.Request) {
	if !isNavigation(r) {
		rw.WriteHeader(http.StatusRequestTimeout)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write(w.page)
}

func (w *Worker) fetch(ctx context.Context, r *http.Request) (*http.Response, error) {
	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, w.resolve(r.URL), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	req.Header.Del("Accept-Encoding")
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	req.ContentLength = r.ContentLength
	return w.client.Do(req)
}

// cacheable reports whether resp is a same-origin 200 response.
func (w *Worker) cacheable(resp *http.Response) bool {
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return true
	}
	final := resp.Request.URL
	return final.Scheme == w.origin.Scheme && final.Host == w.origin.Host
}

// readBody reads body up to the cache limit. A larger body returns the prefix
// read so far together with errBodyTooLarge; the rest is left in body.
func (w *Worker) readBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, w.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > w.maxBodySize {
		return data, errBodyTooLarge
	}
	return data, nil
}

func (w *Worker) entry(key string, resp *http.Response, body []byte) Entry {
	header := http.Header{}
	copyHeader(header, resp.Header)
	return Entry{
		URL:      key,
		Status:   resp.StatusCode,
		Header:   header,
		Body:     body,
		StoredAt: w.now(),
	}
}

// resolve maps a request URL onto the origin. The result is the cache key.
func (w *Worker) resolve(u *url.URL) string {
	target := *w.origin
	target.Path = w.origin.Path + u.Path
	target.RawPath = ""
	target.RawQuery = u.RawQuery
	target.Fragment = ""
	return target.String()
}

func isNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeEntry(rw http.ResponseWriter, e Entry) {
	copyHeader(rw.Header(), e.Header)
	rw.WriteHeader(e.Status)
	_, _ = io.Copy(rw, bytes.NewReader(e.Body))
}

// hopHeaders are dropped when relaying a message.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
	dst.Del("Content-Length")
}
