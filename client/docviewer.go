package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// LoadStatus is the viewer's load lifecycle.
type LoadStatus string

const (
	StatusIdle     LoadStatus = "idle"
	StatusLoading  LoadStatus = "loading"
	StatusReady    LoadStatus = "ready"
	StatusError    LoadStatus = "error"
	StatusFastMode LoadStatus = "fast-mode"
)

// LoadStrategy selects how the binary reaches the render surface.
type LoadStrategy string

const (
	// StrategyDirect hands the URL straight to the render surface.
	StrategyDirect LoadStrategy = "direct"
	// StrategyBlob fetches the binary ourselves and hands over the bytes.
	StrategyBlob LoadStrategy = "blob"
)

const (
	loadTimeout = 5 * time.Second

	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// errLoadTimeout is the cancellation cause when the load timer wins the race
// against the fetch. It distinguishes the deliberate abort from real fetch
// failures.
var errLoadTimeout = errors.New("document load timed out")

// RenderSurface renders a PDF either from a URL (direct strategy) or from
// fetched bytes (blob strategy), reporting the page count.
type RenderSurface interface {
	RenderURL(ctx context.Context, url string) (pageCount int, err error)
	RenderData(ctx context.Context, data []byte) (pageCount int, err error)
}

// DocumentViewer loads a remote PDF without ever blocking the UI
// indefinitely: the blob fetch races a fixed timeout, and a timeout degrades
// to fast mode instead of an error. View parameters (page, zoom, rotation)
// are independent of the load lifecycle.
type DocumentViewer struct {
	fetcher DocumentFetcher
	surface RenderSurface
	timeout time.Duration

	mu        sync.Mutex
	url       string
	status    LoadStatus
	strategy  LoadStrategy
	data      []byte
	loadErr   error
	pageCount int

	page     int
	zoom     float64
	rotation int
}

type ViewerOption func(*DocumentViewer)

// WithLoadTimeout overrides the fast-mode timeout (default 5s).
func WithLoadTimeout(d time.Duration) ViewerOption {
	return func(v *DocumentViewer) { v.timeout = d }
}

// WithStrategy sets the initial load strategy (default direct).
func WithStrategy(s LoadStrategy) ViewerOption {
	return func(v *DocumentViewer) { v.strategy = s }
}

func NewDocumentViewer(fetcher DocumentFetcher, surface RenderSurface, opts ...ViewerOption) *DocumentViewer {
	v := &DocumentViewer{
		fetcher:  fetcher,
		surface:  surface,
		timeout:  loadTimeout,
		status:   StatusIdle,
		strategy: StrategyDirect,
		page:     1,
		zoom:     1.0,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *DocumentViewer) Status() LoadStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *DocumentViewer) Strategy() LoadStrategy {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.strategy
}

// LoadError is the terminal error of the last attempt, nil in fast mode.
func (v *DocumentViewer) LoadError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

// Data is the fetched binary once the blob strategy has succeeded.
func (v *DocumentViewer) Data() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data
}

// Load runs one load attempt for the URL. There is no automatic retry: a
// terminal error stays until the user retries explicitly.
func (v *DocumentViewer) Load(ctx context.Context, url string) error {
	v.mu.Lock()
	v.url = url
	v.status = StatusLoading
	v.loadErr = nil
	v.data = nil
	strategy := v.strategy
	v.mu.Unlock()

	if strategy == StrategyDirect {
		pageCount, err := v.surface.RenderURL(ctx, url)
		if err == nil {
			v.finishReady(nil, pageCount)
			return nil
		}
		// Direct rendering failed; fall back once to the blob strategy.
		v.mu.Lock()
		v.strategy = StrategyBlob
		v.mu.Unlock()
	}

	return v.loadBlob(ctx, url)
}

// loadBlob fetches the binary racing the fast-mode timeout. The timeout
// cancels the in-flight fetch with errLoadTimeout as the cause, which is how
// a deliberate abort is told apart from a genuine failure.
func (v *DocumentViewer) loadBlob(ctx context.Context, url string) error {
	fetchCtx, cancel := context.WithTimeoutCause(ctx, v.timeout, errLoadTimeout)
	defer cancel()

	data, err := v.fetcher.FetchDocument(fetchCtx, url)
	if err != nil {
		if errors.Is(context.Cause(fetchCtx), errLoadTimeout) {
			// Not an error: the fetch was aborted because fast mode took
			// over. No message is surfaced.
			v.mu.Lock()
			v.status = StatusFastMode
			v.loadErr = nil
			v.mu.Unlock()
			return nil
		}
		v.fail(err)
		return err
	}

	pageCount, err := v.surface.RenderData(ctx, data)
	if err != nil {
		v.fail(err)
		return err
	}

	v.finishReady(data, pageCount)
	return nil
}

// Retry re-runs the load for the current URL; it is only ever triggered by
// the user (from the error or fast-mode UI).
func (v *DocumentViewer) Retry(ctx context.Context) error {
	v.mu.Lock()
	url := v.url
	v.mu.Unlock()
	return v.Load(ctx, url)
}

// ExternalURL is the link behind the fast-mode "open externally" action.
func (v *DocumentViewer) ExternalURL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

// Download fetches the full binary without the fast-mode timeout, for the
// fast-mode "download" action.
func (v *DocumentViewer) Download(ctx context.Context) ([]byte, error) {
	v.mu.Lock()
	url := v.url
	v.mu.Unlock()
	return v.fetcher.FetchDocument(ctx, url)
}

func (v *DocumentViewer) finishReady(data []byte, pageCount int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusReady
	v.data = data
	v.loadErr = nil
	v.pageCount = pageCount
	if v.page > pageCount && pageCount > 0 {
		v.page = pageCount
	}
}

func (v *DocumentViewer) fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusError
	v.loadErr = err
}

// --- view parameters, independent of load status ---

func (v *DocumentViewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *DocumentViewer) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageCount
}

// SetPage clamps to [1, pageCount]. Before a document is loaded pageCount is
// zero and the page stays at 1.
func (v *DocumentViewer) SetPage(n int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if v.pageCount > 0 && n > v.pageCount {
		n = v.pageCount
	}
	v.page = n
	return v.page
}

func (v *DocumentViewer) NextPage() int {
	return v.SetPage(v.Page() + 1)
}

func (v *DocumentViewer) PrevPage() int {
	return v.SetPage(v.Page() - 1)
}

func (v *DocumentViewer) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// ZoomIn steps the zoom up by 0.25, capped at 3.0.
func (v *DocumentViewer) ZoomIn() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = clampZoom(v.zoom + ZoomStep)
	return v.zoom
}

// ZoomOut steps the zoom down by 0.25, floored at 0.5.
func (v *DocumentViewer) ZoomOut() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = clampZoom(v.zoom - ZoomStep)
	return v.zoom
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func (v *DocumentViewer) Rotation() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rotation
}

// Rotate advances the rotation by 90 degrees, cycling back to 0 after 270.
func (v *DocumentViewer) Rotate() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rotation = (v.rotation + 90) % 360
	return v.rotation
}
