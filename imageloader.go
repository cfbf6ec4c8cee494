// Package imageloader loads remote images into display targets: it fetches
// bytes on a background pool, probes intrinsic bounds, decodes at a
// downsampled resolution fitted to the target, and delivers the result on
// the target's owning context, falling back to a caller-supplied placeholder
// on any failure.
package imageloader

import (
	"github.com/google/uuid"

	"github.com/Skryldev/image-loader/adapters/codec"
	"github.com/Skryldev/image-loader/adapters/fetcher"
	"github.com/Skryldev/image-loader/config"
	"github.com/Skryldev/image-loader/core"
	"github.com/Skryldev/image-loader/transform"
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// Loader is the primary entry point.
type Loader struct {
	inner *core.Engine
	reg   *core.DefaultRegistry
}

// New creates a fully wired Loader: the stdlib codec plus HTTP(S) and file
// fetchers registered for their schemes.  Pass a custom config.Config to
// override defaults, or use NewWithCodec to swap the codec (e.g. libvips).
func New(cfg config.Config) *Loader {
	return NewWithCodec(cfg, codec.NewStd())
}

// NewWithVips creates a Loader backed by libvips for true shrink-on-load
// decoding.  Call Shutdown on the returned codec at process exit.
func NewWithVips(cfg config.Config) (*Loader, *codec.Vips) {
	c := codec.NewVips(codec.VipsConfig{ChunkSize: cfg.ChunkSize})
	return NewWithCodec(cfg, c), c
}

// NewWithCodec creates a Loader around a custom codec.
func NewWithCodec(cfg config.Config, c core.Codec) *Loader {
	reg := core.NewRegistry()

	httpFetcher := fetcher.NewHTTP(fetcher.HTTPOptions{
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
		MaxBytes:  cfg.MaxImageBytes,
	})
	reg.RegisterFetcher("http", httpFetcher)
	reg.RegisterFetcher("https", httpFetcher)
	reg.RegisterFetcher("file", fetcher.NewFile(""))

	inner := core.NewEngine(cfg, reg, c)
	return &Loader{inner: inner, reg: reg}
}

// SetLogger attaches a structured logger.
func (l *Loader) SetLogger(lg core.Logger) { l.inner.SetLogger(lg) }

// SetMetrics attaches a metrics collector.
func (l *Loader) SetMetrics(m core.MetricsCollector) { l.inner.SetMetrics(m) }

// AddHook registers an observer for request lifecycle events.
func (l *Loader) AddHook(h core.Hook) { l.inner.AddHook(h) }

// RegisterFetcher registers a custom fetcher for the given URI scheme.
func (l *Loader) RegisterFetcher(scheme string, f core.Fetcher) {
	l.reg.RegisterFetcher(scheme, f)
}

// Start starts the background pool.
func (l *Loader) Start() { l.inner.Start() }

// Stop rejects new requests and waits for in-flight ones to complete.
func (l *Loader) Stop() { l.inner.Stop() }

// Stats returns lightweight delivery statistics.
func (l *Loader) Stats() (delivered, errors int64) {
	return l.inner.DeliveredCount(), l.inner.ErrorCount()
}

// Get starts a request for uri.  Finish with Load.
func (l *Loader) Get(uri string) *RequestBuilder {
	return &RequestBuilder{loader: l, uri: uri}
}

// ── RequestBuilder ────────────────────────────────────────────────────────────

// RequestBuilder assembles a request.  Builder state is finalized into an
// immutable core.Request when Load is called, so nothing mutable crosses
// into the background pool.
type RequestBuilder struct {
	loader      *Loader
	uri         string
	placeholder core.PlaceholderRef
	transform   core.Transform
}

// WithPlaceholder sets the placeholder reference applied to the target when
// the load fails.
func (b *RequestBuilder) WithPlaceholder(ref core.PlaceholderRef) *RequestBuilder {
	b.placeholder = ref
	return b
}

// WithTransform sets an optional post-decode transform.
func (b *RequestBuilder) WithTransform(t core.Transform) *RequestBuilder {
	b.transform = t
	return b
}

// Load submits the request against target.  The target's current size is
// read synchronously here — a target that has not been laid out yet reports
// zero and the decode runs at full resolution.  Load never blocks on
// network or decode I/O; fetch and decode failures surface only as a
// placeholder (or nothing) on the target.
func (b *RequestBuilder) Load(target core.Target) error {
	width, height := 0, 0
	if target != nil {
		width, height = target.Size()
	}
	req := core.Request{
		ID:           uuid.NewString(),
		URI:          b.uri,
		Placeholder:  b.placeholder,
		TargetWidth:  width,
		TargetHeight: height,
		Transform:    b.transform,
	}
	return b.loader.inner.Submit(req, target)
}

// ── Transform constructors ────────────────────────────────────────────────────

// Fit returns a transform that scales the decoded image down to fit inside
// width×height, preserving aspect ratio.
func Fit(width, height int) core.Transform {
	return &transform.FitStep{Width: width, Height: height}
}

// Fill returns a transform that scales and centre-crops the decoded image to
// exactly width×height.
func Fill(width, height int) core.Transform {
	return &transform.FillStep{Width: width, Height: height}
}

// Grayscale returns a transform that converts the decoded image to grayscale.
func Grayscale() core.Transform { return &transform.GrayscaleStep{} }
