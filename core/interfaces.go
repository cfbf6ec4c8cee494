package core

import (
	"context"
	"image"
	"io"
)

// Fetcher opens a readable byte stream for a URI.
// Implementations live in adapters/fetcher/.
//
// A single request may call Fetch twice for the same URI: once for the
// bounds probe and once for the real decode, because probing consumes the
// stream.  Implementations must not assume connection reuse between calls.
// The caller owns the returned stream and closes it on every exit path.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Codec probes and decodes image byte streams.
// Implementations live in adapters/codec/.
type Codec interface {
	// ProbeBounds reads only the intrinsic width/height from r without
	// materialising a pixel buffer.
	ProbeBounds(ctx context.Context, r io.Reader) (Dimensions, error)
	// Decode decodes r into a pixel buffer, honouring sampleFactor as a
	// decoding hint: the returned image is intrinsic/sampleFactor in each
	// dimension.  A factor of 1 must preserve the intrinsic dimensions.
	Decode(ctx context.Context, r io.Reader, sampleFactor int) (image.Image, error)
}

// Transform is an optional post-decode transformation applied on the worker
// before delivery.  Implementations live in transform/ and must be safe for
// concurrent use across goroutines.
type Transform interface {
	Name() string
	Apply(ctx context.Context, img image.Image) (image.Image, error)
}

// Target is the external display surface a request loads into.  It is owned
// by a single context (UI thread, run loop); SetImage and SetPlaceholder are
// only safe on that context, which Post marshals onto.  surface.ImageSurface
// is a reference implementation.
type Target interface {
	// Size returns the target's current width and height.  Zero means the
	// target has not been laid out yet.
	Size() (width, height int)
	// SetImage writes a decoded pixel buffer to the surface.
	SetImage(img image.Image)
	// SetPlaceholder applies the caller's placeholder reference.
	SetPlaceholder(ref PlaceholderRef)
	// Post runs fn on the target's owning context.
	Post(fn func())
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// MetricsCollector receives performance observations from the engine.
type MetricsCollector interface {
	RecordStageTime(state string, d interface{ Seconds() float64 })
	RecordFetchedBytes(bytes int64)
	RecordOutcome(kind string)
	RecordError(state string, category string)
}

// Registry maps URI schemes to Fetcher implementations.
type Registry interface {
	FetcherFor(scheme string) (Fetcher, bool)
	RegisterFetcher(scheme string, f Fetcher)
}
