package core

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-loader/config"
	apperrors "github.com/Skryldev/image-loader/errors"
)

// Engine is the request pipeline orchestrator.  It owns the background pool
// and is safe for concurrent use.  Unlike a process-wide static pool, an
// Engine is explicitly constructed and carries its own lifecycle: call
// Start() before submitting requests and Stop() at process exit.
type Engine struct {
	cfg      config.Config
	registry Registry
	codec    Codec
	hooks    []Hook
	logger   Logger
	metrics  MetricsCollector

	// Background pool.
	jobQueue chan job
	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once
	stopMu   sync.RWMutex // orders Submit's accept against Stop's close
	shutdown chan struct{}

	// Atomic counters for lightweight internal stats.
	deliveredCount int64
	errorCount     int64
}

// job pairs a request with its delivery target for the pool.
type job struct {
	req    Request
	target Target
}

// NewEngine creates an Engine with the given config, fetcher registry, and
// codec.  Call Start() before submitting requests; call Stop() when done.
func NewEngine(cfg config.Config, reg Registry, codec Codec) *Engine {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Engine{
		cfg:      cfg,
		registry: reg,
		codec:    codec,
		logger:   nopLogger{},
		jobQueue: make(chan job, queueSize),
		shutdown: make(chan struct{}),
	}
}

// SetLogger attaches a structured logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	e.logger = l
}

// SetMetrics attaches a metrics collector.
func (e *Engine) SetMetrics(m MetricsCollector) { e.metrics = m }

// AddHook registers a lifecycle hook.
func (e *Engine) AddHook(h Hook) { e.hooks = append(e.hooks, h) }

// Registry returns the underlying fetcher registry so callers can register
// additional schemes after construction.
func (e *Engine) Registry() Registry { return e.registry }

// Start launches the worker pool.  It is idempotent.  In cached pool mode
// there is no standing pool and Start only marks the engine runnable.
func (e *Engine) Start() {
	e.once.Do(func() {
		if e.cfg.PoolMode == config.PoolCached {
			return
		}
		workerCount := e.cfg.WorkerCount
		if workerCount <= 0 {
			workerCount = runtime.NumCPU()
		}
		for i := 0; i < workerCount; i++ {
			e.wg.Add(1)
			go e.worker()
		}
	})
}

// Stop rejects further submissions and waits for every accepted request,
// queued or in flight, to run to completion.  Accepted requests are never
// cancelled.
func (e *Engine) Stop() {
	e.stopMu.Lock()
	e.stopOnce.Do(func() { close(e.shutdown) })
	e.stopMu.Unlock()
	e.wg.Wait()
}

// Submit enqueues the full fetch→probe→decode→deliver sequence for req onto
// the background pool.  It never blocks the calling goroutine on network or
// decode I/O, and it never surfaces fetch or decode failures: those are
// swallowed inside the pipeline and become a Fallback or NoOp delivery.  The
// returned error covers only invalid input, a full queue, or a stopped
// engine.
func (e *Engine) Submit(req Request, target Target) error {
	if req.URI == "" {
		return apperrors.New(apperrors.CategoryInput, "submit", apperrors.ErrEmptyURI)
	}
	if target == nil {
		return apperrors.New(apperrors.CategoryInput, "submit", apperrors.ErrNilTarget)
	}
	// The shutdown check and the accept (wg.Add or enqueue) must be atomic
	// with respect to Stop, so an accepted request is always covered by
	// Stop's wait.
	e.stopMu.RLock()
	defer e.stopMu.RUnlock()
	select {
	case <-e.shutdown:
		return apperrors.New(apperrors.CategoryPipeline, "submit", apperrors.ErrEngineStopped)
	default:
	}

	if e.cfg.PoolMode == config.PoolCached {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.runRequest(job{req: req, target: target})
		}()
		e.logger.Debug("request.queued", "request_id", req.ID, "uri", req.URI, "pool", "cached")
		return nil
	}

	select {
	case e.jobQueue <- job{req: req, target: target}:
		e.logger.Debug("request.queued", "request_id", req.ID, "uri", req.URI, "pool", "fixed")
		return nil
	default:
		return apperrors.New(apperrors.CategoryPipeline, "submit", apperrors.ErrQueueFull)
	}
}

// DeliveredCount returns the total number of completed deliveries.
func (e *Engine) DeliveredCount() int64 { return atomic.LoadInt64(&e.deliveredCount) }

// ErrorCount returns the total number of swallowed pipeline failures.
func (e *Engine) ErrorCount() int64 { return atomic.LoadInt64(&e.errorCount) }

// ── worker pool internals ─────────────────────────────────────────────────────

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.shutdown:
			// Submit stopped accepting; finish what was already queued so
			// every accepted request still produces its delivery.
			for {
				select {
				case j := <-e.jobQueue:
					e.runRequest(j)
				default:
					return
				}
			}
		case j := <-e.jobQueue:
			e.runRequest(j)
		}
	}
}

// runRequest executes one request end to end on the current goroutine and
// makes exactly one delivery to the target's owning context.
func (e *Engine) runRequest(j job) {
	// No deadline here: timeouts belong to the underlying connection (the
	// HTTP client's own timeout), not to the pipeline.
	ctx := context.Background()

	outcome := e.execute(ctx, j.req)

	e.notifyBefore(ctx, &j.req, StateDelivering)
	start := time.Now()
	Deliver(j.target, outcome)
	e.notifyAfter(ctx, &j.req, StateDelivering, time.Since(start), nil)

	atomic.AddInt64(&e.deliveredCount, 1)
	if e.metrics != nil {
		e.metrics.RecordOutcome(outcome.Kind.String())
	}
	e.logger.Debug("request.done",
		"request_id", j.req.ID,
		"uri", j.req.URI,
		"outcome", outcome.Kind.String(),
	)
}

// execute runs fetch → probe → calculate → decode and maps any failure to a
// Fallback or NoOp outcome.  Errors never escape this boundary.
func (e *Engine) execute(ctx context.Context, req Request) Outcome {
	img, err := e.loadImage(ctx, req)
	if err != nil {
		atomic.AddInt64(&e.errorCount, 1)
		e.logger.Error("request.failed",
			"request_id", req.ID,
			"uri", req.URI,
			"error", err.Error(),
		)
		if req.Placeholder != nil {
			return Fallback(req.Placeholder)
		}
		return NoOp()
	}
	return Success(img)
}

// loadImage runs the I/O sequence for one request.  Sequencing is strict:
// the probe must complete before the decode begins, because the sample
// factor is the decode's input.  Each pass owns exactly one open stream and
// closes it before the stage returns, on every exit path.
func (e *Engine) loadImage(ctx context.Context, req Request) (image.Image, error) {
	fetcher, err := e.fetcherFor(req.URI)
	if err != nil {
		return nil, err
	}

	// Pass 1: open the stream and probe intrinsic bounds only.  No pixel
	// buffer is allocated before the sample factor is known.
	stream, err := e.fetch(ctx, &req, fetcher)
	if err != nil {
		return nil, err
	}
	intrinsic, err := e.probe(ctx, &req, stream)
	if err != nil {
		return nil, err
	}

	factor := CalculateSampleSize(intrinsic, Dimensions{Width: req.TargetWidth, Height: req.TargetHeight})

	// Pass 2: the probe may have consumed the first stream, so open the
	// connection again rather than rewinding, and decode at 1/factor.
	stream, err = e.fetch(ctx, &req, fetcher)
	if err != nil {
		return nil, err
	}
	img, err := e.decode(ctx, &req, stream, factor)
	if err != nil {
		return nil, err
	}

	if req.Transform != nil {
		img, err = req.Transform.Apply(ctx, img)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryPipeline, "transform."+req.Transform.Name(), err)
		}
	}
	return img, nil
}

func (e *Engine) fetch(ctx context.Context, req *Request, fetcher Fetcher) (io.ReadCloser, error) {
	e.notifyBefore(ctx, req, StateFetching)
	start := time.Now()
	rc, err := fetcher.Fetch(ctx, req.URI)
	e.notifyAfter(ctx, req, StateFetching, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &countingReadCloser{rc: rc, metrics: e.metrics}, nil
}

func (e *Engine) probe(ctx context.Context, req *Request, stream io.ReadCloser) (Dimensions, error) {
	defer stream.Close()
	e.notifyBefore(ctx, req, StateProbing)
	start := time.Now()
	dims, err := e.codec.ProbeBounds(ctx, stream)
	e.notifyAfter(ctx, req, StateProbing, time.Since(start), err)
	return dims, err
}

func (e *Engine) decode(ctx context.Context, req *Request, stream io.ReadCloser, factor int) (image.Image, error) {
	defer stream.Close()
	e.notifyBefore(ctx, req, StateDecoding)
	start := time.Now()
	img, err := e.codec.Decode(ctx, stream, factor)
	e.notifyAfter(ctx, req, StateDecoding, time.Since(start), err)
	return img, err
}

// ── stage helpers ─────────────────────────────────────────────────────────────

func (e *Engine) fetcherFor(uri string) (Fetcher, error) {
	scheme := uriScheme(uri)
	f, ok := e.registry.FetcherFor(scheme)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryNetwork, "fetch",
			fmt.Errorf("%w: %q", apperrors.ErrUnsupportedScheme, scheme))
	}
	return f, nil
}

// uriScheme extracts the scheme of uri; bare paths map to "file".
func uriScheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || (len(u.Scheme) == 1 && !strings.Contains(uri, "://")) {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

func (e *Engine) notifyBefore(ctx context.Context, req *Request, state State) {
	for _, h := range e.hooks {
		h.BeforeStage(ctx, req, state)
	}
}

func (e *Engine) notifyAfter(ctx context.Context, req *Request, state State, d time.Duration, err error) {
	for _, h := range e.hooks {
		h.AfterStage(ctx, req, state, d, err)
	}
	if e.metrics != nil {
		e.metrics.RecordStageTime(state.String(), d)
		if err != nil {
			e.metrics.RecordError(state.String(), string(categoryOf(err)))
		}
	}
}

func categoryOf(err error) apperrors.Category {
	for _, cat := range []apperrors.Category{
		apperrors.CategoryNetwork,
		apperrors.CategoryDecode,
		apperrors.CategoryPipeline,
		apperrors.CategoryInput,
	} {
		if apperrors.IsCategory(err, cat) {
			return cat
		}
	}
	return apperrors.CategoryPipeline
}

// countingReadCloser reports bytes read to the metrics collector on Close.
type countingReadCloser struct {
	rc      io.ReadCloser
	n       int64
	metrics MetricsCollector
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReadCloser) Close() error {
	if c.metrics != nil {
		c.metrics.RecordFetchedBytes(c.n)
		c.metrics = nil
	}
	return c.rc.Close()
}

// nopLogger discards everything; the default until SetLogger is called.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
