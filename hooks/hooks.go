// Package hooks provides production-ready Hook and Logger implementations.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-loader/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, fields...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, fields...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, fields...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, fields...)
}

// ParseLevel maps a config LogLevel string to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs every request stage transition.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStage(_ context.Context, req *core.Request, state core.State) {
	h.logger.Debug("request.stage.start",
		"request_id", req.ID,
		"uri", req.URI,
		"state", state.String(),
	)
}

func (h *LoggingHook) AfterStage(_ context.Context, req *core.Request, state core.State, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("request.stage.error",
			"request_id", req.ID,
			"uri", req.URI,
			"state", state.String(),
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("request.stage.done",
		"request_id", req.ID,
		"state", state.String(),
		"duration_ms", d.Milliseconds(),
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates engine metrics; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64 // cumulative ms per stage
	stageCalls       map[string]int64 // call count per stage
	stageErrors      map[string]int64
	outcomes         map[string]int64 // deliveries per outcome kind

	fetchedBytes int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageErrors:      make(map[string]int64),
		outcomes:         make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordStageTime(state string, d interface{ Seconds() float64 }) {
	ms := int64(d.Seconds() * 1000)
	m.mu.Lock()
	m.stageDurationsMs[state] += ms
	m.stageCalls[state]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordFetchedBytes(bytes int64) {
	atomic.AddInt64(&m.fetchedBytes, bytes)
}

func (m *InMemoryMetrics) RecordOutcome(kind string) {
	m.mu.Lock()
	m.outcomes[kind]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordError(state string, _ string) {
	m.mu.Lock()
	m.stageErrors[state]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsMs: make(map[string]int64, len(m.stageDurationsMs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		StageErrors:      make(map[string]int64, len(m.stageErrors)),
		Outcomes:         make(map[string]int64, len(m.outcomes)),
		FetchedBytes:     atomic.LoadInt64(&m.fetchedBytes),
	}
	for k, v := range m.stageDurationsMs {
		snap.StageDurationsMs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	for k, v := range m.stageErrors {
		snap.StageErrors[k] = v
	}
	for k, v := range m.outcomes {
		snap.Outcomes[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageErrors      map[string]int64
	Outcomes         map[string]int64
	FetchedBytes     int64
}

var _ core.MetricsCollector = (*InMemoryMetrics)(nil)
var _ core.Hook = (*LoggingHook)(nil)
