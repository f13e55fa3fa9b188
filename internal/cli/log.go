package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Checked 312 components (4ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks reports graph and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoad(_ context.Context, source string, components int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("load", "source", source, "components", components, "duration", d)
}

func (h *logHooks) OnResolve(_ context.Context, query string, matches int, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "query", query, "error", err)
		return
	}
	h.logger.Debug("resolve", "query", query, "matches", matches)
}

func (h *logHooks) OnFilter(_ context.Context, seeds, kept int) {
	h.logger.Debug("filter", "seeds", seeds, "kept", kept)
}

func (h *logHooks) OnCheck(_ context.Context, findings int, d time.Duration, err error) {
	h.logger.Debug("check", "findings", findings, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.GraphHooks = (*logHooks)(nil)
	_ observability.CacheHooks = (*logHooks)(nil)
)
