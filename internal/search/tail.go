package search

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/source"
)

// DefaultTailInterval is the pause between tail polls.
const DefaultTailInterval = 3 * time.Second

// TailState remembers the newest event timestamp a session has seen.
// The zero value has seen nothing.
type TailState struct {
	last int64
	seen bool
}

// Observe raises the high-water mark to ts. It never lowers it.
func (s *TailState) Observe(ts int64) {
	if !s.seen || ts > s.last {
		s.last = ts
		s.seen = true
	}
}

// ObserveResult records the maximum timestamp of r, if any.
func (s *TailState) ObserveResult(r FetchResult) {
	if r.HasMax {
		s.Observe(r.MaxTimestamp)
	}
}

// LastSeen returns the high-water mark and whether anything was observed.
func (s *TailState) LastSeen() (int64, bool) {
	return s.last, s.seen
}

// NextStart returns the start of the next poll window: one millisecond past
// the newest event seen, or originalStartMs before anything was seen.
func (s *TailState) NextStart(originalStartMs int64) int64 {
	if !s.seen {
		return originalStartMs
	}
	if s.last == math.MaxInt64 {
		return s.last
	}
	return s.last + 1
}

// Tailer polls a group for events newer than those already delivered.
type Tailer struct {
	Store    source.Store
	Interval time.Duration
	Now      func() time.Time
	Emit     func(kind model.LineKind, text string)
	Logger   *slog.Logger

	// After replaces time.After in tests.
	After func(d time.Duration) <-chan time.Time
}

// Run polls until ctx is cancelled. A failed poll emits a "[tail error]"
// line and polling continues.
func (t *Tailer) Run(ctx context.Context, group, filter string, startMs int64, state *TailState) {
	logger := t.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultTailInterval
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}
	after := t.After
	if after == nil {
		after = time.After
	}

	for polls := 1; ; polls++ {
		if ctx.Err() != nil {
			return
		}

		w := Window{
			Group:   group,
			StartMs: state.NextStart(startMs),
			EndMs:   now().UnixMilli(),
			Filter:  filter,
		}
		if w.StartMs <= w.EndMs {
			t.poll(ctx, logger, w, state, polls)
		}

		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-after(interval):
		}
	}
}

func (t *Tailer) poll(ctx context.Context, logger *slog.Logger, w Window, state *TailState, n int) {
	res, err := Fetch(ctx, t.Store, w)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("tail poll failed", "group", w.Group, "poll", n, "error", err)
		t.Emit(model.LineError, "[tail error] "+err.Error())
		return
	}
	if res.Events > 0 {
		logger.Debug("tail poll", "group", w.Group, "poll", n, "events", res.Events,
			"window_start", w.StartMs, "window_end", w.EndMs)
	}
	for _, line := range res.Lines {
		t.Emit(model.LineText, line)
	}
	state.ObserveResult(res)
}
