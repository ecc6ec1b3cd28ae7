package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/psacc/lumberjack/internal/filter"
	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/source"
	"github.com/psacc/lumberjack/internal/timespec"
)

const defaultBuffer = 256

// Dialer opens the store a session queries. It is called once per session
// from the worker goroutine, never from Start. Dialers that are expensive to
// call should cache their store.
type Dialer func(ctx context.Context) (source.Store, error)

// Request describes one search as typed into the form.
type Request struct {
	Group  string
	Start  string // time expression, "" = 15 minutes ago
	End    string // time expression, "" = now
	Filter string // shorthand or native filter text
	Tail   bool
}

// Coordinator runs at most one live search session at a time and delivers
// every session's output, in order, on a single channel. Each line carries
// the ID of the session that produced it; readers drop lines whose ID is no
// longer Current.
type Coordinator struct {
	dial     Dialer
	out      chan model.ResultLine
	done     chan struct{}
	interval time.Duration
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
	newID    func() string
	logger   *slog.Logger

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used by workers.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithTailInterval sets the pause between tail polls.
func WithTailInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock replaces the wall clock used to resolve time expressions and
// tail windows.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithAfter replaces time.After for the tail sleep.
func WithAfter(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Coordinator) { c.after = after }
}

// WithBuffer sets the capacity of the output channel.
func WithBuffer(n int) Option {
	return func(c *Coordinator) {
		if n >= 0 {
			c.out = make(chan model.ResultLine, n)
		}
	}
}

// WithIDs replaces the session ID generator.
func WithIDs(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

// New returns a Coordinator that opens its store with dial at the start of
// each session.
func New(dial Dialer, opts ...Option) *Coordinator {
	c := &Coordinator{
		dial:     dial,
		out:      make(chan model.ResultLine, defaultBuffer),
		done:     make(chan struct{}),
		interval: DefaultTailInterval,
		now:      time.Now,
		after:    time.After,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "search")
	return c
}

// Lines returns the channel every session writes to.
func (c *Coordinator) Lines() <-chan model.ResultLine {
	return c.out
}

// Current returns the ID of the most recently started session.
func (c *Coordinator) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsCurrent reports whether l belongs to the most recently started session.
func (c *Coordinator) IsCurrent(l model.ResultLine) bool {
	return l.Session == c.Current()
}

// Start cancels the running session, if any, and starts a new one. It
// returns immediately with the new session's ID; the superseded worker may
// still be finishing in-flight I/O.
func (c *Coordinator) Start(req Request) string {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	id := c.newID()
	if c.closed {
		c.mu.Unlock()
		return id
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.current = id
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("session start", logging.FieldSession, model.ShortID(id),
		logging.FieldGroup, req.Group, "tail", req.Tail)

	go func() {
		defer c.wg.Done()
		defer cancel()
		c.run(ctx, id, req)
	}()
	return id
}

// Stop requests cancellation of the current session. It does not wait for
// the worker to exit; the session still ends with its terminal line.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Close stops the current session and waits for all workers to exit.
// Lines not yet read are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	close(c.done)
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coordinator) run(ctx context.Context, id string, req Request) {
	logger := c.logger.With(logging.FieldSession, model.ShortID(id), logging.FieldGroup, req.Group)
	emit := func(kind model.LineKind, text string) {
		select {
		case c.out <- model.ResultLine{Session: id, Kind: kind, Text: text}:
		case <-c.done:
		}
	}
	defer emit(model.LineDone, "")

	emit(model.LineInfo, fmt.Sprintf("Searching %s ...", req.Group))

	store, err := c.openStore(ctx)
	if err != nil {
		logger.Warn("client init failed", logging.Error(err))
		emit(model.LineError, "[client error] "+err.Error())
		return
	}

	nowMs := c.now().UnixMilli()
	startMs, err := timespec.ResolveStart(req.Start, nowMs)
	if err != nil {
		emit(model.LineError, "[search error] "+err.Error())
		return
	}
	endMs, err := timespec.ResolveEnd(req.End, nowMs)
	if err != nil {
		emit(model.LineError, "[search error] "+err.Error())
		return
	}
	pattern := filter.Compile(req.Filter)

	logger.Debug("fetch", "start", startMs, "end", endMs, "filter", pattern)
	state := &TailState{}
	res, err := Fetch(ctx, store, Window{Group: req.Group, StartMs: startMs, EndMs: endMs, Filter: pattern})
	switch {
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		logger.Warn("search failed", logging.Error(err))
		emit(model.LineError, "[search error] "+err.Error())
	default:
		emit(model.LineHeader, fmt.Sprintf("--- %d results ---", res.Events))
		for _, line := range res.Lines {
			emit(model.LineText, line)
		}
		state.ObserveResult(res)
	}

	if !req.Tail {
		return
	}

	t := &Tailer{
		Store:    store,
		Interval: c.interval,
		Now:      c.now,
		Emit:     emit,
		Logger:   logger,
		After:    c.after,
	}
	t.Run(ctx, req.Group, pattern, startMs, state)
	logger.Debug("tail stopped")
}

func (c *Coordinator) openStore(ctx context.Context) (source.Store, error) {
	if c.dial == nil {
		return nil, &source.InitError{Backend: "none", Err: fmt.Errorf("no backend configured")}
	}
	return c.dial(ctx)
}
