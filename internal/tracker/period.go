// Package tracker accumulates usage events of the current tracking period and
// flushes the reduced set to durable storage.
//
// Deciding when a period ends is left to the caller.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/usagelog/internal/merge"
	"github.com/roach88/usagelog/internal/store"
	"github.com/roach88/usagelog/internal/usage"
)

// Sink receives closed periods. *store.Store implements it.
type Sink interface {
	Fold(ctx context.Context, req store.FoldRequest) (store.FoldResult, error)
}

// Period is the in-memory delta of the current tracking period.
//
// Every added event is reconciled immediately, so the period never holds two
// mergeable records of the same kind.
//
// Thread-safety: all methods are safe for concurrent use.
type Period struct {
	mu       sync.Mutex
	registry *merge.Registry
	tokens   TokenGenerator
	now      func() time.Time

	events  []usage.Event
	started time.Time

	// pending is a flush the sink failed to confirm. It is retried with the
	// same token before anything added later is sent.
	pending *store.FoldRequest
}

// Option configures a Period.
type Option func(*Period)

// WithRegistry sets the registry used to reconcile added events.
func WithRegistry(r *merge.Registry) Option {
	return func(p *Period) { p.registry = r }
}

// WithTokenGenerator sets the source of flush tokens.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(p *Period) { p.tokens = g }
}

// WithClock sets the time source used for period start and flush day.
func WithClock(now func() time.Time) Option {
	return func(p *Period) { p.now = now }
}

// NewPeriod starts an empty period.
// Defaults: merge.DefaultRegistry, UUIDv7Generator, time.Now.
func NewPeriod(opts ...Option) *Period {
	p := &Period{
		registry: merge.DefaultRegistry(),
		tokens:   UUIDv7Generator{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.started = p.now()
	return p
}

// Add reconciles an NFC-normalized copy of e into the period. e itself is not
// retained.
func (p *Period) Add(e usage.Event) error {
	if usage.IsNil(e) {
		return fmt.Errorf("add: %w", merge.ErrNilArgument)
	}
	c := usage.Normalize(e)

	p.mu.Lock()
	defer p.mu.Unlock()

	events, err := p.registry.MergeInto(p.events, c)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	p.events = events
	return nil
}

// Events returns deep copies of the period's reduced events.
func (p *Period) Events() []usage.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]usage.Event, len(p.events))
	for i, e := range p.events {
		out[i] = usage.CloneEvent(e)
	}
	return out
}

// Len returns the number of reduced events in the period.
func (p *Period) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// Pending returns the number of records of a failed flush awaiting retry.
func (p *Period) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return 0
	}
	return len(p.pending.Events)
}

// Started returns when the current period began.
func (p *Period) Started() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Flush folds the period into sink under (day, workspace) and starts a new
// period.
//
// An empty period is not sent. If the sink fails, the request is kept with its
// token and events added afterwards start a new period. The next Flush first
// retries the kept request unchanged, so a fold that did commit is reported as
// already applied and nothing is counted twice or lost.
func (p *Period) Flush(ctx context.Context, sink Sink, day, workspace string) (store.FoldResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var res store.FoldResult
	if p.pending != nil {
		r, err := p.fold(ctx, sink, *p.pending)
		if err != nil {
			return r, err
		}
		p.pending = nil
		res = r
	}

	if len(p.events) == 0 {
		return res, nil
	}

	req := store.FoldRequest{
		Day:       day,
		Workspace: workspace,
		Token:     p.tokens.Generate(),
		Events:    p.events,
	}
	p.events = nil
	p.started = p.now()

	r, err := p.fold(ctx, sink, req)
	if err != nil {
		p.pending = &req
		return r, err
	}
	return r, nil
}

func (p *Period) fold(ctx context.Context, sink Sink, req store.FoldRequest) (store.FoldResult, error) {
	res, err := sink.Fold(ctx, req)
	if err != nil {
		slog.Warn("flush failed, keeping period for retry",
			"day", req.Day, "workspace", req.Workspace, "token", req.Token, "records", len(req.Events), "error", err)
		return res, fmt.Errorf("flush: %w", err)
	}
	slog.Debug("flushed period",
		"day", req.Day,
		"workspace", req.Workspace,
		"token", req.Token,
		"records", len(req.Events),
		"applied", res.Applied,
		"seq", res.Seq,
	)
	return res, nil
}

// FlushToday is Flush with the day taken from the period clock.
func (p *Period) FlushToday(ctx context.Context, sink Sink, workspace string) (store.FoldResult, error) {
	return p.Flush(ctx, sink, store.Day(p.now()), workspace)
}
