// Package poller repeats a status fetch until the result is terminal or the
// caller cancels.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultInterval     = 3 * time.Second
	DefaultFetchTimeout = 10 * time.Second
)

// Config describes what to poll and how to report it.
type Config[T any] struct {
	// Fetch performs one status request.
	Fetch func(ctx context.Context) (T, error)
	// IsTerminal reports whether polling should stop after result.
	IsTerminal func(result T) bool
	// Interval between the end of one fetch and the start of the next.
	Interval time.Duration
	// FetchTimeout bounds a single request. Negative disables the bound.
	FetchTimeout time.Duration
	// OnResult receives every successful result, in order.
	OnResult func(result T)
	// OnError receives every failed fetch. Failures do not stop polling.
	OnError func(err error)
	Logger  *zap.Logger
}

// Poller runs Config.Fetch on an interval. At most one request is in flight
// per Poller: the loop and FetchNow callers share it.
type Poller[T any] struct {
	cfg   Config[T]
	log   *zap.Logger
	group singleflight.Group

	mu       sync.Mutex
	fetching bool
	fetches  int
	last     T
	hasLast  bool
	lastErr  error
	terminal bool
}

// New returns a poller for cfg, filling in defaults.
func New[T any](cfg Config[T]) *Poller[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.IsTerminal == nil {
		cfg.IsTerminal = func(T) bool { return false }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller[T]{cfg: cfg, log: log}
}

// Run fetches immediately, then once per interval, until a result satisfies
// IsTerminal or ctx is done. It returns the terminal result, or the last
// successful result together with ctx.Err().
func (p *Poller[T]) Run(ctx context.Context) (T, error) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	first := true
	for {
		select {
		case <-ctx.Done():
			last, _ := p.Last()
			return last, ctx.Err()
		case <-timer.C:
		}

		// A FetchNow between ticks may already have seen the terminal result.
		if !first {
			if res, ok := p.terminalResult(); ok {
				return res, nil
			}
		}
		first = false

		res, err := p.FetchNow(ctx)
		if err == nil && p.cfg.IsTerminal(res) {
			return res, nil
		}
		if ctx.Err() != nil {
			last, _ := p.Last()
			return last, ctx.Err()
		}
		timer.Reset(p.cfg.Interval)
	}
}

// FetchNow performs one fetch outside the schedule. A call made while a
// request is already in flight waits for that request and shares its result.
// A shared request runs under the context of whichever caller started it, so
// a short deadline passed here can cut short a fetch the loop is waiting on,
// and the loop counts that as a failed fetch.
func (p *Poller[T]) FetchNow(ctx context.Context) (T, error) {
	ch := p.group.DoChan("fetch", func() (any, error) {
		return p.fetchOnce(ctx)
	})
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, _ := r.Val.(T)
		return v, nil
	}
}

func (p *Poller[T]) fetchOnce(ctx context.Context) (any, error) {
	p.mu.Lock()
	p.fetching = true
	p.fetches++
	n := p.fetches
	p.mu.Unlock()

	fctx := ctx
	if p.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
		defer cancel()
	}
	start := time.Now()
	res, err := p.cfg.Fetch(fctx)

	p.mu.Lock()
	p.fetching = false
	if err != nil {
		p.lastErr = err
	} else {
		p.last, p.hasLast, p.lastErr = res, true, nil
		p.terminal = p.cfg.IsTerminal(res)
	}
	terminal := p.terminal
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("status fetch failed", zap.Int("fetch", n), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
		return nil, err
	}
	p.log.Debug("status fetched", zap.Int("fetch", n), zap.Duration("elapsed", time.Since(start)), zap.Bool("terminal", terminal))
	if p.cfg.OnResult != nil {
		p.cfg.OnResult(res)
	}
	return res, nil
}

func (p *Poller[T]) terminalResult() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast && p.terminal
}

// IsFetching reports whether a request is outstanding.
func (p *Poller[T]) IsFetching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}

// Last returns the most recent successful result.
func (p *Poller[T]) Last() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

// LastErr returns the error of the most recent fetch, or nil if it succeeded.
func (p *Poller[T]) LastErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Fetches returns how many requests have been issued.
func (p *Poller[T]) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}
