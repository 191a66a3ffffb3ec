// Package batch runs independent work items through a bounded pool of
// goroutines.  Item failures never cancel sibling items; every item yields an
// ItemResult and the batch yields a BatchResult with atomic counters.
package batch

import (
	"context"
	stdliberrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/tinydock/pkg/errors"
)

// ---------------------------------------------------------------------------
// ItemStatus enumeration
// ---------------------------------------------------------------------------

// ItemStatus represents the outcome status of a single batch item.
type ItemStatus int

const (
	ItemStatusSuccess   ItemStatus = iota // processing completed successfully
	ItemStatusFailed                      // processing failed with an error
	ItemStatusTimeout                     // processing exceeded its timeout
	ItemStatusCancelled                   // the batch context ended before the item ran
)

// String returns the human-readable representation of an ItemStatus.
func (s ItemStatus) String() string {
	switch s {
	case ItemStatusSuccess:
		return "SUCCESS"
	case ItemStatusFailed:
		return "FAILED"
	case ItemStatusTimeout:
		return "TIMEOUT"
	case ItemStatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ---------------------------------------------------------------------------
// Generic types
// ---------------------------------------------------------------------------

// ProcessFunc processes a single item.  The context carries the per-item
// timeout when one is configured.
type ProcessFunc[T, R any] func(ctx context.Context, item T) (R, error)

// ItemResult holds the outcome of one item.
type ItemResult[R any] struct {
	Index    int           `json:"index"`
	Result   R             `json:"result"`
	Error    error         `json:"-"`
	Duration time.Duration `json:"duration"`
	Status   ItemStatus    `json:"status"`
}

// BatchResult aggregates a whole run.  Results are in input order.
type BatchResult[R any] struct {
	Results        []*ItemResult[R] `json:"results"`
	TotalCount     int              `json:"total_count"`
	SuccessCount   int              `json:"success_count"`
	FailureCount   int              `json:"failure_count"`
	CancelledCount int              `json:"cancelled_count"`
	TotalDuration  time.Duration    `json:"total_duration"`
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

type config struct {
	maxConcurrency int
	itemTimeout    time.Duration
	onItemDone     func(index int, status ItemStatus, err error, d time.Duration)
}

// Option configures a Processor.
type Option func(*config)

// WithMaxConcurrency sets the number of items processed at once.  Values
// below 1 are ignored; the default is 1 (sequential).
func WithMaxConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConcurrency = n
		}
	}
}

// WithItemTimeout bounds every item.  Zero disables the bound.
func WithItemTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.itemTimeout = d
		}
	}
}

// WithOnItemDone registers a callback invoked after every item, from the
// worker goroutine.  The callback must be safe for concurrent use.
func WithOnItemDone(fn func(index int, status ItemStatus, err error, d time.Duration)) Option {
	return func(c *config) {
		c.onItemDone = fn
	}
}

// ---------------------------------------------------------------------------
// Processor
// ---------------------------------------------------------------------------

// Processor runs a ProcessFunc over a slice of items.
type Processor[T, R any] struct {
	cfg config
}

// NewProcessor creates a Processor with the supplied options.
func NewProcessor[T, R any](opts ...Option) *Processor[T, R] {
	cfg := config{maxConcurrency: 1}
	for _, o := range opts {
		o(&cfg)
	}
	return &Processor[T, R]{cfg: cfg}
}

// Concurrency returns the configured pool size.
func (p *Processor[T, R]) Concurrency() int { return p.cfg.maxConcurrency }

// Process runs fn for every item.  The only error returned is a nil fn; item
// failures are reported in the BatchResult.  When ctx ends, items that have
// not started are reported as cancelled and in-flight items observe the
// cancellation through their context.
func (p *Processor[T, R]) Process(ctx context.Context, items []T, fn ProcessFunc[T, R]) (*BatchResult[R], error) {
	if fn == nil {
		return nil, errors.InvalidParam("process function must not be nil")
	}

	start := time.Now()
	results := make([]*ItemResult[R], len(items))

	var succeeded, failed, cancelled atomic.Int64

	// Workers never return an error to the group, so one failure cannot
	// cancel its siblings.
	g := new(errgroup.Group)
	g.SetLimit(p.cfg.maxConcurrency)

	for i := range items {
		idx, item := i, items[i]
		if ctx.Err() != nil {
			results[idx] = &ItemResult[R]{Index: idx, Error: ctx.Err(), Status: ItemStatusCancelled}
			cancelled.Add(1)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[idx] = &ItemResult[R]{Index: idx, Error: ctx.Err(), Status: ItemStatusCancelled}
				cancelled.Add(1)
				return nil
			}
			ir := p.processOne(ctx, idx, item, fn)
			results[idx] = ir
			if ir.Status == ItemStatusSuccess {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			if p.cfg.onItemDone != nil {
				p.cfg.onItemDone(idx, ir.Status, ir.Error, ir.Duration)
			}
			return nil
		})
	}
	_ = g.Wait()

	return &BatchResult[R]{
		Results:        results,
		TotalCount:     len(items),
		SuccessCount:   int(succeeded.Load()),
		FailureCount:   int(failed.Load()),
		CancelledCount: int(cancelled.Load()),
		TotalDuration:  time.Since(start),
	}, nil
}

func (p *Processor[T, R]) processOne(ctx context.Context, idx int, item T, fn ProcessFunc[T, R]) *ItemResult[R] {
	itemCtx := ctx
	if p.cfg.itemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, p.cfg.itemTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := fn(itemCtx, item)
	ir := &ItemResult[R]{
		Index:    idx,
		Result:   res,
		Error:    err,
		Duration: time.Since(start),
		Status:   ItemStatusSuccess,
	}
	if err != nil {
		ir.Status = classifyError(itemCtx, err)
	}
	return ir
}

// classifyError maps an item error to a status.  A deadline hit by the item
// context is a timeout; anything else is a failure.
func classifyError(itemCtx context.Context, err error) ItemStatus {
	if stdliberrors.Is(err, context.DeadlineExceeded) || stdliberrors.Is(itemCtx.Err(), context.DeadlineExceeded) {
		return ItemStatusTimeout
	}
	return ItemStatusFailed
}

//Personal.AI order the ending
