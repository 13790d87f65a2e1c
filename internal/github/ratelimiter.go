package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
)

// ErrBudgetExhausted is returned by the transport once a request has used
// up its subrequest allowance.
var ErrBudgetExhausted = errors.New("subrequest budget exhausted")

// Budget counts the outbound calls made on behalf of one inbound request.
type Budget struct {
	limit int64
	used  atomic.Int64
}

func NewBudget(limit int) *Budget {
	return &Budget{limit: int64(limit)}
}

// Take reserves one call. It returns false when the ceiling has been reached.
func (b *Budget) Take() bool {
	for {
		used := b.used.Load()
		if used >= b.limit {
			return false
		}
		if b.used.CompareAndSwap(used, used+1) {
			return true
		}
	}
}

func (b *Budget) Used() int {
	return int(b.used.Load())
}

func (b *Budget) Remaining() int {
	return int(b.limit - b.used.Load())
}

type budgetKey struct{}

// WithBudget attaches b to ctx so every call made with ctx is charged to it.
func WithBudget(ctx context.Context, b *Budget) context.Context {
	return context.WithValue(ctx, budgetKey{}, b)
}

// BudgetFromContext returns the budget attached to ctx, if any.
func BudgetFromContext(ctx context.Context) (*Budget, bool) {
	b, ok := ctx.Value(budgetKey{}).(*Budget)
	return b, ok
}

// BudgetMiddleware charges each round trip to the budget found in the
// request context. Requests without a budget pass through uncounted.
func BudgetMiddleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if b, ok := BudgetFromContext(req.Context()); ok && !b.Take() {
			logger.Warn("[Budget] refusing %s %s after %d calls", req.Method, req.URL.Host+req.URL.Path, b.Used())
			return nil, ErrBudgetExhausted
		}
		return next.RoundTrip(req)
	})
}

// RateLimitObserver tracks GitHub's primary rate limit headers. Cards must
// answer quickly, so it only reports a low allowance instead of sleeping.
type RateLimitObserver struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	lowWarn   int
}

func NewRateLimitObserver() *RateLimitObserver {
	return &RateLimitObserver{
		remaining: 5000,
		reset:     time.Now(),
		lowWarn:   100,
	}
}

func (r *RateLimitObserver) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

func (r *RateLimitObserver) updateFromHeaders(headers http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := headers.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if reset := headers.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.reset = time.Unix(val, 0)
		}
	}

	if r.remaining < r.lowWarn {
		logger.Warn("[RateLimiter] Low rate limit: %d remaining. Resets at %s", r.remaining, r.reset.Format(time.RFC1123))
	}
}

func (r *RateLimitObserver) Middleware(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			if !errors.Is(err, ErrBudgetExhausted) {
				logger.Error("Network error in RoundTrip: %v", err)
			}
			return nil, err
		}

		r.updateFromHeaders(resp.Header)
		return resp, nil
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
