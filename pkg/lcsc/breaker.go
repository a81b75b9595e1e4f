package lcsc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// DefaultTripThreshold is the number of consecutive failures that opens
// the breaker.
const DefaultTripThreshold = 5

// BreakerFetcher stops calling a failing tool. Once the wrapped fetcher
// has failed threshold times in a row, calls fail fast with
// ErrToolUnavailable until the backoff interval has passed.
type BreakerFetcher struct {
	next    Fetcher
	breaker *circuit.Breaker
}

// NewBreakerFetcher wraps next. A threshold below 1 selects
// DefaultTripThreshold.
func NewBreakerFetcher(next Fetcher, threshold int) *BreakerFetcher {
	if threshold < 1 {
		threshold = DefaultTripThreshold
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	return &BreakerFetcher{
		next: next,
		breaker: circuit.NewBreakerWithOptions(&circuit.Options{
			BackOff:    expBackoff,
			ShouldTrip: circuit.ConsecutiveTripFunc(int64(threshold)),
		}),
	}
}

// Available implements Fetcher.
func (b *BreakerFetcher) Available() bool {
	return b.next.Available()
}

// Tripped reports whether the breaker is open.
func (b *BreakerFetcher) Tripped() bool {
	return b.breaker.Tripped()
}

// Fetch implements Fetcher.
func (b *BreakerFetcher) Fetch(ctx context.Context, id, outDir string) (Result, error) {
	if !b.breaker.Ready() {
		return Result{}, fmt.Errorf("%w: circuit open after repeated failures", ErrToolUnavailable)
	}

	var res Result
	err := b.breaker.Call(func() error {
		var fetchErr error
		res, fetchErr = b.next.Fetch(ctx, id, outDir)
		return fetchErr
	}, 0)
	if errors.Is(err, circuit.ErrBreakerOpen) {
		return Result{}, fmt.Errorf("%w: circuit open after repeated failures", ErrToolUnavailable)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
