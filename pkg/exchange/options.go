package exchange

import (
	"time"

	"restfeed/pkg/core"
)

type Option func(*Options)

// Options carries per-call parameters. Retry and RetryWait control the
// transport retry policy for that single call, overriding the client's
// configured defaults.
type Options struct {
	Symbol    string
	Statuses  []core.OrderStatus
	StartTime time.Time
	EndTime   time.Time
	Retry     int
	RetryWait time.Duration
}

// WithSymbol filters the call to a single trading pair, given in the
// caller's standard format.
func WithSymbol(symbol string) Option {
	return func(o *Options) {
		o.Symbol = symbol
	}
}

// WithStatuses filters an order listing to the given statuses. Each status
// becomes its own query parameter, in the order given.
func WithStatuses(statuses ...core.OrderStatus) Option {
	return func(o *Options) {
		o.Statuses = statuses
	}
}

// WithTimeRange filters fills to those created within [start, end],
// inclusive on both ends. The filter is applied client-side after fetching.
func WithTimeRange(start, end time.Time) Option {
	return func(o *Options) {
		o.StartTime = start
		o.EndTime = end
	}
}

// WithRetry sets the transport retry budget for this call: the number of
// re-attempts after the first failure. HTTP error statuses are never retried.
func WithRetry(retries int) Option {
	return func(o *Options) {
		o.Retry = retries
	}
}

// WithUnlimitedRetry retries transport failures until the call succeeds or
// the context is canceled.
func WithUnlimitedRetry() Option {
	return func(o *Options) {
		o.Retry = core.RetryUnlimited
	}
}

// WithRetryWait sets the fixed pause between transport retries for this call.
func WithRetryWait(wait time.Duration) Option {
	return func(o *Options) {
		o.RetryWait = wait
	}
}

// ApplyOptions copies defaults and applies opts on top. Explicitly set
// options always win over defaults, including zero values.
func ApplyOptions(defaults *Options, opts ...Option) *Options {
	o := &Options{}
	if defaults != nil {
		*o = *defaults
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
