package metrics

import "time"

type Tags map[string]string

// Client receives counters and timings from the scheduler. Implementations
// must be cheap: they are called from the run loop.
type Client interface {
	Counter(name string, tags Tags, value float64)

	Distribution(name string, tags Tags, value float64)

	Timing(name string, tags Tags, duration time.Duration)

	WithTags(tags Tags) Client
}
