package port

import "context"

type CounterRepository interface {
	// NextQueueNumber atomically increments the global queue counter and
	// returns the new value. Values are strictly increasing across all
	// callers and all server instances; a failed order creation burns its
	// number (gaps are acceptable, duplicates are not).
	NextQueueNumber(ctx context.Context) (int64, error)
}
