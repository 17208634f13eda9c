package ports

import (
	"context"
	"time"
)

// Cache stores query results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Metrics records listing activity
type Metrics interface {
	ObserveQuery(query string, d time.Duration, err error)
	MalformedRecords(collection string, n int)
	PipelineRun(collection string, trigger string)
}
