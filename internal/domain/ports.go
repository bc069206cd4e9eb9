package domain

import (
	"context"
	"time"
)

// SheetFetcher retrieves one tabular feed. Implementations report transport
// and decode problems as errors; the aggregator degrades every error to an
// empty table so a broken source never aborts a load batch.
type SheetFetcher interface {
	Fetch(ctx context.Context, ref SourceRef) (Table, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
