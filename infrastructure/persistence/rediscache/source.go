// Package rediscache puts a Redis read-through cache in front of a record source.
package rediscache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
)

const defaultTTL = 5 * time.Minute

// Source serves cached collection documents and loads from next on a miss.
// Redis failures are logged and never fail a load.
type Source struct {
	client      redis.UniversalClient
	next        ports.RecordSource
	collections *inventory.Registry
	prefix      string
	ttl         time.Duration
	logger      *zap.Logger
}

var (
	_ ports.RecordSource  = (*Source)(nil)
	_ ports.RecordWriter  = (*Source)(nil)
	_ ports.HealthChecker = (*Source)(nil)
)

// NewSource wraps next. A zero ttl uses five minutes.
func NewSource(client redis.UniversalClient, next ports.RecordSource, collections *inventory.Registry, prefix string, ttl time.Duration, logger *zap.Logger) *Source {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if prefix == "" {
		prefix = "ifn"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, next: next, collections: collections, prefix: prefix, ttl: ttl, logger: logger}
}

// Key returns the cache key of a collection
func (s *Source) Key(collection inventory.Name) string {
	return fmt.Sprintf("%s:records:%s", s.prefix, collection)
}

// LoadRecords returns the cached document or loads and caches it
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	def, ok := s.collections.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}

	payload, err := s.client.Get(ctx, s.Key(collection)).Bytes()
	switch {
	case err == nil:
		records, _, decErr := def.Layout.DecodeList(payload)
		if decErr == nil {
			return records, nil
		}
		s.logger.Warn("Discarding unreadable cache entry", zap.String("key", s.Key(collection)), zap.Error(decErr))
	case stderrors.Is(err, redis.Nil):
	default:
		s.logger.Warn("Redis read failed", zap.String("key", s.Key(collection)), zap.Error(err))
	}

	records, err := s.next.LoadRecords(ctx, collection)
	if err != nil {
		return nil, err
	}
	s.store(ctx, collection, records)
	return records, nil
}

// SaveRecords writes through to next when it is a writer and refreshes the cache entry
func (s *Source) SaveRecords(ctx context.Context, collection inventory.Name, records []*entities.Record) error {
	if w, ok := s.next.(ports.RecordWriter); ok {
		if err := w.SaveRecords(ctx, collection, records); err != nil {
			return err
		}
	}
	s.store(ctx, collection, records)
	return nil
}

// Invalidate drops the cache entry of a collection
func (s *Source) Invalidate(ctx context.Context, collection inventory.Name) error {
	if err := s.client.Del(ctx, s.Key(collection)).Err(); err != nil {
		return errors.NewExternalError("redis", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewExternalError("redis", err)
	}
	return nil
}

func (s *Source) store(ctx context.Context, collection inventory.Name, records []*entities.Record) {
	if records == nil {
		records = []*entities.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("Cannot encode collection for cache", zap.String("collection", string(collection)), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, s.Key(collection), payload, s.ttl).Err(); err != nil {
		s.logger.Warn("Redis write failed", zap.String("key", s.Key(collection)), zap.Error(err))
	}
}
