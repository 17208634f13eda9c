// Package resilient guards a remote record source with a circuit breaker.
package resilient

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
)

// BreakerConfig holds configuration for the circuit breaker
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig trips after half of at least five loads fail
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// Source forwards loads to next while the breaker is closed
type Source struct {
	next   ports.RecordSource
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

var _ ports.RecordSource = (*Source)(nil)

// NewSource wraps next with a breaker built from cfg
func NewSource(next ports.RecordSource, cfg BreakerConfig, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{next: next, name: cfg.Name, logger: logger}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// lookups of unknown collections say nothing about the backend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.IsNotFound(err) || errors.IsValidation(err)
		},
	})
	return s
}

// LoadRecords calls next through the breaker
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.LoadRecords(ctx, collection)
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.NewUnavailableError(s.name).WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]*entities.Record), nil
}

// State reports the breaker state
func (s *Source) State() gobreaker.State {
	return s.cb.State()
}
