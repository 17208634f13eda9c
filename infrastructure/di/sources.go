package di

import (
	"context"
	"fmt"

	"ifn-backend/application/ports"
	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/config"
	"ifn-backend/infrastructure/persistence/dynamodb"
	"ifn-backend/infrastructure/persistence/fixtures"
	"ifn-backend/infrastructure/persistence/postgres"
	"ifn-backend/infrastructure/persistence/rediscache"
	"ifn-backend/infrastructure/persistence/resilient"
	"ifn-backend/infrastructure/persistence/s3"
	"ifn-backend/infrastructure/persistence/sqlite"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPrefix = "ifn"

// RecordSources is the assembled source chain.
// Source serves loads, Writer persists imports and is nil when the driver is
// read-only, Checks are pinged by the readiness probe.
type RecordSources struct {
	Source ports.RecordSource
	Writer ports.RecordWriter
	Checks map[string]ports.HealthChecker
}

type closer interface {
	Close() error
}

// ProvideRecordSources opens the configured driver and wraps it:
// driver, then the Redis read-through cache, then the circuit breaker
func ProvideRecordSources(ctx context.Context, cfg *config.Config, collections *inventory.Registry, logger *zap.Logger) (*RecordSources, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	base, err := openDriver(ctx, cfg, collections, logger)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := base.(closer); ok {
		closers = append(closers, func() {
			if err := c.Close(); err != nil {
				logger.Warn("Closing record source failed", zap.Error(err))
			}
		})
	}

	sources := &RecordSources{Source: base, Checks: make(map[string]ports.HealthChecker)}
	if w, ok := base.(ports.RecordWriter); ok {
		sources.Writer = w
	}
	if h, ok := base.(ports.HealthChecker); ok {
		sources.Checks[cfg.SourceDriver] = h
	}

	if cfg.SeedFromBundle && sources.Writer != nil {
		if err := seedFromBundle(ctx, base, sources.Writer, collections, logger); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	if len(cfg.RedisAddrs) > 0 {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: cfg.RedisAddrs})
		closers = append(closers, func() { _ = client.Close() })

		cached := rediscache.NewSource(client, sources.Source, collections, redisPrefix, cfg.RedisTTL, logger)
		sources.Source = cached
		if sources.Writer != nil {
			sources.Writer = cached
		}
		sources.Checks["redis"] = cached
	}

	if cfg.IsRemoteSource() {
		bc := resilient.DefaultBreakerConfig(cfg.SourceDriver)
		if cfg.BreakerTimeout > 0 {
			bc.Timeout = cfg.BreakerTimeout
		}
		if cfg.BreakerMinRequests > 0 {
			bc.MinRequests = uint32(cfg.BreakerMinRequests)
		}
		sources.Source = resilient.NewSource(sources.Source, bc, logger)
	}

	logger.Info("Record source ready",
		zap.String("driver", cfg.SourceDriver),
		zap.Bool("redis", len(cfg.RedisAddrs) > 0),
		zap.Bool("writable", sources.Writer != nil),
	)
	return sources, cleanup, nil
}

func openDriver(ctx context.Context, cfg *config.Config, collections *inventory.Registry, logger *zap.Logger) (ports.RecordSource, error) {
	switch cfg.SourceDriver {
	case config.DriverFixtures, "":
		return fixtures.NewSource(collections, logger), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath, collections, logger)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN, collections, logger)
	case config.DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		}, collections, logger)
	case config.DriverDynamoDB:
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return dynamodb.NewSource(ProvideDynamoDBClient(awsCfg), cfg.DynamoDBTable, collections, logger), nil
	default:
		return nil, fmt.Errorf("unknown record source %q", cfg.SourceDriver)
	}
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// seedFromBundle writes the embedded fixtures into every collection the
// writable source holds no records for
func seedFromBundle(ctx context.Context, src ports.RecordSource, dst ports.RecordWriter, collections *inventory.Registry, logger *zap.Logger) error {
	bundle := fixtures.NewSource(collections, logger)
	for _, name := range collections.Names() {
		existing, err := src.LoadRecords(ctx, name)
		if err != nil {
			return fmt.Errorf("check %s before seeding: %w", name, err)
		}
		if len(existing) > 0 {
			continue
		}
		records, err := bundle.LoadRecords(ctx, name)
		if err != nil {
			return err
		}
		if err := dst.SaveRecords(ctx, name, records); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		logger.Info("Seeded collection from bundle", zap.String("collection", string(name)), zap.Int("records", len(records)))
	}
	return nil
}
