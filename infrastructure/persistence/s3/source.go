// Package s3 keeps collection snapshots as JSON objects in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
)

// Config holds the bucket location. Credentials come from the default chain.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, for MinIO or LocalStack
	PathStyle bool
}

// Source reads and writes one object per collection
type Source struct {
	client      *s3.Client
	bucket      string
	prefix      string
	collections *inventory.Registry
	logger      *zap.Logger
}

var (
	_ ports.RecordSource  = (*Source)(nil)
	_ ports.RecordWriter  = (*Source)(nil)
	_ ports.HealthChecker = (*Source)(nil)
)

// New builds a client from cfg
func New(ctx context.Context, cfg Config, collections *inventory.Registry, logger *zap.Logger) (*Source, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewValidationError("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, collections, logger), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *s3.Client, bucket, prefix string, collections *inventory.Registry, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, bucket: bucket, prefix: prefix, collections: collections, logger: logger}
}

// Key returns the object key of a collection
func (s *Source) Key(collection inventory.Name) string {
	return path.Join(s.prefix, string(collection)+".json")
}

// LoadRecords reads a collection snapshot. A missing object is an empty collection.
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	def, ok := s.collections.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(collection)),
	})
	if isNotFound(err) {
		return []*entities.Record{}, nil
	}
	if err != nil {
		return nil, errors.NewExternalError("s3", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.NewExternalError("s3", err)
	}
	records, rejected, err := def.Layout.DecodeList(body)
	if err != nil {
		return nil, errors.Wrapf(err, "decode s3 object %s", s.Key(collection))
	}
	for _, r := range rejected {
		s.logger.Warn("Skipping snapshot row", zap.String("collection", string(collection)), zap.Error(r))
	}
	return records, nil
}

// SaveRecords writes the collection snapshot
func (s *Source) SaveRecords(ctx context.Context, collection inventory.Name, records []*entities.Record) error {
	if _, ok := s.collections.Get(collection); !ok {
		return errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	if records == nil {
		records = []*entities.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(collection)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.NewExternalError("s3", err)
	}
	return nil
}

// Ping checks the bucket is reachable
func (s *Source) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return errors.NewExternalError("s3", err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if stderrors.As(err, &nsk) {
		return true
	}
	var resp *awshttp.ResponseError
	return stderrors.As(err, &resp) && resp.HTTPStatusCode() == http.StatusNotFound
}
