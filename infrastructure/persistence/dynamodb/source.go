package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// batchLimit is the DynamoDB cap on requests per BatchWriteItem
const batchLimit = 25

// API is the subset of the DynamoDB client the source calls
type API interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Source stores one item per record, partitioned by collection
type Source struct {
	client      API
	tableName   string
	collections *inventory.Registry
	logger      *zap.Logger
}

var (
	_ ports.RecordSource  = (*Source)(nil)
	_ ports.RecordWriter  = (*Source)(nil)
	_ ports.HealthChecker = (*Source)(nil)
)

// recordItem represents the DynamoDB item structure for a record
type recordItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Collection string `dynamodbav:"Collection"`
	RecordID   string `dynamodbav:"RecordID"`
	Position   int    `dynamodbav:"Position"`
	Payload    string `dynamodbav:"Payload"`
}

// NewSource creates a new DynamoDB record source
func NewSource(client API, tableName string, collections *inventory.Registry, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, tableName: tableName, collections: collections, logger: logger}
}

func partitionKey(collection inventory.Name) string {
	return fmt.Sprintf("COLLECTION#%s", collection)
}

func sortKey(id string) string {
	return fmt.Sprintf("RECORD#%s", id)
}

// LoadRecords queries every item of a collection and restores the saved order
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	def, ok := s.collections.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	items, err := s.query(ctx, collection)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	records := make([]*entities.Record, 0, len(items))
	for _, item := range items {
		rec, err := def.Layout.DecodeJSON([]byte(item.Payload))
		if err != nil {
			s.logger.Warn("Skipping stored record",
				zap.String("collection", string(collection)),
				zap.String("recordID", item.RecordID),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	s.logger.Debug("Loaded collection from DynamoDB",
		zap.String("collection", string(collection)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (s *Source) query(ctx context.Context, collection inventory.Name) ([]recordItem, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(partitionKey(collection))).
		And(expression.Key("SK").BeginsWith("RECORD#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	var items []recordItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, errors.NewDatabaseError("dynamodb query", err)
		}
		var page []recordItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, errors.NewDatabaseError("dynamodb unmarshal", err)
		}
		items = append(items, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// SaveRecords writes every record and deletes items the new collection no longer has
func (s *Source) SaveRecords(ctx context.Context, collection inventory.Name, records []*entities.Record) error {
	if _, ok := s.collections.Get(collection); !ok {
		return errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	existing, err := s.query(ctx, collection)
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(records))
	requests := make([]types.WriteRequest, 0, len(records)+len(existing))
	for i, rec := range records {
		id := rec.ID().String()
		keep[id] = struct{}{}
		payload, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode record %s: %w", id, err)
		}
		item := recordItem{
			PK:         partitionKey(collection),
			SK:         sortKey(id),
			EntityType: "RECORD",
			Collection: string(collection),
			RecordID:   id,
			Position:   i,
			Payload:    string(payload),
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return errors.NewDatabaseError("dynamodb marshal", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	for _, old := range existing {
		if _, ok := keep[old.RecordID]; ok {
			continue
		}
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: old.PK},
				"SK": &types.AttributeValueMemberS{Value: old.SK},
			},
		}})
	}

	for start := 0; start < len(requests); start += batchLimit {
		end := start + batchLimit
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}

	s.logger.Info("Saved collection to DynamoDB",
		zap.String("collection", string(collection)),
		zap.Int("records", len(records)),
		zap.Int("deleted", len(requests)-len(records)),
	)
	return nil
}

func (s *Source) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.tableName: batch}
	for attempt := 0; len(pending[s.tableName]) > 0; attempt++ {
		if attempt == 3 {
			return errors.NewDatabaseError("dynamodb batch write", fmt.Errorf("%d unprocessed items", len(pending[s.tableName])))
		}
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return errors.NewDatabaseError("dynamodb batch write", err)
		}
		pending = out.UnprocessedItems
	}
	return nil
}

// Ping checks that the table exists
func (s *Source) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	if err != nil {
		return errors.NewDatabaseError("dynamodb describe table", err)
	}
	return nil
}
