package dynamodb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/infrastructure/persistence/fixtures"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable keeps items keyed by PK then SK and pages query results
type fakeTable struct {
	mu       sync.Mutex
	items    map[string]map[string]map[string]types.AttributeValue
	pageSize int
	batches  int
}

func newFakeTable(pageSize int) *fakeTable {
	return &fakeTable{items: make(map[string]map[string]map[string]types.AttributeValue), pageSize: pageSize}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeTable) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pk string
	for _, v := range in.ExpressionAttributeValues {
		if s := str(v); strings.HasPrefix(s, "COLLECTION#") {
			pk = s
		}
	}
	part := f.items[pk]
	sks := make([]string, 0, len(part))
	for sk := range part {
		sks = append(sks, sk)
	}
	sort.Strings(sks)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := str(in.ExclusiveStartKey["SK"])
		start = sort.SearchStrings(sks, last) + 1
	}
	end := start + f.pageSize
	if end > len(sks) {
		end = len(sks)
	}
	out := &dynamodb.QueryOutput{}
	for _, sk := range sks[start:end] {
		out.Items = append(out.Items, part[sk])
	}
	if end < len(sks) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sks[end-1]},
		}
	}
	return out, nil
}

func (f *fakeTable) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++

	for _, reqs := range in.RequestItems {
		for _, r := range reqs {
			switch {
			case r.PutRequest != nil:
				pk, sk := str(r.PutRequest.Item["PK"]), str(r.PutRequest.Item["SK"])
				if f.items[pk] == nil {
					f.items[pk] = make(map[string]map[string]types.AttributeValue)
				}
				f.items[pk][sk] = r.PutRequest.Item
			case r.DeleteRequest != nil:
				delete(f.items[str(r.DeleteRequest.Key["PK"])], str(r.DeleteRequest.Key["SK"]))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeTable) DescribeTable(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

func setup(t *testing.T, pageSize int) (*Source, *fakeTable, *inventory.Registry) {
	t.Helper()
	reg := inventory.NewRegistry(inventory.Definitions(listing.DefaultSentinels))
	table := newFakeTable(pageSize)
	return NewSource(table, "ifn-records", reg, nil), table, reg
}

func TestSource_SaveAndLoadKeepsOrder(t *testing.T) {
	ctx := context.Background()
	src, _, reg := setup(t, 2)
	want, err := fixtures.NewSource(reg, nil).LoadRecords(ctx, inventory.Muestras)
	require.NoError(t, err)

	require.NoError(t, src.SaveRecords(ctx, inventory.Muestras, want))
	got, err := src.LoadRecords(ctx, inventory.Muestras)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
	}
	fecha, _ := got[0].Field(inventory.FieldFecha)
	assert.Equal(t, valueobjects.KindDay, fecha.Kind())
}

func TestSource_SaveRemovesStaleItems(t *testing.T) {
	ctx := context.Background()
	src, table, _ := setup(t, 10)
	rec := func(id string) *entities.Record {
		return entities.MustRecord(id, map[string]valueobjects.FieldValue{"nombre": valueobjects.String(id)})
	}

	require.NoError(t, src.SaveRecords(ctx, inventory.Especies, []*entities.Record{rec("1"), rec("2"), rec("3")}))
	require.NoError(t, src.SaveRecords(ctx, inventory.Especies, []*entities.Record{rec("2")}))

	got, err := src.LoadRecords(ctx, inventory.Especies)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID().String())
	assert.Len(t, table.items["COLLECTION#especies"], 1)
}

func TestSource_BatchesWrites(t *testing.T) {
	ctx := context.Background()
	src, table, _ := setup(t, 100)
	records := make([]*entities.Record, 0, 60)
	for i := 0; i < 60; i++ {
		records = append(records, entities.MustRecord(
			string(rune('A'+i/26))+string(rune('a'+i%26)),
			map[string]valueobjects.FieldValue{"descripcion": valueobjects.String("tarea")},
		))
	}

	require.NoError(t, src.SaveRecords(ctx, inventory.Tareas, records))

	assert.Equal(t, 3, table.batches)
}

func TestSource_UnknownCollectionAndPing(t *testing.T) {
	src, _, _ := setup(t, 10)

	_, err := src.LoadRecords(context.Background(), "usuarios")
	assert.Error(t, err)
	assert.NoError(t, src.Ping(context.Background()))
}
