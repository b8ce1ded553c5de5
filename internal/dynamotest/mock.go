// Package dynamotest provides an in-memory DynamoDB double for store tests.
// It understands the small set of expressions the stores actually issue.
package dynamotest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// opErr wraps a modeled exception the way the real SDK does, so store code
// must unwrap with errors.As rather than a type assertion.
func opErr(operation string, err error) error {
	return &smithy.OperationError{ServiceID: "DynamoDB", OperationName: operation, Err: err}
}

// Mock implements the DynamoDB operations the stores use. Register each
// table with its partition key attribute before use.
type Mock struct {
	mu     sync.Mutex
	keys   map[string]string // table -> pk attribute name
	Tables map[string]map[string]map[string]types.AttributeValue
}

func New() *Mock {
	return &Mock{
		keys:   map[string]string{},
		Tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

// RegisterTable declares a table and its partition key attribute.
func (m *Mock) RegisterTable(name, pkAttr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[name] = pkAttr
	if _, ok := m.Tables[name]; !ok {
		m.Tables[name] = map[string]map[string]types.AttributeValue{}
	}
}

func (m *Mock) pkOf(table string, item map[string]types.AttributeValue) (string, error) {
	attr, ok := m.keys[table]
	if !ok {
		return "", errors.New("unknown table: " + table)
	}
	v, ok := item[attr]
	if !ok {
		return "", errors.New("missing pk attribute " + attr)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("pk attribute is not a string")
	}
	return s.Value, nil
}

func (m *Mock) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	pk, err := m.pkOf(table, params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists(") {
		if _, exists := m.Tables[table][pk]; exists {
			return nil, opErr("PutItem", &types.ConditionalCheckFailedException{})
		}
	}
	m.Tables[table][pk] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *Mock) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	pk, err := m.pkOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.Tables[table][pk]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (m *Mock) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	pk, err := m.pkOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.Tables[table], pk)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *Mock) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	pk, err := m.pkOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.Tables[table][pk]
	if !exists {
		return nil, opErr("UpdateItem", &types.ConditionalCheckFailedException{})
	}
	// status transition guard used by the orders store
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok {
			return nil, opErr("UpdateItem", &types.ConditionalCheckFailedException{})
		}
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if curr.Value != expected {
			return nil, opErr("UpdateItem", &types.ConditionalCheckFailedException{})
		}
	}
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	m.Tables[table][pk] = item
	return &dynamodb.UpdateItemOutput{Attributes: item}, nil
}

// Scan returns every item in the table; the stores do their own filtering
// and paging.
func (m *Mock) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	items := make([]map[string]types.AttributeValue, 0, len(m.Tables[table]))
	for _, it := range m.Tables[table] {
		items = append(items, it)
	}
	return &dynamodb.ScanOutput{Items: items, Count: int32(len(items))}, nil
}

// Query supports the single equality pattern the orders store uses against
// its user index: "user_id = :uid".
func (m *Mock) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	uid, ok := params.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("unsupported query")
	}
	var items []map[string]types.AttributeValue
	for _, it := range m.Tables[table] {
		if v, ok := it["user_id"].(*types.AttributeValueMemberS); ok && v.Value == uid.Value {
			items = append(items, it)
		}
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (m *Mock) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[*params.TableName]; !ok {
		return nil, opErr("DescribeTable", &types.ResourceNotFoundException{})
	}
	return &dynamodb.DescribeTableOutput{}, nil
}
