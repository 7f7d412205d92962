/*
Package onetable – typed SDK inputs.

Input converts a command map into the matching aws-sdk-go-v2 input struct.
Keys, items and expression values are marshalled with attributevalue.
*/
package onetable

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Input converts cmd, as produced by Command for op, into the typed input of
// the corresponding DynamoDB API call.
func Input(op Op, cmd Item) (any, error) {
	switch op {
	case OpGet:
		return GetInput(cmd)
	case OpPut:
		return PutInput(cmd)
	case OpDelete:
		return DeleteInput(cmd)
	case OpUpdate:
		return UpdateInput(cmd)
	case OpFind:
		return QueryInput(cmd)
	case OpScan:
		return ScanInput(cmd)
	}
	return nil, NewArgError(fmt.Sprintf("Unknown operation %d", op))
}

func GetInput(cmd Item) (*ddb.GetItemInput, error) {
	key, err := avMap(cmd, "Key")
	if err != nil {
		return nil, err
	}
	return &ddb.GetItemInput{
		TableName:                stringPtr(cmd, "TableName"),
		Key:                      key,
		ConsistentRead:           boolField(cmd, "ConsistentRead"),
		ProjectionExpression:     stringPtr(cmd, "ProjectionExpression"),
		ExpressionAttributeNames: names(cmd),
		ReturnConsumedCapacity:   types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
	}, nil
}

func PutInput(cmd Item) (*ddb.PutItemInput, error) {
	item, err := avMap(cmd, "Item")
	if err != nil {
		return nil, err
	}
	values, err := avMap(cmd, "ExpressionAttributeValues")
	if err != nil {
		return nil, err
	}
	return &ddb.PutItemInput{
		TableName:                   stringPtr(cmd, "TableName"),
		Item:                        item,
		ConditionExpression:         stringPtr(cmd, "ConditionExpression"),
		ExpressionAttributeNames:    names(cmd),
		ExpressionAttributeValues:   values,
		ReturnValues:                types.ReturnValue(stringField(cmd, "ReturnValues")),
		ReturnConsumedCapacity:      types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
		ReturnItemCollectionMetrics: types.ReturnItemCollectionMetrics(stringField(cmd, "ReturnItemCollectionMetrics")),
	}, nil
}

func DeleteInput(cmd Item) (*ddb.DeleteItemInput, error) {
	key, err := avMap(cmd, "Key")
	if err != nil {
		return nil, err
	}
	values, err := avMap(cmd, "ExpressionAttributeValues")
	if err != nil {
		return nil, err
	}
	return &ddb.DeleteItemInput{
		TableName:                   stringPtr(cmd, "TableName"),
		Key:                         key,
		ConditionExpression:         stringPtr(cmd, "ConditionExpression"),
		ExpressionAttributeNames:    names(cmd),
		ExpressionAttributeValues:   values,
		ReturnValues:                types.ReturnValue(stringField(cmd, "ReturnValues")),
		ReturnConsumedCapacity:      types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
		ReturnItemCollectionMetrics: types.ReturnItemCollectionMetrics(stringField(cmd, "ReturnItemCollectionMetrics")),
	}, nil
}

func UpdateInput(cmd Item) (*ddb.UpdateItemInput, error) {
	key, err := avMap(cmd, "Key")
	if err != nil {
		return nil, err
	}
	values, err := avMap(cmd, "ExpressionAttributeValues")
	if err != nil {
		return nil, err
	}
	return &ddb.UpdateItemInput{
		TableName:                   stringPtr(cmd, "TableName"),
		Key:                         key,
		UpdateExpression:            stringPtr(cmd, "UpdateExpression"),
		ConditionExpression:         stringPtr(cmd, "ConditionExpression"),
		ExpressionAttributeNames:    names(cmd),
		ExpressionAttributeValues:   values,
		ReturnValues:                types.ReturnValue(stringField(cmd, "ReturnValues")),
		ReturnConsumedCapacity:      types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
		ReturnItemCollectionMetrics: types.ReturnItemCollectionMetrics(stringField(cmd, "ReturnItemCollectionMetrics")),
	}, nil
}

func QueryInput(cmd Item) (*ddb.QueryInput, error) {
	values, err := avMap(cmd, "ExpressionAttributeValues")
	if err != nil {
		return nil, err
	}
	start, err := avMap(cmd, "ExclusiveStartKey")
	if err != nil {
		return nil, err
	}
	return &ddb.QueryInput{
		TableName:                 stringPtr(cmd, "TableName"),
		IndexName:                 stringPtr(cmd, "IndexName"),
		KeyConditionExpression:    stringPtr(cmd, "KeyConditionExpression"),
		FilterExpression:          stringPtr(cmd, "FilterExpression"),
		ProjectionExpression:      stringPtr(cmd, "ProjectionExpression"),
		ExpressionAttributeNames:  names(cmd),
		ExpressionAttributeValues: values,
		ConsistentRead:            boolField(cmd, "ConsistentRead"),
		ScanIndexForward:          boolField(cmd, "ScanIndexForward"),
		Limit:                     int32Field(cmd, "Limit"),
		ExclusiveStartKey:         start,
		ReturnConsumedCapacity:    types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
	}, nil
}

func ScanInput(cmd Item) (*ddb.ScanInput, error) {
	values, err := avMap(cmd, "ExpressionAttributeValues")
	if err != nil {
		return nil, err
	}
	start, err := avMap(cmd, "ExclusiveStartKey")
	if err != nil {
		return nil, err
	}
	return &ddb.ScanInput{
		TableName:                 stringPtr(cmd, "TableName"),
		IndexName:                 stringPtr(cmd, "IndexName"),
		FilterExpression:          stringPtr(cmd, "FilterExpression"),
		ProjectionExpression:      stringPtr(cmd, "ProjectionExpression"),
		ExpressionAttributeNames:  names(cmd),
		ExpressionAttributeValues: values,
		ConsistentRead:            boolField(cmd, "ConsistentRead"),
		Limit:                     int32Field(cmd, "Limit"),
		ExclusiveStartKey:         start,
		ReturnConsumedCapacity:    types.ReturnConsumedCapacity(stringField(cmd, "ReturnConsumedCapacity")),
	}, nil
}

// BatchGetInput wraps batch get entries of one table into a BatchGetItemInput.
func BatchGetInput(table string, entries []Item) (*ddb.BatchGetItemInput, error) {
	ka := types.KeysAndAttributes{ExpressionAttributeNames: map[string]string{}}
	for _, entry := range entries {
		keys, _ := entry["Keys"].([]Item)
		for _, k := range keys {
			av, err := attributevalue.MarshalMap(k)
			if err != nil {
				return nil, marshalError("Keys", err)
			}
			ka.Keys = append(ka.Keys, av)
		}
		if pe, ok := entry["ProjectionExpression"].(string); ok {
			ka.ProjectionExpression = aws.String(pe)
		}
		for tok, name := range names(entry) {
			ka.ExpressionAttributeNames[tok] = name
		}
		if cr, ok := entry["ConsistentRead"].(bool); ok && cr {
			ka.ConsistentRead = aws.Bool(true)
		}
	}
	if len(ka.ExpressionAttributeNames) == 0 {
		ka.ExpressionAttributeNames = nil
	}
	return &ddb.BatchGetItemInput{RequestItems: map[string]types.KeysAndAttributes{table: ka}}, nil
}

// BatchWriteInput wraps batch put ({"Item": ...}) and delete ({"Key": ...})
// entries of one table into a BatchWriteItemInput.
func BatchWriteInput(table string, entries []Item) (*ddb.BatchWriteItemInput, error) {
	reqs := make([]types.WriteRequest, 0, len(entries))
	for _, entry := range entries {
		switch {
		case entry["Item"] != nil:
			item, err := avMap(entry, "Item")
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		case entry["Key"] != nil:
			key, err := avMap(entry, "Key")
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
		default:
			return nil, NewArgError("Batch write entry needs an Item or a Key")
		}
	}
	return &ddb.BatchWriteItemInput{RequestItems: map[string][]types.WriteRequest{table: reqs}}, nil
}

func avMap(cmd Item, field string) (map[string]types.AttributeValue, error) {
	switch v := cmd[field].(type) {
	case nil:
		return nil, nil
	case map[string]types.AttributeValue:
		return v, nil
	default:
		av, err := attributevalue.MarshalMap(v)
		if err != nil {
			return nil, marshalError(field, err)
		}
		return av, nil
	}
}

func marshalError(field string, err error) error {
	return NewError("Cannot marshal "+field, WithCode(ErrArgument), WithCause(err))
}

func names(cmd Item) map[string]string {
	v, _ := cmd["ExpressionAttributeNames"].(map[string]string)
	return v
}

func stringField(cmd Item, field string) string {
	s, _ := cmd[field].(string)
	return s
}

func stringPtr(cmd Item, field string) *string {
	if s := stringField(cmd, field); s != "" {
		return aws.String(s)
	}
	return nil
}

func boolField(cmd Item, field string) *bool {
	if b, ok := cmd[field].(bool); ok {
		return aws.Bool(b)
	}
	return nil
}

func int32Field(cmd Item, field string) *int32 {
	switch n := cmd[field].(type) {
	case int:
		return aws.Int32(int32(n))
	case int32:
		return aws.Int32(n)
	case int64:
		return aws.Int32(int32(n))
	case float64:
		return aws.Int32(int32(n))
	}
	return nil
}
