/*
Package onetable – dispatch.

Send translates an operation and hands the typed input to the DynamoDB
client. Responses are returned untouched; there are no retries.
*/
package onetable

import (
	"context"
	"fmt"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoClient is the subset of the DynamoDB API used for dispatch. It is
// satisfied by *dynamodb.Client and by test doubles.
type DynamoClient interface {
	GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error)
	PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *ddb.UpdateItemInput, optFns ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error)
	Query(ctx context.Context, params *ddb.QueryInput, optFns ...func(*ddb.Options)) (*ddb.QueryOutput, error)
	Scan(ctx context.Context, params *ddb.ScanInput, optFns ...func(*ddb.Options)) (*ddb.ScanOutput, error)

	BatchGetItem(ctx context.Context, params *ddb.BatchGetItemInput, optFns ...func(*ddb.Options)) (*ddb.BatchGetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *ddb.BatchWriteItemInput, optFns ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error)
}

// Result is the outcome of Send.
type Result struct {
	// Command is nil when the operation fell back or had no key.
	Command Item

	// Fallback is set when the operation must be re-issued as a query.
	Fallback bool

	// Input is the typed SDK input; Output the raw SDK output. Both are nil
	// when nothing was dispatched.
	Input  any
	Output any
}

// Send translates op on the named model and dispatches it. With
// Params.Execute false, or for batch entries, only the command is returned.
func (t *Table) Send(ctx context.Context, modelName string, op Op, properties Item, params *Params) (*Result, error) {
	m, err := t.GetModel(modelName)
	if err != nil {
		return nil, err
	}
	return t.send(ctx, m, op, properties, params)
}

func (t *Table) send(ctx context.Context, m *Model, op Op, properties Item, params *Params) (*Result, error) {
	e, err := NewExpression(m, op, properties, params)
	if err != nil {
		return nil, err
	}
	cmd, err := e.Command()
	if err != nil {
		return nil, err
	}
	res := &Result{Command: cmd, Fallback: e.Fallback()}
	if cmd == nil || !e.params.execute() || e.params.Batch {
		return res, nil
	}
	if t.client == nil {
		return nil, NewArgError("Table has not yet defined a client instance")
	}
	if res.Input, err = Input(op, cmd); err != nil {
		return nil, err
	}
	t.log.Data("Dispatch "+op.String(), map[string]any{"model": m.Name, "cmd": cmd})

	if res.Output, err = t.dispatch(ctx, op, res.Input); err != nil {
		t.log.Error("DynamoDB "+op.String()+" failed", map[string]any{"model": m.Name, "error": err.Error()})
		return nil, NewError(fmt.Sprintf("%s %q failed", op, m.Name), WithCode(ErrRuntime), WithCause(err))
	}
	return res, nil
}

func (t *Table) dispatch(ctx context.Context, op Op, input any) (any, error) {
	switch in := input.(type) {
	case *ddb.GetItemInput:
		return t.client.GetItem(ctx, in)
	case *ddb.PutItemInput:
		return t.client.PutItem(ctx, in)
	case *ddb.DeleteItemInput:
		return t.client.DeleteItem(ctx, in)
	case *ddb.UpdateItemInput:
		return t.client.UpdateItem(ctx, in)
	case *ddb.QueryInput:
		return t.client.Query(ctx, in)
	case *ddb.ScanInput:
		return t.client.Scan(ctx, in)
	}
	return nil, NewArgError("Cannot dispatch " + op.String())
}

// BatchGet sends batch get entries built with Params.Batch in one request.
func (t *Table) BatchGet(ctx context.Context, entries []Item) (*ddb.BatchGetItemOutput, error) {
	if t.client == nil {
		return nil, NewArgError("Table has not yet defined a client instance")
	}
	input, err := BatchGetInput(t.Name, entries)
	if err != nil {
		return nil, err
	}
	out, err := t.client.BatchGetItem(ctx, input)
	if err != nil {
		return nil, NewError("BatchGetItem failed", WithCode(ErrRuntime), WithCause(err))
	}
	return out, nil
}

// BatchWrite sends batch put and delete entries built with Params.Batch in one request.
func (t *Table) BatchWrite(ctx context.Context, entries []Item) (*ddb.BatchWriteItemOutput, error) {
	if t.client == nil {
		return nil, NewArgError("Table has not yet defined a client instance")
	}
	input, err := BatchWriteInput(t.Name, entries)
	if err != nil {
		return nil, err
	}
	out, err := t.client.BatchWriteItem(ctx, input)
	if err != nil {
		return nil, NewError("BatchWriteItem failed", WithCode(ErrRuntime), WithCause(err))
	}
	return out, nil
}
