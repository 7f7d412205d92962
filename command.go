/*
Package onetable – command assembly.
*/
package onetable

import (
	"reflect"
	"strings"
)

// Command assembles the DynamoDB command map. It returns nil, nil when the
// operation cannot be expressed directly (see Fallback) or when get, delete
// or update have no key to address.
func (e *Expression) Command() (Item, error) {
	if e.fallback {
		return nil, nil
	}
	if e.op.targetsKey() && len(e.key) == 0 {
		e.model.table.log.Trace("No key for "+e.op.String(), map[string]any{"model": e.model.Name})
		return nil, nil
	}
	p := e.params

	var cmd Item
	if p.Batch {
		var err error
		if cmd, err = e.batchCommand(); err != nil {
			return nil, err
		}
	} else {
		cmd = e.command()
	}

	if p.PreFormat != nil {
		p.PreFormat(e.model, cmd)
	}
	cmd = prune(cmd)
	if p.PostFormat != nil {
		cmd = p.PostFormat(e.model, cmd)
	}
	e.model.table.log.Trace("Command "+e.op.String(), map[string]any{"model": e.model.Name, "cmd": cmd})
	return cmd, nil
}

func (e *Expression) command() Item {
	p := e.params
	cmd := Item{
		"TableName":                 e.model.tableName,
		"ConditionExpression":       and(e.conditions),
		"FilterExpression":          and(e.filters),
		"KeyConditionExpression":    strings.Join(e.keys, " and "),
		"ProjectionExpression":      strings.Join(e.project, ", "),
		"ExpressionAttributeNames":  e.ph.Names(),
		"ExpressionAttributeValues": e.ph.Values(),
	}

	switch e.op {
	case OpPut:
		cmd["Item"] = e.puts
		cmd["ReturnValues"] = p.Return
	case OpUpdate:
		cmd["Key"] = e.key
		cmd["UpdateExpression"] = e.updateExpression()
		cmd["ReturnValues"] = coalesce(p.Return, "ALL_NEW")
	case OpDelete:
		cmd["Key"] = e.key
		cmd["ReturnValues"] = p.Return
	case OpGet:
		cmd["Key"] = e.key
	case OpFind:
		cmd["ScanIndexForward"] = !p.Reverse
	case OpScan:
	}

	switch e.op {
	case OpFind, OpScan, OpGet:
		if p.Consistent {
			cmd["ConsistentRead"] = true
		}
		if e.indexName != primaryIndex {
			cmd["IndexName"] = e.indexName
		}
	case OpDelete, OpPut, OpUpdate:
	}

	if e.op.isMulti() {
		if p.Limit > 0 {
			cmd["Limit"] = p.Limit
		}
		cmd["ExclusiveStartKey"] = p.Start
	}

	if p.Metrics || p.Capacity != "" {
		cmd["ReturnConsumedCapacity"] = coalesce(p.Capacity, "INDEXES")
		if e.op.isWrite() {
			cmd["ReturnItemCollectionMetrics"] = "SIZE"
		}
	}
	return cmd
}

// batchCommand shapes a request entry for BatchGetItem or BatchWriteItem.
func (e *Expression) batchCommand() (Item, error) {
	if len(e.filters) > 0 || len(e.conditions) > 0 {
		return nil, NewArgError("Invalid filters or conditions with batch operation")
	}
	switch e.op {
	case OpGet:
		return Item{
			"Keys":                     []Item{e.key},
			"ProjectionExpression":     strings.Join(e.project, ", "),
			"ExpressionAttributeNames": e.ph.Names(),
			"ConsistentRead":           e.params.Consistent,
		}, nil
	case OpDelete:
		return Item{"Key": e.key}, nil
	case OpPut:
		return Item{"Item": e.puts}, nil
	case OpFind, OpScan, OpUpdate:
	}
	return nil, NewArgError(`Unsupported batch operation "` + e.op.String() + `"`)
}

// and combines condition or filter fragments: one is used verbatim, several
// are parenthesized and joined with " and ".
func and(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = "(" + t + ")"
	}
	return strings.Join(parts, " and ")
}

// prune drops nil values, empty strings, false flags and empty maps or slices
// from the top level of cmd.
func prune(cmd Item) Item {
	out := make(Item, len(cmd))
	for k, v := range cmd {
		if !isUnset(v) || k == "ScanIndexForward" {
			out[k] = v
		}
	}
	return out
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
