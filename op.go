/*
Package onetable – operation kinds.
*/
package onetable

import "strings"

// Op is the logical data-access operation being translated.
type Op int

const (
	OpDelete Op = iota
	OpFind
	OpGet
	OpPut
	OpScan
	OpUpdate
)

var opNames = [...]string{
	OpDelete: "delete",
	OpFind:   "find",
	OpGet:    "get",
	OpPut:    "put",
	OpScan:   "scan",
	OpUpdate: "update",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}
	return opNames[op]
}

// ParseOp maps an operation name to an Op. "query" and "create" are accepted
// as aliases of find and put.
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(name) {
	case "delete", "remove":
		return OpDelete, nil
	case "find", "query":
		return OpFind, nil
	case "get":
		return OpGet, nil
	case "put", "create":
		return OpPut, nil
	case "scan":
		return OpScan, nil
	case "update":
		return OpUpdate, nil
	}
	return 0, NewArgError(`Unknown operation "` + name + `"`)
}

// isWrite reports whether op writes an item (put/update/delete).
func (op Op) isWrite() bool {
	switch op {
	case OpPut, OpUpdate, OpDelete:
		return true
	case OpFind, OpGet, OpScan:
		return false
	}
	return false
}

// isMulti reports whether op reads through query or scan.
func (op Op) isMulti() bool {
	switch op {
	case OpFind, OpScan:
		return true
	case OpDelete, OpGet, OpPut, OpUpdate:
		return false
	}
	return false
}

// targetsKey reports whether op addresses exactly one item by literal key.
func (op Op) targetsKey() bool {
	switch op {
	case OpGet, OpDelete, OpUpdate:
		return true
	case OpFind, OpPut, OpScan:
		return false
	}
	return false
}
