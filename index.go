/*
Package onetable – index selection.
*/
package onetable

import "fmt"

const primaryIndex = "primary"

// selectIndex returns the index named by params (primary when none). A
// secondary index can only serve find and scan; for any other operation the
// index is still returned but fallback is true.
func (m *Model) selectIndex(op Op, params *Params) (idx *IndexDef, name string, fallback bool, err error) {
	name = primaryIndex
	if params != nil && params.Index != "" {
		name = params.Index
	}
	idx, ok := m.indexes[name]
	if !ok || idx == nil {
		return nil, name, false, NewError(fmt.Sprintf("Cannot find index %q", name),
			WithCode(ErrArgument), WithContext(map[string]any{"model": m.Name}))
	}
	if name == primaryIndex {
		return idx, name, false, nil
	}
	switch op {
	case OpFind, OpScan:
		return idx, name, false, nil
	case OpDelete, OpGet, OpPut, OpUpdate:
		return idx, name, true, nil
	}
	return idx, name, true, nil
}
