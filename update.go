/*
Package onetable – update expressions.
*/
package onetable

import (
	"fmt"
	"strings"
)

// addUpdate adds a "set" fragment for a plain field update.
func (e *Expression) addUpdate(att string, value any) {
	e.updates = append(e.updates, fmt.Sprintf("%s = %s", e.ph.name(att), e.ph.value(value)))
}

// addBulkUpdates adds the fragments of the single add, remove or delete
// parameter. Keys are processed in sorted order.
func (e *Expression) addBulkUpdates() error {
	switch e.action {
	case "add":
		return e.addBulkPairs(e.params.Add)
	case "delete":
		return e.addBulkPairs(e.params.Delete)
	case "remove":
		for _, name := range e.params.Remove {
			if err := e.assertNotKey(name); err != nil {
				return err
			}
			e.updates = append(e.updates, e.target(name))
		}
	}
	return nil
}

func (e *Expression) addBulkPairs(pairs map[string]any) error {
	for _, name := range sortedKeys(pairs) {
		if err := e.assertNotKey(name); err != nil {
			return err
		}
		e.updates = append(e.updates, e.target(name)+" "+e.ph.value(pairs[name]))
	}
	return nil
}

func (e *Expression) assertNotKey(name string) error {
	att := e.model.attribute(name)
	if att == e.hash || (e.sort != "" && att == e.sort) {
		return NewArgError(fmt.Sprintf("Cannot %s the hash or sort attribute %q", e.action, name))
	}
	return nil
}

// updateExpression renders "<action> f1, f2, ...", or "" with no fragments.
func (e *Expression) updateExpression() string {
	if len(e.updates) == 0 {
		return ""
	}
	action := e.action
	if action == "" {
		action = "set"
	}
	return action + " " + strings.Join(e.updates, ", ")
}
