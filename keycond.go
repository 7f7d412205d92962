/*
Package onetable – key conditions.
*/
package onetable

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeyConditionKind selects the comparison of a key condition.
type KeyConditionKind int

const (
	KeyEquals KeyConditionKind = iota
	KeyBeginsWith
	KeyBetween
)

func (k KeyConditionKind) String() string {
	switch k {
	case KeyEquals:
		return "equals"
	case KeyBeginsWith:
		return "begins_with"
	case KeyBetween:
		return "between"
	}
	return "unknown"
}

// KeyCondition is the restriction a query places on one key attribute.
type KeyCondition struct {
	Kind KeyConditionKind

	// Value is the operand of equals and begins_with.
	Value any

	// Low and High bound a between range (inclusive).
	Low  any
	High any
}

// Equals matches the attribute exactly.
func Equals(v any) KeyCondition { return KeyCondition{Kind: KeyEquals, Value: v} }

// BeginsWith matches attributes starting with prefix.
func BeginsWith(prefix any) KeyCondition { return KeyCondition{Kind: KeyBeginsWith, Value: prefix} }

// Between matches attributes in [low, high].
func Between(low, high any) KeyCondition { return KeyCondition{Kind: KeyBetween, Low: low, High: high} }

// parseKeyCondition turns a property value into a KeyCondition. Plain values
// are equality; a map must hold exactly one of begins, begins_with or between.
func parseKeyCondition(v any) (KeyCondition, error) {
	switch kv := v.(type) {
	case KeyCondition:
		return kv, nil
	case *KeyCondition:
		if kv == nil {
			break
		}
		return *kv, nil
	case map[string]any:
		if len(kv) != 1 {
			return KeyCondition{}, keyConditionError(kv, "expected exactly one of begins, begins_with or between")
		}
		for op, operand := range kv {
			switch op {
			case "begins", "begins_with":
				return BeginsWith(operand), nil
			case "between":
				low, high, ok := pair(operand)
				if !ok {
					return KeyCondition{}, keyConditionError(kv, "between needs exactly two values")
				}
				return Between(low, high), nil
			default:
				return KeyCondition{}, keyConditionError(kv, fmt.Sprintf("unsupported operator %q", op))
			}
		}
	}
	return Equals(v), nil
}

func pair(v any) (any, any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != 2 {
		return nil, nil, false
	}
	return rv.Index(0).Interface(), rv.Index(1).Interface(), true
}

func keyConditionError(v map[string]any, reason string) error {
	ops := make([]string, 0, len(v))
	for k := range v {
		ops = append(ops, k)
	}
	sort.Strings(ops)
	return NewError("Invalid key condition: "+reason,
		WithCode(ErrKeyCondition), WithContext(map[string]any{"operators": strings.Join(ops, ",")}))
}

// render emits the key-condition fragment for att.
func (k KeyCondition) render(att string, p *placeholders) string {
	switch k.Kind {
	case KeyBeginsWith:
		return fmt.Sprintf("begins_with(%s, %s)", p.name(att), p.value(k.Value))
	case KeyBetween:
		name := p.name(att)
		return fmt.Sprintf("%s BETWEEN %s AND %s", name, p.value(k.Low), p.value(k.High))
	case KeyEquals:
	}
	return fmt.Sprintf("%s = %s", p.name(att), p.value(k.Value))
}
