/*
Package onetable – value sanitizing.
*/
package onetable

// Sanitize removes empty strings, and nulls unless nulls is true, from nested
// maps and lists. Scalars and the top-level value pass through unchanged.
// Sanitize(Sanitize(v)) equals Sanitize(v).
func Sanitize(value any, nulls bool) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			if dropValue(elem, nulls) {
				continue
			}
			out[k] = Sanitize(elem, nulls)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, elem := range v {
			if dropValue(elem, nulls) {
				continue
			}
			out = append(out, Sanitize(elem, nulls))
		}
		return out
	}
	return value
}

func dropValue(v any, nulls bool) bool {
	if v == nil {
		return !nulls
	}
	s, ok := v.(string)
	return ok && s == ""
}
