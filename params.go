/*
Package onetable – operation parameters.
*/
package onetable

// Params holds optional operation modifiers. A Params value is read-only
// input for one translation.
type Params struct {
	// Execute false returns the command from Table.Send without dispatching it.
	Execute *bool

	// Index names the index to target; "" or "primary" selects the primary index.
	Index string

	// Exists: true=must exist, false=must not exist, nil=don't care.
	Exists *bool

	// Type adds an attribute_type precondition on the sort attribute ("S", "N", ...).
	Type string

	// Where is a free-form condition (writes) or filter (reads) using
	// ${name}, {value} and @{substitution} tokens.
	Where         string
	Substitutions map[string]any

	// Bulk update actions. At most one may be set.
	Add    map[string]any
	Remove []string
	Delete map[string]any

	// Fields projects the named fields.
	Fields []string

	// Batch shapes the command for BatchGetItem / BatchWriteItem.
	Batch bool

	// Metrics or a non-empty Capacity request consumed-capacity reporting.
	Metrics  bool
	Capacity string // "INDEXES"|"TOTAL"|"NONE"

	// Return is the requested ReturnValues mode ("NONE"|"ALL_NEW"|"ALL_OLD"|...).
	Return string

	Consistent bool
	Limit      int
	Reverse    bool

	// Start is the pagination cursor (ExclusiveStartKey).
	Start Item

	// High marks calls made through the high-level model API. A missing sort
	// value then yields a fallback instead of a partial key.
	High bool

	// PreFormat runs on the unpruned command; PostFormat may replace the result.
	PreFormat  func(model *Model, cmd Item)
	PostFormat func(model *Model, cmd Item) Item
}

// Item is a generic property map passed to model operations and used for commands.
type Item = map[string]any

func (p *Params) execute() bool {
	return p == nil || p.Execute == nil || *p.Execute
}

// bulkAction names the single bulk update action requested, or "" for none.
func (p *Params) bulkAction() (string, error) {
	action := ""
	n := 0
	if p.Add != nil {
		action, n = "add", n+1
	}
	if p.Remove != nil {
		action, n = "remove", n+1
	}
	if p.Delete != nil {
		action, n = "delete", n+1
	}
	if n > 1 {
		return "", NewArgError("Only one of add, remove or delete may be used in one update")
	}
	return action, nil
}

func boolPtr(b bool) *bool { return &b }
