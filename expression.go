/*
Package onetable – expression builder.

An Expression translates one model operation into DynamoDB command
parameters. It is built once per operation, owns its placeholder tokens and
is discarded after Command.
*/
package onetable

import (
	"fmt"
	"sort"
	"strings"
)

// Expression is the translation state of a single operation.
type Expression struct {
	model      *Model
	op         Op
	properties Item
	params     *Params
	context    Item

	// active index
	index     *IndexDef
	indexName string
	hash      string
	sort      string

	ph *placeholders

	conditions []string
	filters    []string
	keys       []string
	project    []string
	updates    []string

	// bulk update action: "", "add", "remove" or "delete"
	action string

	key  Item // literal key (get/delete/update)
	puts Item // item payload (put)

	// resolved values by wire attribute and by field name
	resolved Item
	byName   Item

	// field filters wait until the key fragments have their tokens
	pending []pendingFilter

	fallback bool
}

// NewExpression prepares the translation of op on model. A nil params is
// treated as empty.
func NewExpression(model *Model, op Op, properties Item, params *Params) (*Expression, error) {
	if model == nil {
		return nil, NewArgError("Missing model")
	}
	if params == nil {
		params = &Params{}
	}
	if properties == nil {
		properties = Item{}
	}
	e := &Expression{
		model:      model,
		op:         op,
		properties: properties,
		params:     params,
		context:    model.table.GetContext(),
		ph:         newPlaceholders(),
		key:        Item{},
		puts:       Item{},
		resolved:   Item{},
		byName:     Item{},
	}
	if err := e.prepare(); err != nil {
		return nil, err
	}
	return e, nil
}

// Fallback reports whether the operation cannot be expressed as a direct key
// operation. The caller should re-issue it as a query and filter the results.
func (e *Expression) Fallback() bool { return e.fallback }

// Op returns the operation being translated.
func (e *Expression) Op() Op { return e.op }

// Resolved returns the resolved values keyed by wire attribute name.
func (e *Expression) Resolved() Item { return e.resolved }

func (e *Expression) prepare() error {
	idx, name, fallback, err := e.model.selectIndex(e.op, e.params)
	if err != nil {
		return err
	}
	e.index, e.indexName, e.hash, e.sort = idx, name, idx.Hash, idx.Sort
	if fallback {
		e.setFallback("index supports find and scan only", map[string]any{"index": name})
		return nil
	}

	if e.op == OpUpdate {
		if e.action, err = e.params.bulkAction(); err != nil {
			return err
		}
	}

	switch e.op {
	case OpPut, OpUpdate, OpDelete:
		if err := e.addConditions(); err != nil {
			return err
		}
	case OpFind, OpScan:
		if err := e.addWhereFilters(); err != nil {
			return err
		}
	case OpGet:
	}

	if e.op == OpScan {
		e.addAdHocFilters()
	}

	for _, field := range e.model.fields {
		if err := e.addField(field); err != nil {
			return err
		}
		if e.fallback {
			return nil
		}
	}

	e.flushFilters()

	if e.op == OpUpdate {
		if err := e.addBulkUpdates(); err != nil {
			return err
		}
	}
	e.addProjection()

	if v, ok := e.resolved[e.hash]; (!ok || v == nil) && e.op != OpScan {
		return NewError(fmt.Sprintf("Cannot %s %q without a value for the hash attribute %q", e.op, e.model.Name, e.hash),
			WithCode(ErrMissing), WithContext(map[string]any{"model": e.model.Name, "index": e.indexName}))
	}
	return nil
}

func (e *Expression) setFallback(reason string, ctx map[string]any) {
	e.fallback = true
	if ctx == nil {
		ctx = map[string]any{}
	}
	ctx["model"], ctx["op"] = e.model.Name, e.op.String()
	e.model.table.log.Trace("Fallback: "+reason, ctx)
}

// addField resolves a field and routes its value into the expression.
func (e *Expression) addField(field *Field) error {
	value, defined := e.resolve(field)
	if !defined || isEmptyValue(value) {
		switch {
		case field.Nulls && (e.op == OpPut || e.op == OpUpdate) && e.suppliedNull(field.Name):
			// explicit null on a nullable field is written
			value = nil
		case e.op == OpPut && field.Generate != "":
			value = e.model.table.generate(field.Generate)
		case e.op == OpPut && field.Def != nil && field.Def.Default != nil:
			value = field.Def.Default
		case field.Attribute == e.sort && e.params.High && e.op.targetsKey():
			e.setFallback("missing sort key value", map[string]any{"field": field.Name})
			return nil
		default:
			return nil
		}
	}
	value = Sanitize(value, field.Nulls)
	e.resolved[field.Attribute] = value
	e.byName[field.Name] = value
	return e.route(field, value)
}

func (e *Expression) route(field *Field, value any) error {
	att := field.Attribute
	isKey := att == e.hash || (e.sort != "" && att == e.sort)
	switch e.op {
	case OpFind:
		if isKey {
			return e.addKey(att, value)
		}
		e.pending = append(e.pending, pendingFilter{field, value})
	case OpScan:
		e.pending = append(e.pending, pendingFilter{field, value})
	case OpGet, OpDelete:
		if isKey {
			return e.addKeyValue(att, value)
		}
	case OpUpdate:
		if isKey {
			return e.addKeyValue(att, value)
		}
		if e.action == "" {
			e.addUpdate(att, value)
		}
	case OpPut:
		if _, ok := value.(KeyCondition); ok {
			return NewArgError(fmt.Sprintf("Cannot put a key condition into %q", field.Name))
		}
		e.puts[att] = value
	}
	return nil
}

// resolve computes the value of a field. A caller-supplied value wins over
// the field's template. A composite sort key that cannot be fully resolved on
// find degrades to a begins_with on its literal prefix.
func (e *Expression) resolve(field *Field) (any, bool) {
	if field.Template == nil {
		return e.lookup(field.Name)
	}
	if v, ok := e.properties[field.Name]; ok && v != nil {
		return v, true
	}
	out, prefix, ok := field.Template.expand(e.lookup)
	if ok {
		return out, true
	}
	if field.Attribute == e.sort && e.op == OpFind && e.params.Where == "" {
		if prefix = trimDelimiter(prefix, e.model.delimiter); prefix != "" {
			return BeginsWith(prefix), true
		}
	}
	return nil, false
}

// lookup finds name in the properties, then the values already resolved, then
// the table context. Empty strings count as missing. Dotted names descend into
// nested maps.
func (e *Expression) lookup(name string) (any, bool) {
	head, rest, _ := strings.Cut(name, ".")
	for _, src := range []Item{e.properties, e.byName, e.context} {
		v, ok := src[head]
		if !ok || isEmptyValue(v) {
			continue
		}
		if rest == "" {
			return v, true
		}
		if nv, ok := descend(v, rest); ok {
			return nv, true
		}
	}
	if rest == "" && head == e.model.typeField {
		return e.model.Name, true
	}
	return nil, false
}

func descend(v any, path string) (any, bool) {
	for _, part := range strings.Split(path, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[part]; !ok || v == nil {
			return nil, false
		}
	}
	return v, true
}

func (e *Expression) suppliedNull(name string) bool {
	v, ok := e.properties[name]
	return ok && v == nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ─── Conditions and filters ──────────────────────────────────────────────────

func (e *Expression) addConditions() error {
	p := e.params
	if p.Exists != nil {
		fn := "attribute_exists"
		if !*p.Exists {
			fn = "attribute_not_exists"
		}
		e.conditions = append(e.conditions, fmt.Sprintf("%s(%s)", fn, e.ph.name(e.hash)))
		if e.sort != "" {
			e.conditions = append(e.conditions, fmt.Sprintf("%s(%s)", fn, e.ph.name(e.sort)))
		}
	}
	if p.Type != "" {
		if e.sort == "" {
			return NewArgError(fmt.Sprintf("Cannot check the type of a missing sort attribute on index %q", e.indexName))
		}
		e.conditions = append(e.conditions, fmt.Sprintf("attribute_type(%s, %s)", e.ph.name(e.sort), e.ph.value(p.Type)))
	}
	if p.Where != "" && (e.op == OpUpdate || e.op == OpDelete) {
		where, err := e.expand(p.Where)
		if err != nil {
			return err
		}
		e.conditions = append(e.conditions, where)
	}
	return nil
}

func (e *Expression) addWhereFilters() error {
	if e.params.Where == "" {
		return nil
	}
	where, err := e.expand(e.params.Where)
	if err != nil {
		return err
	}
	e.filters = append(e.filters, where)
	return nil
}

// addAdHocFilters filters a scan on properties that are not modeled fields.
func (e *Expression) addAdHocFilters() {
	names := make([]string, 0, len(e.properties))
	for name, v := range e.properties {
		if _, ok := e.model.byName[name]; !ok && v != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		e.filters = append(e.filters, fmt.Sprintf("%s = %s", e.ph.name(name), e.ph.value(e.properties[name])))
	}
}

type pendingFilter struct {
	field *Field
	value any
}

func (e *Expression) flushFilters() {
	for _, pf := range e.pending {
		e.addFilter(pf.field, pf.value)
	}
	e.pending = nil
}

// addFilter adds an equality filter for a field the caller supplied.
func (e *Expression) addFilter(field *Field, value any) {
	if !field.Filter || e.params.Batch {
		return
	}
	if v, ok := e.properties[field.Name]; !ok || v == nil {
		return
	}
	e.filters = append(e.filters, fmt.Sprintf("%s = %s", e.ph.name(field.Attribute), e.ph.value(value)))
}

// ─── Keys ────────────────────────────────────────────────────────────────────

// addKey adds a key-condition fragment (find).
func (e *Expression) addKey(att string, value any) error {
	kc, err := parseKeyCondition(value)
	if err != nil {
		return err
	}
	if att == e.hash && kc.Kind != KeyEquals {
		return NewError(fmt.Sprintf("The hash attribute %q only supports equality", att),
			WithCode(ErrKeyCondition), WithContext(map[string]any{"condition": kc.Kind.String()}))
	}
	e.keys = append(e.keys, kc.render(att, e.ph))
	return nil
}

// addKeyValue sets a literal key attribute (get/delete/update).
func (e *Expression) addKeyValue(att string, value any) error {
	switch value.(type) {
	case KeyCondition, *KeyCondition, map[string]any:
		return NewArgError(fmt.Sprintf("Cannot use a key condition on %q for %s, a full key is required", att, e.op))
	}
	e.key[att] = value
	return nil
}

// ─── Projection ──────────────────────────────────────────────────────────────

func (e *Expression) addProjection() {
	for _, name := range e.params.Fields {
		e.project = append(e.project, e.ph.name(e.model.attribute(name)))
	}
}
