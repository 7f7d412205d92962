/*
Package onetable – Model type.

A Model is one entity type of the table: its prepared fields in evaluation
order and the table's indexes. Models are read-only after preparation and
may be used by concurrent translations.
*/
package onetable

import (
	"context"
	"sort"
)

// Model represents a DynamoDB single-table entity.
type Model struct {
	table *Table
	Name  string

	tableName string
	delimiter string
	typeField string
	nulls     bool

	indexes map[string]*IndexDef

	// fields in dependency order: template fields follow the fields they use
	fields []*Field
	byName map[string]*Field
}

// newModel constructs and prepares a Model.
func newModel(table *Table, name string, def FieldMap, indexes map[string]*IndexDef, params SchemaParams) (*Model, error) {
	if table == nil {
		return nil, NewArgError("Missing table for model " + name)
	}
	if indexes == nil || indexes[primaryIndex] == nil {
		return nil, NewArgError("Indexes must be defined before creating model "+name, ErrValidation)
	}
	m := &Model{
		table:     table,
		Name:      name,
		tableName: table.Name,
		delimiter: coalesce(params.Separator, "#"),
		typeField: coalesce(params.TypeField, "_type"),
		nulls:     params.Nulls,
		indexes:   indexes,
		byName:    map[string]*Field{},
	}
	if err := m.prepModel(def); err != nil {
		return nil, err
	}
	return m, nil
}

// Field returns the prepared field with the given logical name.
func (m *Model) Field(name string) (*Field, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Fields returns the prepared fields in evaluation order.
func (m *Model) Fields() []*Field {
	out := make([]*Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Indexes returns the names of the indexes available to the model.
func (m *Model) Indexes() []string {
	names := make([]string, 0, len(m.indexes))
	for name := range m.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableName returns the wire table name.
func (m *Model) TableName() string { return m.tableName }

// attribute maps a logical field name to its wire attribute. Unknown names
// are returned unchanged.
func (m *Model) attribute(name string) string {
	if f, ok := m.byName[name]; ok {
		return f.Attribute
	}
	return name
}

// Expression prepares the translation of op against the model.
func (m *Model) Expression(op Op, properties Item, params *Params) (*Expression, error) {
	return NewExpression(m, op, properties, params)
}

// Command translates op into a DynamoDB command map. It returns nil, nil
// when the operation must fall back to a query or has no key to address.
func (m *Model) Command(op Op, properties Item, params *Params) (Item, error) {
	e, err := NewExpression(m, op, properties, params)
	if err != nil {
		return nil, err
	}
	return e.Command()
}

// ─── High-level API ──────────────────────────────────────────────────────────
// These mark the call as high level so a missing sort value falls back
// instead of addressing a partial key.

func (m *Model) Get(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpGet, properties, params)
}

func (m *Model) Create(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpPut, properties, params)
}

func (m *Model) Find(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpFind, properties, params)
}

func (m *Model) Scan(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpScan, properties, params)
}

func (m *Model) Update(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpUpdate, properties, params)
}

func (m *Model) Remove(ctx context.Context, properties Item, params *Params) (*Result, error) {
	return m.send(ctx, OpDelete, properties, params)
}

func (m *Model) send(ctx context.Context, op Op, properties Item, params *Params) (*Result, error) {
	p := Params{}
	if params != nil {
		p = *params
	}
	p.High = true
	return m.table.send(ctx, m, op, properties, &p)
}
