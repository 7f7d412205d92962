/*
Package onetable – Table type.

A Table owns the model registry, the ambient context used to resolve field
templates, the id generators and the optional DynamoDB client.
*/
package onetable

import (
	"fmt"
	"strings"
	"sync"

	uid "github.com/cloudxsgmbh/onetable-expr/internal/uid"
)

// TableParams configures a Table.
type TableParams struct {
	Name    string
	Client  DynamoClient // optional; without it commands are only built
	Schema  *SchemaDef
	Logger  Logger // nil → slog text logger (info+error only)
	Verbose bool   // true → default logger also emits trace/data
	Context Item   // initial table context

	// Generate overrides id generation for fields with a generator
	// ("uuid", "ulid", "uid", "uid(n)").
	Generate func(kind string) string
}

// Table represents a single DynamoDB table using the OneTable pattern.
type Table struct {
	Name string

	client    DynamoClient
	log       Logger
	generator func(kind string) string

	mu      sync.RWMutex
	context Item

	schemaMgr *schemaManager
}

// NewTable creates and initialises a Table instance.
func NewTable(params TableParams) (*Table, error) {
	if params.Name == "" {
		return nil, NewArgError(`Missing "name" property`)
	}
	t := &Table{
		Name:      params.Name,
		client:    params.Client,
		generator: params.Generate,
		context:   Item{},
	}
	if params.Logger != nil {
		t.log = params.Logger
	} else {
		t.log = NewSlogLogger(params.Verbose)
	}
	for k, v := range params.Context {
		t.context[k] = v
	}
	t.schemaMgr = newSchemaManager(t)
	if params.Schema != nil {
		if err := t.SetSchema(params.Schema); err != nil {
			return nil, err
		}
	}
	t.log.Trace("Loading OneTable", map[string]any{"table": t.Name})
	return t, nil
}

// ─── Public schema API ────────────────────────────────────────────────────────

// SetSchema validates schema and replaces every model.
func (t *Table) SetSchema(schema *SchemaDef) error {
	return t.schemaMgr.setSchema(schema)
}

func (t *Table) GetCurrentSchema() *SchemaDef {
	return t.schemaMgr.currentSchema()
}

func (t *Table) GetModel(name string) (*Model, error) {
	return t.schemaMgr.getModel(name)
}

func (t *Table) AddModel(name string, fields FieldMap) error {
	return t.schemaMgr.addModel(name, fields)
}

func (t *Table) RemoveModel(name string) error {
	return t.schemaMgr.removeModel(name)
}

func (t *Table) ListModels() []string {
	return t.schemaMgr.listModels()
}

// Command translates op on the named model into a DynamoDB command map.
func (t *Table) Command(modelName string, op Op, properties Item, params *Params) (Item, error) {
	m, err := t.GetModel(modelName)
	if err != nil {
		return nil, err
	}
	return m.Command(op, properties, params)
}

// ─── Context ──────────────────────────────────────────────────────────────────
// The context is the last source consulted when resolving field values.

// GetContext returns a copy of the table context.
func (t *Table) GetContext() Item {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(Item, len(t.context))
	for k, v := range t.context {
		out[k] = v
	}
	return out
}

func (t *Table) SetContext(ctx Item, merge bool) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !merge {
		t.context = Item{}
	}
	for k, v := range ctx {
		t.context[k] = v
	}
	return t
}

func (t *Table) AddContext(ctx Item) *Table {
	return t.SetContext(ctx, true)
}

func (t *Table) ClearContext() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.context = Item{}
	return t
}

// ─── UID helpers ──────────────────────────────────────────────────────────────

func (t *Table) generate(gen string) any {
	if t.generator != nil {
		return t.generator(gen)
	}
	switch gen {
	case "uuid":
		return t.UUID()
	case "ulid":
		return t.ULID()
	case "uid":
		return t.UID(10)
	}
	if strings.HasPrefix(gen, "uid(") {
		n := 10
		fmt.Sscanf(gen, "uid(%d)", &n) //nolint:errcheck
		return t.UID(n)
	}
	return t.UUID()
}

func (t *Table) UUID() string { return uid.UUID() }

func (t *Table) ULID() string { return uid.ULID() }

func (t *Table) UID(size int) string { return uid.UID(size) }
