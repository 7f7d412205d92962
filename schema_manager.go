/*
Package onetable – schema manager.

Holds the active schema and the models prepared from it.
*/
package onetable

import (
	"fmt"
	"sort"
	"sync"
)

const maxLocalIndexes = 5

// schemaManager holds the active schema state for a Table.
type schemaManager struct {
	table *Table

	mu         sync.RWMutex
	definition *SchemaDef
	indexes    map[string]*IndexDef
	params     SchemaParams
	models     map[string]*Model
}

func newSchemaManager(table *Table) *schemaManager {
	return &schemaManager{table: table, models: map[string]*Model{}}
}

// setSchema validates schema, prepares every model and swaps them in. On
// error the previous schema stays active.
func (sm *schemaManager) setSchema(schema *SchemaDef) error {
	if schema == nil {
		return NewArgError("Missing schema")
	}
	if err := validateSchema(schema); err != nil {
		return err
	}
	params := SchemaParams{}
	if schema.Params != nil {
		params = *schema.Params
	}
	models := make(map[string]*Model, len(schema.Models))
	for _, name := range sortedKeys(schema.Models) {
		m, err := newModel(sm.table, name, schema.Models[name], schema.Indexes, params)
		if err != nil {
			return err
		}
		models[name] = m
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.definition = schema
	sm.indexes = schema.Indexes
	sm.params = params
	sm.models = models
	return nil
}

// validateSchema checks the index table. Local indexes inherit the primary hash.
func validateSchema(schema *SchemaDef) error {
	if len(schema.Indexes) == 0 {
		return NewArgError("Schema is missing indexes", ErrValidation)
	}
	primary, ok := schema.Indexes[primaryIndex]
	if !ok || primary == nil || primary.Hash == "" {
		return NewArgError("Schema is missing a primary index with a hash attribute", ErrValidation)
	}
	lsiCount := 0
	for _, name := range sortedKeys(schema.Indexes) {
		idx := schema.Indexes[name]
		if name == primaryIndex {
			continue
		}
		if idx == nil {
			return NewArgError(fmt.Sprintf("Index %q is empty", name), ErrValidation)
		}
		if idx.Type == "local" || idx.Hash == "" {
			if idx.Hash != "" && idx.Hash != primary.Hash {
				return NewArgError(fmt.Sprintf("LSI %q should not define a different hash than primary", name), ErrValidation)
			}
			if idx.Sort == "" {
				return NewArgError(fmt.Sprintf("LSI %q must define a sort attribute", name), ErrValidation)
			}
			idx.Type = "local"
			idx.Hash = primary.Hash
			lsiCount++
		}
	}
	if lsiCount > maxLocalIndexes {
		return NewArgError(fmt.Sprintf("Schema has too many LSIs (max %d)", maxLocalIndexes), ErrValidation)
	}
	return nil
}

// addModel adds a model to the active schema at runtime.
func (sm *schemaManager) addModel(name string, fields FieldMap) error {
	sm.mu.RLock()
	indexes, params := sm.indexes, sm.params
	sm.mu.RUnlock()
	if indexes == nil {
		return NewArgError("Cannot add model " + name + " before a schema is set")
	}
	m, err := newModel(sm.table, name, fields, indexes, params)
	if err != nil {
		return err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.models[name] = m
	return nil
}

func (sm *schemaManager) listModels() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	names := make([]string, 0, len(sm.models))
	for k := range sm.models {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (sm *schemaManager) getModel(name string) (*Model, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if name == "" {
		return nil, NewArgError("Undefined model name")
	}
	m, ok := sm.models[name]
	if !ok {
		return nil, NewArgError(fmt.Sprintf("Cannot find model %q", name))
	}
	return m, nil
}

func (sm *schemaManager) removeModel(name string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.models[name]; !ok {
		return NewArgError(fmt.Sprintf("Cannot find model %q", name))
	}
	delete(sm.models, name)
	return nil
}

// currentSchema returns the active schema definition with resolved params.
func (sm *schemaManager) currentSchema() *SchemaDef {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.definition == nil {
		return nil
	}
	cp := *sm.definition
	p := sm.params
	p.Separator = coalesce(p.Separator, "#")
	p.TypeField = coalesce(p.TypeField, "_type")
	cp.Params = &p
	return &cp
}
