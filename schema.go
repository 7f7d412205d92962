/*
Package onetable – schema types.

Field, index and schema definitions as they appear in a schema document, plus
the prepared (read-only) field representation used during translation.
*/
package onetable

// FieldType names the declared type of a field.
type FieldType string

const (
	FieldTypeArray   FieldType = "array"
	FieldTypeBinary  FieldType = "binary"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeNumber  FieldType = "number"
	FieldTypeObject  FieldType = "object"
	FieldTypeSet     FieldType = "set"
	FieldTypeString  FieldType = "string"
)

var validFieldTypes = map[FieldType]bool{
	FieldTypeArray: true, FieldTypeBinary: true, FieldTypeBoolean: true,
	FieldTypeDate: true, FieldTypeNumber: true, FieldTypeObject: true,
	FieldTypeSet: true, FieldTypeString: true,
}

// IndexDef describes a primary or secondary index.
type IndexDef struct {
	Hash    string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Sort    string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`       // "local" for LSI
	Project any    `json:"project,omitempty" yaml:"project,omitempty"` // "all"|"keys"|[]string
}

// FieldDef is a single field definition inside a model.
type FieldDef struct {
	Type     FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any       `json:"default,omitempty" yaml:"default,omitempty"`
	Value    string    `json:"value,omitempty" yaml:"value,omitempty"`       // template e.g. "${_type}#${id}"
	Generate string    `json:"generate,omitempty" yaml:"generate,omitempty"` // "uuid"|"ulid"|"uid"|"uid(n)"
	Map      string    `json:"map,omitempty" yaml:"map,omitempty"`           // wire attribute name
	Nulls    *bool     `json:"nulls,omitempty" yaml:"nulls,omitempty"`
	Filter   *bool     `json:"filter,omitempty" yaml:"filter,omitempty"` // false disables field from filter expressions
}

// FieldMap is a map of field name → definition.
type FieldMap map[string]*FieldDef

// ModelDef is the schema for one model (entity type).
type ModelDef = FieldMap

// SchemaParams holds table-level behavioural flags.
type SchemaParams struct {
	TypeField string `json:"typeField,omitempty" yaml:"typeField,omitempty"`
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`
	Nulls     bool   `json:"nulls,omitempty" yaml:"nulls,omitempty"`
}

// SchemaDef is the top-level schema object passed to Table.
type SchemaDef struct {
	Format  string               `json:"format,omitempty" yaml:"format,omitempty"`
	Version string               `json:"version" yaml:"version"`
	Indexes map[string]*IndexDef `json:"indexes" yaml:"indexes"`
	Models  map[string]ModelDef  `json:"models" yaml:"models"`
	Params  *SchemaParams        `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field is the runtime representation of a schema field.
// Built once during model preparation, read-only afterwards.
type Field struct {
	Name      string
	Def       *FieldDef
	Type      FieldType
	Attribute string

	// IsIndexed is set when the attribute is the hash or sort of any index.
	IsIndexed bool

	Required bool
	Nulls    bool
	Filter   bool
	Generate string

	// Template is nil for fields without a value template.
	Template *template
}
