/*
Package onetable – model preparation (field parsing, ordering, mapping).
*/
package onetable

import (
	"fmt"
	"sort"
	"strings"
)

// prepModel builds the prepared fields of a model from its definition.
// Index attributes without a field of their own get an implicit string field.
func (m *Model) prepModel(def FieldMap) error {
	indexed := indexAttributes(m.indexes)
	mapped := map[string]string{}

	names := make([]string, 0, len(def))
	for name := range def {
		names = append(names, name)
	}
	sort.Strings(names)

	byName := map[string]*Field{}
	for _, name := range names {
		fd := def[name]
		if fd == nil {
			fd = &FieldDef{}
		}
		ft, err := checkType(fd.Type, name, m.Name)
		if err != nil {
			return err
		}
		f := &Field{
			Name:      name,
			Def:       fd,
			Type:      ft,
			Attribute: name,
			Required:  fd.Required,
			Nulls:     m.nulls,
			Filter:    true,
			Generate:  fd.Generate,
		}
		if fd.Map != "" {
			if strings.Contains(fd.Map, ".") {
				return NewArgError(fmt.Sprintf("Cannot map field %q of model %q to the packed attribute %q", name, m.Name, fd.Map),
					ErrValidation)
			}
			f.Attribute = fd.Map
		}
		if prev, dup := mapped[f.Attribute]; dup {
			return NewArgError(fmt.Sprintf("Fields %q and %q of model %q map to the same attribute %q", prev, name, m.Name, f.Attribute),
				ErrValidation)
		}
		mapped[f.Attribute] = name
		if fd.Nulls != nil {
			f.Nulls = *fd.Nulls
		}
		if fd.Filter != nil {
			f.Filter = *fd.Filter
		}
		if fd.Generate != "" && !validGenerator(fd.Generate) {
			return NewArgError(fmt.Sprintf("Unknown generator %q for field %q in model %q", fd.Generate, name, m.Name), ErrValidation)
		}
		if fd.Value != "" {
			if f.Template, err = parseTemplate(fd.Value); err != nil {
				return err
			}
		}
		f.IsIndexed = indexed[f.Attribute]
		byName[name] = f
	}

	for _, att := range sortedKeys(indexed) {
		if _, ok := mapped[att]; ok {
			continue
		}
		if _, clash := byName[att]; clash {
			continue
		}
		byName[att] = &Field{Name: att, Def: &FieldDef{Type: FieldTypeString}, Type: FieldTypeString,
			Attribute: att, IsIndexed: true, Nulls: m.nulls, Filter: true}
		mapped[att] = att
		names = append(names, att)
	}
	sort.Strings(names)

	m.byName = byName
	m.fields = nil
	visiting := map[string]bool{}
	for _, name := range names {
		if err := m.orderFields(byName[name], visiting); err != nil {
			return err
		}
	}
	return nil
}

// checkType normalises and validates the FieldType. A missing type means string.
func checkType(t FieldType, fieldName, modelName string) (FieldType, error) {
	if t == "" {
		return FieldTypeString, nil
	}
	norm := FieldType(strings.ToLower(string(t)))
	if !validFieldTypes[norm] {
		return "", NewArgError(fmt.Sprintf("Unknown type %q for field %q in model %q", t, fieldName, modelName), ErrValidation)
	}
	return norm, nil
}

// orderFields appends field to m.fields after every field its template
// references. A template cycle is a validation error.
func (m *Model) orderFields(field *Field, visiting map[string]bool) error {
	for _, f := range m.fields {
		if f == field {
			return nil
		}
	}
	if visiting[field.Name] {
		return NewArgError(fmt.Sprintf("Value template cycle at field %q in model %q", field.Name, m.Name), ErrValidation)
	}
	if field.Template != nil {
		visiting[field.Name] = true
		for _, v := range field.Template.Vars() {
			name, _, _ := strings.Cut(v, ".")
			if ref, ok := m.byName[name]; ok && ref != field {
				if err := m.orderFields(ref, visiting); err != nil {
					return err
				}
			}
		}
		delete(visiting, field.Name)
	}
	m.fields = append(m.fields, field)
	return nil
}

// indexAttributes returns the set of attributes used as hash or sort by any index.
func indexAttributes(indexes map[string]*IndexDef) map[string]bool {
	atts := map[string]bool{}
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		for _, att := range []string{idx.Hash, idx.Sort} {
			if att != "" {
				atts[att] = true
			}
		}
	}
	return atts
}

func validGenerator(gen string) bool {
	switch gen {
	case "uuid", "ulid", "uid":
		return true
	}
	var n int
	_, err := fmt.Sscanf(gen, "uid(%d)", &n)
	return err == nil && n > 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
