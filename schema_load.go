/*
Package onetable – schema documents.

Schemas are YAML or JSON documents; JSON is valid YAML so one decoder serves both.
*/
package onetable

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseSchema decodes a YAML or JSON schema document.
func ParseSchema(data []byte) (*SchemaDef, error) {
	return decodeSchema(bytes.NewReader(data))
}

// LoadSchemaFile reads and decodes the schema document at path.
func LoadSchemaFile(path string) (*SchemaDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewError(fmt.Sprintf("Cannot open schema %q", path), WithCode(ErrArgument), WithCause(err))
	}
	defer f.Close()
	return decodeSchema(f)
}

func decodeSchema(r io.Reader) (*SchemaDef, error) {
	var schema SchemaDef
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, NewError("Cannot parse schema", WithCode(ErrValidation), WithCause(err))
	}
	if err := validateSchema(&schema); err != nil {
		return nil, err
	}
	return &schema, nil
}
