package onetable

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// testSchema returns a fresh schema; validateSchema normalises indexes in place.
func testSchema() *SchemaDef {
	return &SchemaDef{
		Format:  "onetable:1.1.0",
		Version: "0.0.1",
		Indexes: map[string]*IndexDef{
			"primary": {Hash: "pk", Sort: "sk"},
			"gs1":     {Hash: "gs1pk", Sort: "gs1sk", Project: "all"},
		},
		Models: map[string]ModelDef{
			"User": {
				"pk":      {Type: FieldTypeString, Value: "${_type}#${id}"},
				"sk":      {Type: FieldTypeString, Value: "${_type}#"},
				"id":      {Type: FieldTypeString, Generate: "ulid"},
				"name":    {Type: FieldTypeString},
				"email":   {Type: FieldTypeString},
				"status":  {Type: FieldTypeString, Default: "idle"},
				"age":     {Type: FieldTypeNumber},
				"counter": {Type: FieldTypeNumber},
				"gs1pk":   {Type: FieldTypeString, Value: "${_type}#${email}"},
				"gs1sk":   {Type: FieldTypeString, Value: "${_type}#${name}"},
			},
			"Order": {
				"pk":        {Type: FieldTypeString, Value: "account#${accountId}"},
				"sk":        {Type: FieldTypeString, Value: "order#${date}#${orderId}"},
				"accountId": {Type: FieldTypeString},
				"orderId":   {Type: FieldTypeString},
				"date":      {Type: FieldTypeString},
				"total":     {Type: FieldTypeNumber, Map: "t"},
				"note":      {Type: FieldTypeString, Nulls: boolPtr(true)},
				"secret":    {Type: FieldTypeString, Filter: boolPtr(false)},
			},
		},
	}
}

func newTestTable(t *testing.T, opts ...func(*TableParams)) *Table {
	t.Helper()
	params := TableParams{
		Name:     "TestTable",
		Schema:   testSchema(),
		Logger:   SlogLogger{L: newTestLogger(t)},
		Generate: func(kind string) string { return kind + "-1" },
	}
	for _, o := range opts {
		o(&params)
	}
	table, err := NewTable(params)
	require.NoError(t, err)
	return table
}

func testModel(t *testing.T, name string) *Model {
	t.Helper()
	m, err := newTestTable(t).GetModel(name)
	require.NoError(t, err)
	return m
}

// newTestLogger returns a logger that writes to t.Log().
func newTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
