package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
version: 0.0.1
indexes:
  primary: {hash: pk, sort: sk}
  gs1: {hash: gs1pk, sort: gs1sk}
models:
  User:
    pk: {value: "${_type}#${id}"}
    sk: {value: "${_type}#"}
    id: {generate: ulid}
    email: {}
    counter: {type: number}
    gs1pk: {value: "${_type}#${email}"}
    gs1sk: {value: "${_type}#"}
  Order:
    pk: {value: "account#${accountId}"}
    sk: {value: "order#${orderId}"}
`

// run executes the CLI in a scratch directory holding schema.yaml.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(testSchema), 0o600))
	cfgFile = ""

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func TestModels(t *testing.T) {
	out, err := run(t, "models", "-s", "schema.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Order\nUser\n", out)
}

func TestTranslate_Get(t *testing.T) {
	out, err := run(t, "translate", "get", "-s", "schema.yaml", "-m", "User", "-p", "{id: u1}", "--table", "Main")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"TableName": "Main",
		"Key":       map[string]any{"pk": "User#u1", "sk": "User#"},
	}, decode(t, out))
}

func TestTranslate_UpdateAdd(t *testing.T) {
	out, err := run(t, "translate", "update", "-s", "schema.yaml", "-m", "User",
		"-p", `{"id": "u1"}`, "--add", "{counter: 1}")
	require.NoError(t, err)

	cmd := decode(t, out)
	assert.Equal(t, "add #_0 :_0", cmd["UpdateExpression"])
	assert.Equal(t, map[string]any{"#_0": "counter"}, cmd["ExpressionAttributeNames"])
	assert.Equal(t, map[string]any{":_0": float64(1)}, cmd["ExpressionAttributeValues"])
	assert.Equal(t, "ALL_NEW", cmd["ReturnValues"])
}

func TestTranslate_FindWhere(t *testing.T) {
	out, err := run(t, "translate", "query", "-s", "schema.yaml", "-m", "User",
		"-p", "{id: u1}", "-w", `${email} = {"a@b.c"}`, "--reverse", "--limit", "10")
	require.NoError(t, err)

	cmd := decode(t, out)
	assert.Equal(t, "(#_0 = :_0) and (#_3 = :_3)", cmd["FilterExpression"])
	assert.Equal(t, "#_1 = :_1 and #_2 = :_2", cmd["KeyConditionExpression"])
	assert.Equal(t, false, cmd["ScanIndexForward"])
	assert.Equal(t, float64(10), cmd["Limit"])
}

func TestTranslate_Fallback(t *testing.T) {
	out, err := run(t, "translate", "get", "-s", "schema.yaml", "-m", "User",
		"--index", "gs1", "-p", "{email: a@b.c}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fallback": true}, decode(t, out))
}

func TestTranslate_Typed(t *testing.T) {
	out, err := run(t, "translate", "get", "-s", "schema.yaml", "-m", "User", "-p", "{id: u1}", "--typed")
	require.NoError(t, err)
	assert.Contains(t, out, `"TableName": "onetable"`)
	assert.Contains(t, out, `"Value": "User#u1"`)
}

func TestTranslate_JSONLogs(t *testing.T) {
	_, err := run(t, "translate", "scan", "-s", "schema.yaml", "-m", "Order", "--log-format", "json")
	require.NoError(t, err)
}

func TestTranslate_Errors(t *testing.T) {
	tests := map[string][]string{
		"unknown op":       {"translate", "upsert", "-s", "schema.yaml", "-m", "User"},
		"no model":         {"translate", "get", "-s", "schema.yaml"},
		"no schema":        {"translate", "get", "-m", "User"},
		"unknown model":    {"translate", "get", "-s", "schema.yaml", "-m", "Nope"},
		"bad properties":   {"translate", "get", "-s", "schema.yaml", "-m", "User", "-p", "[1"},
		"bad exists":       {"translate", "put", "-s", "schema.yaml", "-m", "User", "--exists", "maybe"},
		"bad log format":   {"models", "-s", "schema.yaml", "--log-format", "xml"},
		"missing hash key": {"translate", "get", "-s", "schema.yaml", "-m", "Order"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}
