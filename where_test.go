package onetable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bareExpression(t *testing.T, model string, params *Params) *Expression {
	t.Helper()
	if params == nil {
		params = &Params{}
	}
	return &Expression{model: testModel(t, model), params: params, ph: newPlaceholders()}
}

func TestTokenizeWhere(t *testing.T) {
	tokens, err := tokenizeWhere(`${status} = {"a}b"} and #x IN (@{...ids})`)
	require.NoError(t, err)
	assert.Equal(t, []whereToken{
		{kind: whereName, text: "status"},
		{kind: whereLiteral, text: " = "},
		{kind: whereValue, text: `"a}b"`},
		{kind: whereLiteral, text: " and #x IN ("},
		{kind: whereSubst, text: "ids", spread: true},
		{kind: whereLiteral, text: ")"},
	}, tokens)
}

func TestTokenizeWhere_Unterminated(t *testing.T) {
	for _, where := range []string{"${status", "${a} = {1", `${a} = {"x}`, "@{ids"} {
		_, err := tokenizeWhere(where)
		require.Error(t, err, where)
		assert.True(t, errors.Is(err, ErrArgumentSentinel), where)
	}
}

func TestParseWhereValue(t *testing.T) {
	assert.Equal(t, int64(1), parseWhereValue("1"))
	// signed literals are not bare digits
	assert.Equal(t, "-5", parseWhereValue("-5"))
	assert.Equal(t, "a", parseWhereValue(`"a"`))
	assert.Equal(t, true, parseWhereValue("true"))
	assert.Equal(t, false, parseWhereValue("false"))
	assert.Equal(t, "x", parseWhereValue("x"))
	assert.Equal(t, "1.5", parseWhereValue("1.5"))
	assert.Equal(t, "-", parseWhereValue("-"))
	assert.IsType(t, float64(0), parseWhereValue("123456789012345678901234567890"))
}

func TestExpand_LiteralTypes(t *testing.T) {
	e := bareExpression(t, "User", nil)

	out, err := e.expand(`${age} = {1} and ${name} = {"a"} and ${status} <> {x} and ${email} <> {true}`)
	require.NoError(t, err)
	assert.Equal(t, "#_0 = :_0 and #_1 = :_1 and #_2 <> :_2 and #_3 <> :_3", out)
	assert.Equal(t, map[string]any{":_0": int64(1), ":_1": "a", ":_2": "x", ":_3": true}, e.ph.Values())
	assert.Equal(t, map[string]string{"#_0": "age", "#_1": "name", "#_2": "status", "#_3": "email"}, e.ph.Names())
}

func TestExpand_MappedAndNestedNames(t *testing.T) {
	e := bareExpression(t, "Order", nil)

	out, err := e.expand(`${total} > {100} and size(${profile.address[0].zip}) > {0}`)
	require.NoError(t, err)
	assert.Equal(t, "#_0 > :_0 and size(#_1.#_2[0].#_3) > :_1", out)
	assert.Equal(t, map[string]string{"#_0": "t", "#_1": "profile", "#_2": "address", "#_3": "zip"}, e.ph.Names())
}

func TestExpand_Substitutions(t *testing.T) {
	e := bareExpression(t, "User", &Params{Substitutions: map[string]any{
		"ids":   []string{"a", "b"},
		"limit": 10,
	}})

	out, err := e.expand(`${id} IN (@{...ids}) and ${age} < @{limit}`)
	require.NoError(t, err)
	assert.Equal(t, "#_0 IN (:_0, :_1) and #_1 < :_2", out)
	assert.Equal(t, map[string]any{":_0": "a", ":_1": "b", ":_2": 10}, e.ph.Values())
}

func TestExpand_SubstitutionErrors(t *testing.T) {
	e := bareExpression(t, "User", &Params{Substitutions: map[string]any{"one": 1}})

	_, err := e.expand(`${id} = @{missing}`)
	assert.True(t, errors.Is(err, ErrArgumentSentinel))

	_, err = e.expand(`${id} IN (@{...one})`)
	assert.True(t, errors.Is(err, ErrArgumentSentinel))
}
