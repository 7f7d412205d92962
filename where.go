/*
Package onetable – where clauses.

A where clause is free-form DynamoDB condition text with three kinds of
references:

	${path}      attribute name, replaced by a #_n name token
	{literal}    inline value, replaced by a :_n value token
	@{name}      value from Params.Substitutions; @{...name} spreads a list

The clause is tokenized first and substituted left to right, so tokens are
numbered in the order they appear.
*/
package onetable

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type whereTokenKind int

const (
	whereLiteral whereTokenKind = iota
	whereName
	whereValue
	whereSubst
)

type whereToken struct {
	kind   whereTokenKind
	text   string
	spread bool
}

// tokenizeWhere splits a where clause into literal text and references.
func tokenizeWhere(where string) ([]whereToken, error) {
	var tokens []whereToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, whereToken{kind: whereLiteral, text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(where); {
		switch {
		case strings.HasPrefix(where[i:], "${"):
			end := strings.IndexByte(where[i+2:], '}')
			if end < 0 {
				return nil, unterminated(where, i)
			}
			flush()
			tokens = append(tokens, whereToken{kind: whereName, text: strings.TrimSpace(where[i+2 : i+2+end])})
			i += end + 3

		case strings.HasPrefix(where[i:], "@{"):
			end := strings.IndexByte(where[i+2:], '}')
			if end < 0 {
				return nil, unterminated(where, i)
			}
			flush()
			name := strings.TrimSpace(where[i+2 : i+2+end])
			spread := strings.HasPrefix(name, "...")
			tokens = append(tokens, whereToken{kind: whereSubst, text: strings.TrimPrefix(name, "..."), spread: spread})
			i += end + 3

		case where[i] == '{':
			end, err := valueEnd(where, i+1)
			if err != nil {
				return nil, err
			}
			flush()
			tokens = append(tokens, whereToken{kind: whereValue, text: where[i+1 : end]})
			i = end + 1

		default:
			lit.WriteByte(where[i])
			i++
		}
	}
	flush()
	return tokens, nil
}

// valueEnd returns the index of the '}' closing a value reference whose
// content starts at from. A quoted value may itself contain '}'.
func valueEnd(where string, from int) (int, error) {
	i := from
	if i < len(where) && where[i] == '"' {
		q := strings.IndexByte(where[i+1:], '"')
		if q < 0 {
			return 0, unterminated(where, from-1)
		}
		i += q + 2
	}
	end := strings.IndexByte(where[i:], '}')
	if end < 0 {
		return 0, unterminated(where, from-1)
	}
	return i + end, nil
}

func unterminated(where string, pos int) error {
	return NewError(fmt.Sprintf("Unterminated reference at offset %d in where clause", pos),
		WithCode(ErrArgument), WithContext(map[string]any{"where": where}))
}

// parseWhereValue converts the text of a {literal} reference. Digits become
// numbers, "quoted" text a string, true/false booleans; anything else is kept
// as the raw string.
func parseWhereValue(text string) any {
	switch {
	case isDigits(text):
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return text
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		return text[1 : len(text)-1]
	case text == "true":
		return true
	case text == "false":
		return false
	}
	return text
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// expand compiles a where clause, allocating tokens from the expression.
func (e *Expression) expand(where string) (string, error) {
	tokens, err := tokenizeWhere(where)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case whereLiteral:
			b.WriteString(tok.text)
		case whereName:
			b.WriteString(e.target(tok.text))
		case whereValue:
			b.WriteString(e.ph.value(parseWhereValue(tok.text)))
		case whereSubst:
			s, err := e.substitute(tok)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

func (e *Expression) substitute(tok whereToken) (string, error) {
	v, ok := e.params.Substitutions[tok.text]
	if !ok || v == nil {
		return "", NewArgError(fmt.Sprintf("Missing substitution for %q", tok.text))
	}
	if !tok.spread {
		return e.ph.value(v), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", NewArgError(fmt.Sprintf("Substitution %q must be a list to spread", tok.text))
	}
	toks := make([]string, rv.Len())
	for i := range toks {
		toks[i] = e.ph.value(rv.Index(i).Interface())
	}
	return strings.Join(toks, ", "), nil
}

// target translates a field path such as "address.zip" or "tags[2]" into name
// tokens. The first segment is mapped to its wire attribute when it names a
// field; later segments and unmodeled names are used as given.
func (e *Expression) target(path string) string {
	parts := strings.Split(path, ".")
	out := make([]string, len(parts))
	for i, part := range parts {
		subscript := ""
		if idx := strings.IndexByte(part, '['); idx >= 0 {
			part, subscript = part[:idx], part[idx:]
		}
		att := part
		if i == 0 {
			att = e.model.attribute(part)
		}
		out[i] = e.ph.name(att) + subscript
	}
	return strings.Join(out, ".")
}
