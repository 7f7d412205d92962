/*
Package onetable – placeholder allocation.
*/
package onetable

import "strconv"

// placeholders allocates the #_n name tokens and :_n value tokens of one
// expression and records what each token stands for. Every call returns a
// fresh token; counters only grow.
type placeholders struct {
	names  map[string]string
	values map[string]any
	nindex int
	vindex int
}

func newPlaceholders() *placeholders {
	return &placeholders{names: map[string]string{}, values: map[string]any{}}
}

// name binds a new name token to the attribute name att.
func (p *placeholders) name(att string) string {
	tok := "#_" + strconv.Itoa(p.nindex)
	p.nindex++
	p.names[tok] = att
	return tok
}

// value binds a new value token to v.
func (p *placeholders) value(v any) string {
	tok := ":_" + strconv.Itoa(p.vindex)
	p.vindex++
	p.values[tok] = v
	return tok
}

// Names returns the token → attribute bindings.
func (p *placeholders) Names() map[string]string { return p.names }

// Values returns the token → literal bindings.
func (p *placeholders) Values() map[string]any { return p.values }
