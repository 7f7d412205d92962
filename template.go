/*
Package onetable – value templates.

A value template such as "${_type}#${id}" or "${seq:8:0}" is tokenized once at
model preparation into literal and variable segments.
*/
package onetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type segment struct {
	literal string

	// variable segments
	name  string
	width int
	pad   string
}

func (s segment) isVar() bool { return s.name != "" }

type template struct {
	raw      string
	segments []segment
}

// parseTemplate splits tmpl into literal and ${name[:width[:pad]]} segments.
func parseTemplate(tmpl string) (*template, error) {
	t := &template{raw: tmpl}
	rest := tmpl
	for rest != "" {
		start := strings.Index(rest, "${")
		if start < 0 {
			t.segments = append(t.segments, segment{literal: rest})
			break
		}
		if start > 0 {
			t.segments = append(t.segments, segment{literal: rest[:start]})
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return nil, NewArgError(fmt.Sprintf("Unterminated variable in template %q", tmpl), ErrValidation)
		}
		seg, err := parseVariable(rest[start+2 : start+end])
		if err != nil {
			return nil, NewArgError(fmt.Sprintf("Bad variable in template %q: %v", tmpl, err), ErrValidation)
		}
		t.segments = append(t.segments, seg)
		rest = rest[start+end+1:]
	}
	return t, nil
}

func parseVariable(inner string) (segment, error) {
	parts := strings.SplitN(inner, ":", 3)
	seg := segment{name: strings.TrimSpace(parts[0]), pad: "0"}
	if seg.name == "" {
		return seg, fmt.Errorf("empty variable name")
	}
	if len(parts) >= 2 {
		w, err := strconv.Atoi(parts[1])
		if err != nil {
			return seg, fmt.Errorf("bad width %q", parts[1])
		}
		seg.width = w
	}
	if len(parts) == 3 && parts[2] != "" {
		seg.pad = parts[2]
	}
	return seg, nil
}

// Vars returns the variable names referenced by the template in order.
func (t *template) Vars() []string {
	var vars []string
	for _, s := range t.segments {
		if s.isVar() {
			vars = append(vars, s.name)
		}
	}
	return vars
}

func (t *template) isLiteral() bool {
	for _, s := range t.segments {
		if s.isVar() {
			return false
		}
	}
	return true
}

// expand renders the template. ok is false when some variable has no value;
// prefix then holds the rendered text before the first unresolved variable.
func (t *template) expand(lookup func(name string) (any, bool)) (out string, prefix string, ok bool) {
	var b strings.Builder
	ok = true
	for _, s := range t.segments {
		if !s.isVar() {
			b.WriteString(s.literal)
			continue
		}
		v, found := lookup(s.name)
		if !found || v == nil {
			if ok {
				prefix = b.String()
				ok = false
			}
			b.WriteString("${" + s.name + "}")
			continue
		}
		b.WriteString(padLeft(formatTemplateValue(v), s.width, s.pad))
	}
	out = b.String()
	if ok {
		prefix = out
	}
	return out, prefix, ok
}

func formatTemplateValue(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case time.Time:
		return strconv.FormatInt(tv.UnixMilli(), 10)
	case fmt.Stringer:
		return tv.String()
	}
	return fmt.Sprintf("%v", v)
}

func padLeft(s string, width int, pad string) string {
	if pad == "" {
		return s
	}
	for len(s) < width {
		s = pad + s
	}
	return s
}

// trimDelimiter strips trailing copies of delim from s.
func trimDelimiter(s, delim string) string {
	if delim == "" {
		return s
	}
	for strings.HasSuffix(s, delim) {
		s = strings.TrimSuffix(s, delim)
	}
	return s
}
