// Package validation evaluates declarative per-field rules against submitted
// form values. Evaluation is total: every field is checked and every failing
// field is reported in one pass.
package validation

import (
	"sort"
	"strings"
)

// FieldSet is the read side of a form: the first value submitted for a field.
type FieldSet interface {
	Get(name string) string
}

// Values is a plain FieldSet backed by a map.
type Values map[string]string

// Get returns the value for name or "".
func (v Values) Get(name string) string {
	return v[name]
}

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// OK reports whether no field failed.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the error set; a nil set stays nil.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Field binds a form field to the rules it must satisfy.
type Field struct {
	Name  string
	Label string
	Rules []Rule
}

// Schema is an ordered list of field rules for one form.
type Schema struct {
	Name   string
	Fields []Field
}

// NewSchema builds a schema from its fields.
func NewSchema(name string, fields ...Field) *Schema {
	return &Schema{Name: name, Fields: fields}
}

// Validate checks every field and returns the errors found. The first failing
// rule of a field provides its message. A nil or empty result means success.
func (s *Schema) Validate(values FieldSet) Errors {
	errs := Errors{}
	if s == nil {
		return errs
	}
	for _, field := range s.Fields {
		var raw string
		if values != nil {
			raw = values.Get(field.Name)
		}
		value := strings.TrimSpace(raw)
		label := field.Label
		if label == "" {
			label = field.Name
		}
		for _, rule := range field.Rules {
			if msg, ok := rule.check(label, value); !ok {
				errs[field.Name] = msg
				break
			}
		}
	}
	return errs
}

// Has reports whether the schema declares a field.
func (s *Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	for _, field := range s.Fields {
		if field.Name == name {
			return true
		}
	}
	return false
}
