// Package form holds the field values and per-field error messages of one
// page or dialog.
package form

import (
	"sort"
	"strings"

	"github.com/wolfman30/dentfinder/internal/validation"
)

// Fields maps a field name to its submitted values. Single-valued inputs use
// the first element; multi-selects use the whole slice.
type Fields map[string][]string

// Get returns the first value of name.
func (f Fields) Get(name string) string {
	if vals := f[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// List returns every value of name.
func (f Fields) List(name string) []string {
	return f[name]
}

// Clone deep-copies the field set.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// State is the form container: current values plus the error set.
type State struct {
	Fields Fields            `json:"fields"`
	Errors validation.Errors `json:"errors,omitempty"`
}

// New returns an empty container.
func New() *State {
	return &State{Fields: Fields{}}
}

// Get implements validation.FieldSet.
func (s *State) Get(name string) string {
	return s.Fields.Get(name)
}

// Set replaces a field's values and clears its error. Setting no values (or a
// single blank value) removes the field.
func (s *State) Set(name string, values ...string) {
	if s.Fields == nil {
		s.Fields = Fields{}
	}
	if len(values) == 0 || (len(values) == 1 && strings.TrimSpace(values[0]) == "") {
		delete(s.Fields, name)
	} else {
		s.Fields[name] = append([]string(nil), values...)
	}
	delete(s.Errors, name)
	if len(s.Errors) == 0 {
		s.Errors = nil
	}
}

// Apply sets every field in updates, in name order so error clearing is deterministic.
func (s *State) Apply(updates Fields) {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Set(name, updates[name]...)
	}
}

// Validate evaluates schema and replaces the error set with the outcome.
func (s *State) Validate(schema *validation.Schema) bool {
	errs := schema.Validate(s)
	if errs.OK() {
		s.Errors = nil
		return true
	}
	s.Errors = errs
	return false
}

// ClearErrors drops every error message.
func (s *State) ClearErrors() {
	s.Errors = nil
}

// Reset clears values and errors.
func (s *State) Reset() {
	s.Fields = Fields{}
	s.Errors = nil
}
