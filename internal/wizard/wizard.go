// Package wizard implements the named-step state machine shared by every
// multi-step dialog: forward only when the current step is satisfied,
// backward always, reset on cancel.
package wizard

import (
	"context"
	"fmt"
	"sort"

	"github.com/wolfman30/dentfinder/internal/form"
	"github.com/wolfman30/dentfinder/internal/validation"
)

// Hook runs when a step is left going forward. Returning an error keeps the
// wizard on the current step.
type Hook func(ctx context.Context, state *State) error

// Step describes one stage of a flow.
type Step struct {
	Name  string
	Label string

	// Ready gates Next without touching state (the disabled "next" button).
	Ready func(f *form.State) bool

	// Schema is evaluated on Next; failures populate the error set.
	Schema *validation.Schema

	// Inputs names the fields this step owns besides its schema's fields.
	Inputs []string

	OnLeave Hook

	// Terminal steps are display-only.
	Terminal bool
}

// Definition is a flow: a name and its ordered steps.
type Definition struct {
	Name  string
	Steps []Step
}

// StepNames lists the step names in order.
func (d *Definition) StepNames() []string {
	names := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		names[i] = s.Name
	}
	return names
}

// State is the serialisable part of a running wizard.
type State struct {
	Flow   string            `json:"flow"`
	Step   int               `json:"step"`
	Form   form.State        `json:"form"`
	Result map[string]string `json:"result,omitempty"`
}

// SetResult records an outcome value produced by a hook.
func (s *State) SetResult(key, value string) {
	if s.Result == nil {
		s.Result = make(map[string]string)
	}
	s.Result[key] = value
}

// Wizard drives a Definition over a State. It is not safe for concurrent use;
// callers own one wizard per visitor.
type Wizard struct {
	def   *Definition
	state *State
}

// New starts a flow at its first step.
func New(def *Definition) *Wizard {
	if def == nil || len(def.Steps) == 0 {
		panic("wizard: definition with at least one step required")
	}
	return &Wizard{
		def:   def,
		state: &State{Flow: def.Name, Form: form.State{Fields: form.Fields{}}},
	}
}

// Resume continues a flow from saved state. A nil state starts fresh.
func Resume(def *Definition, state *State) (*Wizard, error) {
	w := New(def)
	if state == nil {
		return w, nil
	}
	if state.Flow != def.Name {
		return nil, fmt.Errorf("%w: %q is not %q", ErrFlowMismatch, state.Flow, def.Name)
	}
	if state.Step < 0 || state.Step >= len(def.Steps) {
		state.Step = 0
	}
	if state.Form.Fields == nil {
		state.Form.Fields = form.Fields{}
	}
	w.state = state
	return w, nil
}

// Definition returns the flow being driven.
func (w *Wizard) Definition() *Definition {
	return w.def
}

// State exposes the state for persistence and rendering.
func (w *Wizard) State() *State {
	return w.state
}

// Index is the current step position.
func (w *Wizard) Index() int {
	return w.state.Step
}

// Current is the current step.
func (w *Wizard) Current() Step {
	return w.def.Steps[w.state.Step]
}

// Form is the field/error container shared by every step.
func (w *Wizard) Form() *form.State {
	return &w.state.Form
}

// IsTerminal reports whether the current step is display-only.
func (w *Wizard) IsTerminal() bool {
	return w.Current().Terminal
}

// CanAdvance reports whether Next would get past the Ready gate.
func (w *Wizard) CanAdvance() bool {
	step := w.Current()
	if step.Terminal || w.state.Step == len(w.def.Steps)-1 {
		return false
	}
	return step.Ready == nil || step.Ready(&w.state.Form)
}

// CanGoBack reports whether Back would move.
func (w *Wizard) CanGoBack() bool {
	return w.state.Step > 0 && !w.IsTerminal()
}

// Set updates a field and clears its error.
func (w *Wizard) Set(name string, values ...string) {
	w.state.Form.Set(name, values...)
}

// Apply updates several fields at once.
func (w *Wizard) Apply(updates form.Fields) {
	w.state.Form.Apply(updates)
}

// Editable reports whether the current step owns field name. Fields owned by
// earlier steps are locked once those steps have been passed.
func (w *Wizard) Editable(name string) bool {
	step := w.Current()
	if step.Terminal {
		return false
	}
	if step.Schema.Has(name) {
		return true
	}
	for _, input := range step.Inputs {
		if input == name {
			return true
		}
	}
	return false
}

// Edit applies updates when every field is editable on the current step.
// Otherwise nothing changes and the locked field names are returned in
// sorted order with ErrFieldLocked.
func (w *Wizard) Edit(updates form.Fields) ([]string, error) {
	var locked []string
	for name := range updates {
		if !w.Editable(name) {
			locked = append(locked, name)
		}
	}
	if len(locked) > 0 {
		sort.Strings(locked)
		return locked, ErrFieldLocked
	}
	w.state.Form.Apply(updates)
	return nil, nil
}

// Next advances one step if the current step is satisfied.
func (w *Wizard) Next(ctx context.Context) error {
	step := w.Current()
	if step.Terminal || w.state.Step == len(w.def.Steps)-1 {
		return ErrTerminal
	}
	if step.Ready != nil && !step.Ready(&w.state.Form) {
		return ErrNotReady
	}
	if step.Schema != nil && !w.state.Form.Validate(step.Schema) {
		return ErrInvalid
	}
	w.state.Form.ClearErrors()
	if step.OnLeave != nil {
		if err := step.OnLeave(ctx, w.state); err != nil {
			return err
		}
	}
	w.state.Step++
	return nil
}

// Back moves one step backward, keeping every entered value. It reports
// whether the step changed. Terminal steps are left only through Reset.
func (w *Wizard) Back() bool {
	if !w.CanGoBack() {
		return false
	}
	w.state.Step--
	w.state.Form.ClearErrors()
	return true
}

// Reset returns to the first step and clears everything entered so far.
func (w *Wizard) Reset() {
	w.state.Step = 0
	w.state.Form.Reset()
	w.state.Result = nil
}
