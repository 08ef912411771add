package flows

import (
	"github.com/wolfman30/dentfinder/internal/costs"
	"github.com/wolfman30/dentfinder/internal/form"
	"github.com/wolfman30/dentfinder/internal/insurance"
	"github.com/wolfman30/dentfinder/internal/validation"
	"github.com/wolfman30/dentfinder/internal/wizard"
)

// View is the JSON rendering of a wizard for the client.
type View struct {
	Flow       string            `json:"flow"`
	Step       string            `json:"step"`
	StepLabel  string            `json:"step_label"`
	Index      int               `json:"index"`
	Steps      []string          `json:"steps"`
	CanAdvance bool              `json:"can_advance"`
	CanGoBack  bool              `json:"can_go_back"`
	Terminal   bool              `json:"terminal"`
	Fields     form.Fields       `json:"fields"`
	Errors     validation.Errors `json:"errors,omitempty"`
	Result     map[string]string `json:"result,omitempty"`
	Options    *Options          `json:"options,omitempty"`
	Estimates  []costs.Estimate  `json:"estimates,omitempty"`
}

// Options lists the choices a step offers.
type Options struct {
	Carriers []string      `json:"carriers,omitempty"`
	Slots    []string      `json:"slots,omitempty"`
	Services []costs.Price `json:"services,omitempty"`
}

// View renders w with the choices for its current step.
func (r *Registry) View(w *wizard.Wizard) View {
	state := w.State()
	step := w.Current()
	fields := state.Form.Fields
	if fields == nil {
		fields = form.Fields{}
	}
	v := View{
		Flow:       state.Flow,
		Step:       step.Name,
		StepLabel:  step.Label,
		Index:      w.Index(),
		Steps:      w.Definition().StepNames(),
		CanAdvance: w.CanAdvance(),
		CanGoBack:  w.CanGoBack(),
		Terminal:   step.Terminal,
		Fields:     fields,
		Errors:     state.Form.Errors,
		Result:     state.Result,
	}

	switch {
	case state.Flow == Insurance && step.Name == "form":
		v.Options = &Options{Carriers: append([]string(nil), insurance.Carriers...)}
	case state.Flow == Booking && step.Name == "insurance":
		v.Options = &Options{Carriers: append(append([]string(nil), insurance.Carriers...), validation.SelfPay)}
	case state.Flow == Booking && step.Name == "datetime":
		if slots, err := Slots(fields.Get(FieldDate)); err == nil {
			v.Options = &Options{Slots: slots}
		}
	case state.Flow == Cost && step.Name == "services":
		v.Options = &Options{Services: r.estimator.Offered()}
	case state.Flow == Cost && step.Name == "results":
		v.Estimates = r.estimator.Estimate(nonBlank(fields.List(FieldServices)))
	}
	return v
}
