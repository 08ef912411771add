// Package flows defines the three multi-step dialogs (insurance check,
// booking, cost calculator) on top of the generic wizard.
package flows

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/dentfinder/internal/costs"
	"github.com/wolfman30/dentfinder/internal/form"
	"github.com/wolfman30/dentfinder/internal/insurance"
	"github.com/wolfman30/dentfinder/internal/intake"
	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/validation"
	"github.com/wolfman30/dentfinder/internal/wizard"
)

// Flow names.
const (
	Insurance = "insurance"
	Booking   = "booking"
	Cost      = "cost"
)

// Result keys written by step hooks.
const (
	ResultEligible       = "eligible"
	ResultCarrier        = "carrier"
	ResultMessage        = "message"
	ResultConfirmationID = "confirmation_id"
	ResultSubmittedAt    = "submitted_at"
)

// Field names used by the wizard steps that are not part of a schema.
const (
	FieldInsurance = "insurance"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldListingID = "listingId"
	FieldServices  = "services"
)

var dateTimeSchema = validation.NewSchema("booking_datetime",
	validation.Field{Name: FieldDate, Label: "Date", Rules: []validation.Rule{validation.Required(), validation.Date()}},
	validation.Field{Name: FieldTime, Label: "Time", Rules: []validation.Rule{validation.Required()}},
)

// Registry holds the flow definitions bound to their services.
type Registry struct {
	eligibility insurance.EligibilityService
	submitter   intake.Submitter
	estimator   *costs.Estimator
	metrics     *metrics.FlowMetrics

	defs map[string]*wizard.Definition
}

// NewRegistry wires the three flows.
func NewRegistry(eligibility insurance.EligibilityService, submitter intake.Submitter, estimator *costs.Estimator, m *metrics.FlowMetrics) *Registry {
	if eligibility == nil || submitter == nil || estimator == nil {
		panic("flows: eligibility, submitter and estimator are required")
	}
	r := &Registry{
		eligibility: eligibility,
		submitter:   submitter,
		estimator:   estimator,
		metrics:     m,
	}
	r.defs = map[string]*wizard.Definition{
		Insurance: r.insuranceFlow(),
		Booking:   r.bookingFlow(),
		Cost:      r.costFlow(),
	}
	return r
}

// Names lists the registered flows.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition looks up a flow by name.
func (r *Registry) Definition(name string) (*wizard.Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, name)
	}
	return def, nil
}

// Resume rebuilds the wizard for name from saved state.
func (r *Registry) Resume(name string, state *wizard.State) (*wizard.Wizard, error) {
	def, err := r.Definition(name)
	if err != nil {
		return nil, err
	}
	return wizard.Resume(def, state)
}

func (r *Registry) insuranceFlow() *wizard.Definition {
	return &wizard.Definition{
		Name: Insurance,
		Steps: []wizard.Step{
			{Name: "intro", Label: "Check your coverage"},
			{
				Name:    "form",
				Label:   "Subscriber details",
				Schema:  validation.InsuranceSubscriber,
				OnLeave: r.checkEligibility,
			},
			{Name: "result", Label: "Coverage result", Terminal: true},
		},
	}
}

func (r *Registry) bookingFlow() *wizard.Definition {
	return &wizard.Definition{
		Name: Booking,
		Steps: []wizard.Step{
			{
				Name:   "insurance",
				Label:  "Insurance",
				Inputs: []string{FieldInsurance, FieldListingID},
				Ready: func(f *form.State) bool { return f.Get(FieldInsurance) != "" },
			},
			{
				Name:    "datetime",
				Label:   "Date & time",
				Ready:   func(f *form.State) bool { return f.Get(FieldDate) != "" && f.Get(FieldTime) != "" },
				Schema:  dateTimeSchema,
				OnLeave: checkSlot,
			},
			{
				Name:    "contact",
				Label:   "Your details",
				Schema:  validation.BookingContact,
				OnLeave: r.submitBooking,
			},
			{Name: "confirmed", Label: "Booked", Terminal: true},
		},
	}
}

func (r *Registry) costFlow() *wizard.Definition {
	return &wizard.Definition{
		Name: Cost,
		Steps: []wizard.Step{
			{Name: "zipcode", Label: "Your area", Schema: validation.ZipLookup},
			{
				Name:   "services",
				Label:  "Treatments",
				Inputs: []string{FieldServices},
				Ready:  r.servicesSelected,
			},
			{Name: "results", Label: "Estimated costs", Terminal: true},
		},
	}
}

// servicesSelected requires at least one service, all of them offered.
func (r *Registry) servicesSelected(f *form.State) bool {
	selected := nonBlank(f.Fields.List(FieldServices))
	if len(selected) == 0 {
		return false
	}
	for _, id := range selected {
		if !r.estimator.IsOffered(id) {
			return false
		}
	}
	return true
}

func (r *Registry) checkEligibility(ctx context.Context, state *wizard.State) error {
	f := &state.Form
	result, err := r.eligibility.Check(ctx, insurance.Subscriber{
		Carrier:        f.Get("carrier"),
		Zip:            f.Get("zip"),
		MemberID:       f.Get("memberId"),
		SubscriberName: f.Get("subscriberName"),
		DateOfBirth:    f.Get("dateOfBirth"),
	})
	if err != nil {
		return fmt.Errorf("flows: eligibility: %w", err)
	}
	r.metrics.ObserveEligibility(result.Eligible)
	state.SetResult(ResultEligible, strconv.FormatBool(result.Eligible))
	state.SetResult(ResultCarrier, result.Carrier)
	state.SetResult(ResultMessage, result.Message)
	return nil
}

func checkSlot(_ context.Context, state *wizard.State) error {
	f := &state.Form
	if !SlotOffered(f.Get(FieldDate), f.Get(FieldTime)) {
		f.Errors = validation.Errors{FieldTime: "Please choose one of the available times"}
		return wizard.ErrInvalid
	}
	return nil
}

func (r *Registry) submitBooking(ctx context.Context, state *wizard.State) error {
	f := &state.Form
	// The slot was checked when datetime was left; check again in case the
	// state was edited outside the step gates.
	if f.Get(FieldInsurance) == "" || !SlotOffered(f.Get(FieldDate), f.Get(FieldTime)) {
		return fmt.Errorf("flows: submit booking: %w: appointment slot no longer valid", wizard.ErrInvalid)
	}
	name := strings.TrimSpace(f.Get("firstName") + " " + f.Get("lastName"))
	receipt, err := r.submitter.Submit(ctx, intake.Submission{
		Kind:      leads.KindBooking,
		Name:      name,
		Email:     f.Get("email"),
		Phone:     validation.NormalizePhone(f.Get("phone")),
		ListingID: f.Get(FieldListingID),
		Details: map[string]string{
			"insurance": f.Get(FieldInsurance),
			"date":      f.Get(FieldDate),
			"time":      f.Get(FieldTime),
			"reason":    f.Get("reason"),
		},
	})
	if err != nil {
		return fmt.Errorf("flows: submit booking: %w", err)
	}
	state.SetResult(ResultConfirmationID, receipt.ConfirmationID)
	state.SetResult(ResultSubmittedAt, receipt.SubmittedAt.Format(time.RFC3339))
	return nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
