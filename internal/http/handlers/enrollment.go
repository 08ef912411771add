package handlers

import (
	"net/http"
	"time"

	"github.com/wolfman30/dentfinder/internal/intake"
	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/validation"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// EnrollmentHandler accepts practice sign-ups.
type EnrollmentHandler struct {
	submitter intake.Submitter
	metrics   *metrics.FlowMetrics
	logger    *logging.Logger
}

// NewEnrollmentHandler creates an enrollment handler.
func NewEnrollmentHandler(submitter intake.Submitter, m *metrics.FlowMetrics, logger *logging.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &EnrollmentHandler{submitter: submitter, metrics: m, logger: logger}
}

// EnrollmentResponse confirms a stored enrollment.
type EnrollmentResponse struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Create handles POST /api/enrollments. The body is a flat object keyed by
// the practice enrollment field names.
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var values validation.Values
	if err := decodeJSON(w, r, &values); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validation.PracticeEnrollment.Validate(values); !errs.OK() {
		h.metrics.ObserveFormSubmission("enrollment", "invalid")
		writeValidationErrors(w, errs)
		return
	}

	details := make(map[string]string)
	for _, name := range []string{"practiceName", "address", "city", "state", "zip", "acceptingNewPatients", "website", "message"} {
		details[name] = values.Get(name)
	}
	receipt, err := h.submitter.Submit(r.Context(), intake.Submission{
		Kind:    leads.KindEnrollment,
		Name:    values.Get("contactName"),
		Email:   values.Get("email"),
		Phone:   validation.NormalizePhone(values.Get("phone")),
		Details: details,
	})
	if err != nil {
		h.metrics.ObserveFormSubmission("enrollment", "error")
		h.logger.Error("failed to submit enrollment", "error", err)
		http.Error(w, "failed to submit enrollment", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveFormSubmission("enrollment", "ok")
	writeJSON(w, http.StatusCreated, EnrollmentResponse{ID: receipt.ConfirmationID, SubmittedAt: receipt.SubmittedAt})
}
