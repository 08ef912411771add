package handlers

import (
	"net/http"

	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/search"
	"github.com/wolfman30/dentfinder/internal/validation"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// SearchHandler turns the landing page forms into results page redirects.
type SearchHandler struct {
	metrics *metrics.FlowMetrics
	logger  *logging.Logger
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(m *metrics.FlowMetrics, logger *logging.Logger) *SearchHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SearchHandler{metrics: m, logger: logger}
}

// RedirectResponse tells the client where to navigate.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// Search handles POST /api/search. Criteria are free-form; none is required.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var criteria search.Criteria
	if err := decodeJSON(w, r, &criteria); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	criteria = criteria.Normalize()
	h.metrics.ObserveFormSubmission("search", "ok")
	writeJSON(w, http.StatusOK, RedirectResponse{Redirect: criteria.ResultsURL()})
}

// ZipLookupRequest is the zipcode form.
type ZipLookupRequest struct {
	Zip string `json:"zip"`
}

// ZipLookup handles POST /api/zipcode.
func (h *SearchHandler) ZipLookup(w http.ResponseWriter, r *http.Request) {
	var req ZipLookupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validation.ZipLookup.Validate(validation.Values{"zip": req.Zip}); !errs.OK() {
		h.metrics.ObserveFormSubmission("zipcode", "invalid")
		writeValidationErrors(w, errs)
		return
	}
	h.metrics.ObserveFormSubmission("zipcode", "ok")
	criteria := search.Criteria{Location: req.Zip}.Normalize()
	writeJSON(w, http.StatusOK, RedirectResponse{Redirect: criteria.ResultsURL()})
}
