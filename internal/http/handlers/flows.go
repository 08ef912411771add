package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dentfinder/internal/flows"
	"github.com/wolfman30/dentfinder/internal/form"
	"github.com/wolfman30/dentfinder/internal/http/middleware"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/internal/validation"
	"github.com/wolfman30/dentfinder/internal/wizard"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// FlowsHandler drives the session-held wizards.
type FlowsHandler struct {
	registry *flows.Registry
	store    session.Store
	metrics  *metrics.FlowMetrics
	logger   *logging.Logger
}

// NewFlowsHandler creates a flows handler.
func NewFlowsHandler(registry *flows.Registry, store session.Store, m *metrics.FlowMetrics, logger *logging.Logger) *FlowsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FlowsHandler{registry: registry, store: store, metrics: m, logger: logger}
}

// FieldsRequest updates fields of the current step. Each field carries all of
// its values; an empty list clears the field. Fields owned by other steps are
// rejected with 422 and nothing is applied.
type FieldsRequest struct {
	Fields form.Fields `json:"fields"`
}

// SlotsResponse lists the bookable times on a date.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// Get handles GET /api/flows/{flow}.
func (h *FlowsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.save(w, r, sess, wz) {
		return
	}
	writeJSON(w, http.StatusOK, h.registry.View(wz))
}

// SetFields handles PATCH /api/flows/{flow}/fields.
func (h *FlowsHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var req FieldsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	if wz.IsTerminal() {
		writeJSON(w, http.StatusConflict, h.registry.View(wz))
		return
	}
	if locked, err := wz.Edit(req.Fields); err != nil {
		errs := validation.Errors{}
		for _, name := range locked {
			errs[name] = "This field can't be changed on this step"
		}
		h.metrics.ObserveTransition(wz.Definition().Name, "edit", "locked")
		writeValidationErrors(w, errs)
		return
	}
	if !h.save(w, r, sess, wz) {
		return
	}
	writeJSON(w, http.StatusOK, h.registry.View(wz))
}

// Next handles POST /api/flows/{flow}/next.
func (h *FlowsHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	flow := wz.Definition().Name

	err := wz.Next(r.Context())
	status := http.StatusOK
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrNotReady):
		status, outcome = http.StatusConflict, "not_ready"
	case errors.Is(err, wizard.ErrTerminal):
		status, outcome = http.StatusConflict, "terminal"
	case errors.Is(err, wizard.ErrInvalid):
		status, outcome = http.StatusUnprocessableEntity, "invalid"
	default:
		h.metrics.ObserveTransition(flow, "next", "error")
		h.logger.Error("flow step failed", "error", err, "flow", flow, "step", wz.Current().Name)
		http.Error(w, "failed to advance", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveTransition(flow, "next", outcome)

	if !h.save(w, r, sess, wz) {
		return
	}
	writeJSON(w, status, h.registry.View(wz))
}

// Back handles POST /api/flows/{flow}/back.
func (h *FlowsHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	if wz.IsTerminal() {
		h.metrics.ObserveTransition(wz.Definition().Name, "back", "terminal")
		writeJSON(w, http.StatusConflict, h.registry.View(wz))
		return
	}
	outcome := "noop"
	if wz.Back() {
		outcome = "ok"
	}
	h.metrics.ObserveTransition(wz.Definition().Name, "back", outcome)
	if !h.save(w, r, sess, wz) {
		return
	}
	writeJSON(w, http.StatusOK, h.registry.View(wz))
}

// Reset handles POST /api/flows/{flow}/reset.
func (h *FlowsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, wz, ok := h.load(w, r)
	if !ok {
		return
	}
	wz.Reset()
	h.metrics.ObserveTransition(wz.Definition().Name, "reset", "ok")
	if !h.save(w, r, sess, wz) {
		return
	}
	writeJSON(w, http.StatusOK, h.registry.View(wz))
}

// Slots handles GET /api/flows/booking/slots?date=YYYY-MM-DD.
func (h *FlowsHandler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slots, err := flows.Slots(date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: slots})
}

func (h *FlowsHandler) load(w http.ResponseWriter, r *http.Request) (*session.Session, *wizard.Wizard, bool) {
	name := chi.URLParam(r, "flow")
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.logger.Error("flows: no session in context")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, nil, false
	}

	wz, err := h.registry.Resume(name, sess.Flow(name))
	if errors.Is(err, wizard.ErrFlowMismatch) {
		h.logger.Warn("flows: discarding mismatched state", "flow", name, "session_id", sess.ID)
		wz, err = h.registry.Resume(name, nil)
	}
	if err != nil {
		if errors.Is(err, flows.ErrUnknownFlow) {
			http.Error(w, "unknown flow", http.StatusNotFound)
			return nil, nil, false
		}
		h.logger.Error("flows: resume failed", "error", err, "flow", name)
		http.Error(w, "failed to load flow", http.StatusInternalServerError)
		return nil, nil, false
	}
	return sess, wz, true
}

func (h *FlowsHandler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, wz *wizard.Wizard) bool {
	sess.SetFlow(wz.State())
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("flows: save session failed", "error", err, "session_id", sess.ID)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}
