package handlers

import (
	"errors"
	"net/http"

	"github.com/wolfman30/dentfinder/internal/http/middleware"
	"github.com/wolfman30/dentfinder/internal/listings"
	"github.com/wolfman30/dentfinder/internal/mapview"
	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// MapHandler serves the decorative results map.
type MapHandler struct {
	catalog *listings.Catalog
	store   session.Store
	logger  *logging.Logger
}

// NewMapHandler creates a map handler.
func NewMapHandler(catalog *listings.Catalog, store session.Store, logger *logging.Logger) *MapHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MapHandler{catalog: catalog, store: store, logger: logger}
}

// MapResponse is the marker layer plus the visitor's viewport.
type MapResponse struct {
	Markers  []mapview.Marker `json:"markers"`
	Viewport mapview.Viewport `json:"viewport"`
	Dragging bool             `json:"dragging"`
}

// GesturesRequest is a batch of pointer/select events.
type GesturesRequest struct {
	Gestures []mapview.Gesture `json:"gestures"`
}

// Get handles GET /api/map.
func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess.Map))
}

// Gestures handles POST /api/map/gestures. A batch with an unknown gesture
// is rejected as a whole.
func (h *MapHandler) Gestures(w http.ResponseWriter, r *http.Request) {
	var req GesturesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	vp := sess.Map
	if err := vp.Apply(req.Gestures); err != nil {
		if errors.Is(err, mapview.ErrUnknownGesture) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("map: apply gestures failed", "error", err)
		http.Error(w, "failed to apply gestures", http.StatusInternalServerError)
		return
	}
	sess.Map = vp
	if err := h.store.Save(r.Context(), sess); err != nil {
		h.logger.Error("map: save session failed", "error", err, "session_id", sess.ID)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(vp))
}

func (h *MapHandler) view(vp mapview.Viewport) MapResponse {
	return MapResponse{
		Markers:  mapview.Markers(h.catalog.Search(), vp.Selected),
		Viewport: vp,
		Dragging: vp.Dragging(),
	}
}
