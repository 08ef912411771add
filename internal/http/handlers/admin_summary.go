package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// AdminSummaryHandler reports flow counters for the admin dashboard.
type AdminSummaryHandler struct {
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

// NewAdminSummaryHandler creates a summary handler. A nil gatherer reads the
// default registry.
func NewAdminSummaryHandler(gatherer prometheus.Gatherer, logger *logging.Logger) *AdminSummaryHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &AdminSummaryHandler{gatherer: gatherer, logger: logger}
}

// Summary handles GET /admin/summary.
func (h *AdminSummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := metrics.Snapshot(h.gatherer)
	if err != nil {
		h.logger.Error("failed to gather metrics", "error", err)
		http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
