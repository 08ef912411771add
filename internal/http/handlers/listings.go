package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dentfinder/internal/listings"
	"github.com/wolfman30/dentfinder/internal/search"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// ListingsHandler serves the results page data.
type ListingsHandler struct {
	catalog *listings.Catalog
	logger  *logging.Logger
}

// NewListingsHandler creates a listings handler.
func NewListingsHandler(catalog *listings.Catalog, logger *logging.Logger) *ListingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ListingsHandler{catalog: catalog, logger: logger}
}

// ListingResponse is a listing with its outbound links. AcceptsCarrier is
// set only when the request named a carrier.
type ListingResponse struct {
	listings.Listing
	DirectionsURL  string `json:"directions_url"`
	MapSearchURL   string `json:"map_search_url"`
	AcceptsCarrier *bool  `json:"accepts_insurance,omitempty"`
}

// ListingsResponse is the results page payload.
type ListingsResponse struct {
	Criteria   search.Criteria   `json:"criteria"`
	ResultsURL string            `json:"results_url"`
	Listings   []ListingResponse `json:"listings"`
	Count      int               `json:"count"`
}

func toListingResponse(l listings.Listing, carrier string) ListingResponse {
	resp := ListingResponse{
		Listing:       l,
		DirectionsURL: search.DirectionsURL(l.FullAddress()),
		MapSearchURL:  search.MapSearchURL(l.Practice + " " + l.FullAddress()),
	}
	if carrier != "" {
		accepts := l.AcceptsInsurance(carrier)
		resp.AcceptsCarrier = &accepts
	}
	return resp
}

func carrierFromQuery(r *http.Request) string {
	return search.Clean(r.URL.Query().Get("insurance"))
}

// List handles GET /api/listings. Criteria are echoed back; the sample list
// is always returned with network members first. An insurance parameter marks
// which listings take that carrier.
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := search.FromQuery(r.URL.Query())
	carrier := carrierFromQuery(r)
	results := h.catalog.Search()

	out := make([]ListingResponse, 0, len(results))
	for _, l := range results {
		out = append(out, toListingResponse(l, carrier))
	}
	writeJSON(w, http.StatusOK, ListingsResponse{
		Criteria:   criteria,
		ResultsURL: criteria.ResultsURL(),
		Listings:   out,
		Count:      len(out),
	})
}

// Get handles GET /api/listings/{listingID}?insurance=.
func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")
	l, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, listings.ErrListingNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load listing", "error", err, "listing_id", id)
		http.Error(w, "failed to load listing", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(l, carrierFromQuery(r)))
}
