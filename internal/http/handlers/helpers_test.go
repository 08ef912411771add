package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/dentfinder/internal/costs"
	"github.com/wolfman30/dentfinder/internal/flows"
	"github.com/wolfman30/dentfinder/internal/http/middleware"
	"github.com/wolfman30/dentfinder/internal/insurance"
	"github.com/wolfman30/dentfinder/internal/intake"
	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/listings"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

type harness struct {
	router  chi.Router
	store   *session.MemoryStore
	leads   *leads.InMemoryRepository
	reg     *prometheus.Registry
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logging.New("error")
	catalog, err := listings.LoadDefault()
	if err != nil {
		t.Fatalf("load listings: %v", err)
	}
	estimator, err := costs.LoadDefault()
	if err != nil {
		t.Fatalf("load prices: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewFlowMetrics(reg)
	repo := leads.NewInMemoryRepository()
	submitter := intake.NewService(repo, logger, intake.WithMetrics(m))
	registry := flows.NewRegistry(insurance.NewRandomService(1, nil, logger), submitter, estimator, m)
	store := session.NewMemoryStore(time.Hour)

	listingsH := NewListingsHandler(catalog, logger)
	searchH := NewSearchHandler(m, logger)
	enrollH := NewEnrollmentHandler(submitter, m, logger)
	flowsH := NewFlowsHandler(registry, store, m, logger)
	mapH := NewMapHandler(catalog, store, logger)

	r := chi.NewRouter()
	r.Get("/api/listings", listingsH.List)
	r.Get("/api/listings/{listingID}", listingsH.Get)
	r.Post("/api/search", searchH.Search)
	r.Post("/api/zipcode", searchH.ZipLookup)
	r.Post("/api/enrollments", enrollH.Create)
	r.Get("/api/flows/booking/slots", flowsH.Slots)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(store, middleware.SessionConfig{}, logger))
		r.Get("/api/flows/{flow}", flowsH.Get)
		r.Patch("/api/flows/{flow}/fields", flowsH.SetFields)
		r.Post("/api/flows/{flow}/next", flowsH.Next)
		r.Post("/api/flows/{flow}/back", flowsH.Back)
		r.Post("/api/flows/{flow}/reset", flowsH.Reset)
		r.Get("/api/map", mapH.Get)
		r.Post("/api/map/gestures", mapH.Gestures)
	})
	r.Get("/admin/summary", NewAdminSummaryHandler(reg, logger).Summary)

	return &harness{router: r, store: store, leads: repo, reg: reg}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		h.cookies = cookies
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}
