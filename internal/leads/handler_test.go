package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

func seedRepo(t *testing.T) *InMemoryRepository {
	t.Helper()
	repo := NewInMemoryRepository()
	for _, req := range []CreateLeadRequest{
		{Kind: KindBooking, Name: "Jane", Email: "jane@example.com"},
		{Kind: KindEnrollment, Name: "Bright Smiles", Phone: "2125550100"},
	} {
		req := req
		if _, err := repo.Create(context.Background(), &req); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return repo
}

func TestListLeads_FilterByKind(t *testing.T) {
	handler := NewHandler(seedRepo(t), logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?kind=enrollment&limit=500", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Leads[0].Name != "Bright Smiles" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Limit != 50 {
		t.Errorf("out of range limit should fall back to 50, got %d", resp.Limit)
	}
}

func TestListLeads_InvalidKind(t *testing.T) {
	handler := NewHandler(seedRepo(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?kind=other", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

type failingRepo struct{ InMemoryRepository }

func (*failingRepo) List(context.Context, ListLeadsFilter) ([]*Lead, error) {
	return nil, errors.New("db down")
}

func TestListLeads_RepositoryError(t *testing.T) {
	handler := NewHandler(&failingRepo{}, logging.New("error"))

	w := httptest.NewRecorder()
	handler.ListLeads(w, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGetLead(t *testing.T) {
	repo := seedRepo(t)
	all, _ := repo.List(context.Background(), ListLeadsFilter{})
	handler := NewHandler(repo, nil)

	r := chi.NewRouter()
	r.Get("/admin/leads/{leadID}", handler.GetLead)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/leads/"+all[0].ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/leads/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
