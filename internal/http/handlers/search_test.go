package handlers

import (
	"net/http"
	"testing"
)

func TestSearch_Redirects(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/search", map[string]string{"location": "  New   York ", "type": "general"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	resp := decode[RedirectResponse](t, rec)
	if resp.Redirect != "/results?location=New+York&type=general" {
		t.Fatalf("unexpected redirect %q", resp.Redirect)
	}

	rec = h.do(t, http.MethodPost, "/api/search", map[string]string{})
	if got := decode[RedirectResponse](t, rec).Redirect; got != "/results" {
		t.Fatalf("empty criteria should redirect to /results, got %q", got)
	}
}

func TestSearch_RejectsUnknownFields(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/search", map[string]string{"color": "blue"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestZipLookup(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/zipcode", ZipLookupRequest{Zip: "123"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
	errs := decode[ErrorsResponse](t, rec)
	if errs.Errors["zip"] != "Please enter a valid 5-digit zip code" {
		t.Fatalf("unexpected errors %v", errs.Errors)
	}

	rec = h.do(t, http.MethodPost, "/api/zipcode", ZipLookupRequest{Zip: "11201"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := decode[RedirectResponse](t, rec).Redirect; got != "/results?location=11201" {
		t.Fatalf("unexpected redirect %q", got)
	}
}
