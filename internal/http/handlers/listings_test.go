package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestListingsList_NetworkFirstWithCriteria(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/listings?location=Brooklyn&issue=%3Cb%3Etoothache%3C%2Fb%3E", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	resp := decode[ListingsResponse](t, rec)

	if resp.Criteria.Location != "Brooklyn" || resp.Criteria.Issue != "toothache" {
		t.Fatalf("unexpected criteria %+v", resp.Criteria)
	}
	if resp.Count != len(resp.Listings) || resp.Count == 0 {
		t.Fatalf("unexpected count %d", resp.Count)
	}
	seenNonMember := false
	for _, l := range resp.Listings {
		if !l.NetworkMember {
			seenNonMember = true
		} else if seenNonMember {
			t.Fatalf("network member %s listed after a non-member", l.ID)
		}
		if !strings.HasPrefix(l.DirectionsURL, "https://www.google.com/maps/dir/?api=1&destination=") {
			t.Fatalf("unexpected directions url %q", l.DirectionsURL)
		}
	}
}

func TestListingsGet(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/listings/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	got := decode[ListingResponse](t, rec)
	if got.ID != "2" || got.MapSearchURL == "" {
		t.Fatalf("unexpected listing %+v", got)
	}

	rec = h.do(t, http.MethodGet, "/api/listings/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestListings_InsuranceMarksAcceptingListings(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/listings?insurance=%3Ci%3Ecigna%3C%2Fi%3E", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	resp := decode[ListingsResponse](t, rec)
	accepts := map[string]bool{}
	for _, l := range resp.Listings {
		if l.AcceptsCarrier == nil {
			t.Fatalf("listing %s missing accepts_insurance", l.ID)
		}
		accepts[l.ID] = *l.AcceptsCarrier
	}
	if !accepts["1"] || accepts["2"] {
		t.Fatalf("unexpected acceptance %v", accepts)
	}

	rec = h.do(t, http.MethodGet, "/api/listings/2?insurance=Guardian", nil)
	got := decode[ListingResponse](t, rec)
	if got.AcceptsCarrier == nil || !*got.AcceptsCarrier {
		t.Fatalf("expected listing 2 to accept Guardian, got %+v", got.AcceptsCarrier)
	}

	rec = h.do(t, http.MethodGet, "/api/listings/2", nil)
	if strings.Contains(rec.Body.String(), "accepts_insurance") {
		t.Fatalf("expected no acceptance field without a carrier: %s", rec.Body.String())
	}
}
