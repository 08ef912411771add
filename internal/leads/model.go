package leads

import (
	"strings"
	"time"
)

// Kind distinguishes what produced a lead.
type Kind string

const (
	KindBooking    Kind = "booking"
	KindEnrollment Kind = "enrollment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindBooking || k == KindEnrollment
}

// Lead represents a captured booking request or practice enrollment
type Lead struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	ListingID string            `json:"listing_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateLeadRequest represents a lead about to be stored
type CreateLeadRequest struct {
	Kind      Kind
	Name      string
	Email     string
	Phone     string
	ListingID string
	Details   map[string]string
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.Phone) == "" {
		return ErrMissingContact
	}
	return nil
}

// ListLeadsFilter narrows admin listings.
type ListLeadsFilter struct {
	Kind   Kind
	Limit  int
	Offset int
}
