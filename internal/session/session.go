// Package session keeps a visitor's wizard and map state between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/dentfinder/internal/mapview"
	"github.com/wolfman30/dentfinder/internal/wizard"
)

// ErrSessionNotFound is returned for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is everything a visitor has entered so far.
type Session struct {
	ID        string                   `json:"id"`
	Flows     map[string]*wizard.State `json:"flows,omitempty"`
	Map       mapview.Viewport         `json:"map"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// New creates an empty session with a random id.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Flows:     make(map[string]*wizard.State),
		UpdatedAt: time.Now().UTC(),
	}
}

// Flow returns the saved state of a flow, or nil.
func (s *Session) Flow(name string) *wizard.State {
	if s.Flows == nil {
		return nil
	}
	return s.Flows[name]
}

// SetFlow stores a flow's state.
func (s *Session) SetFlow(state *wizard.State) {
	if s.Flows == nil {
		s.Flows = make(map[string]*wizard.State)
	}
	s.Flows[state.Flow] = state
}

// Store persists sessions. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
