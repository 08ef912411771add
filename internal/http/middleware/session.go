package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/wolfman30/dentfinder/internal/session"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

const sessionKey contextKey = "session"

// DefaultSessionCookie names the visitor session cookie.
const DefaultSessionCookie = "dentfinder_session"

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Sessions loads the visitor's session (creating one when the cookie is
// missing or expired) and serialises requests that share a session.
// Handlers persist changes themselves via the store.
func Sessions(store session.Store, cfg SessionConfig, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	locks := newKeyedMutex()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				unlock := locks.Lock(c.Value)
				defer unlock()

				sess, err = store.Get(r.Context(), c.Value)
				if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
					logger.Error("session: load failed", "error", err)
					http.Error(w, "session unavailable", http.StatusInternalServerError)
					return
				}
			}
			if sess == nil {
				sess = session.New()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session loaded by Sessions.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
