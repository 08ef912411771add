package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/wolfman30/dentfinder/internal/session"
)

func TestSessionsCreatesAndReusesSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	var seen []string
	handler := Sessions(store, SessionConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			t.Fatal("expected session in context")
		}
		seen = append(seen, sess.ID)
		if err := store.Save(r.Context(), sess); err != nil {
			t.Fatalf("save: %v", err)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flows/booking", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != DefaultSessionCookie || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.MaxAge != 1800 {
		t.Fatalf("unexpected cookie %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/flows/booking", nil)
	req.AddCookie(c)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 2 || seen[0] != seen[1] {
		t.Fatalf("expected the same session twice, got %v", seen)
	}
}

func TestSessionsReplacesUnknownCookie(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	var got string
	handler := Sessions(store, SessionConfig{CookieName: "sid"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		got = sess.ID
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired-id"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == "" || got == "expired-id" {
		t.Fatalf("expected a fresh session id, got %q", got)
	}
}

type brokenStore struct{ session.Store }

func (brokenStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis down")
}

func TestSessionsStoreError(t *testing.T) {
	handler := Sessions(brokenStore{}, SessionConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "abc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestKeyedMutexSerialises(t *testing.T) {
	k := newKeyedMutex()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("same")
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected exclusive access, saw %d concurrent holders", maxSeen)
	}
	if len(k.locks) != 0 {
		t.Fatalf("expected lock table to drain, got %d", len(k.locks))
	}
}
