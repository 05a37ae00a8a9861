package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]domain.SessionAttrs
}

func (s *stubSessionStore) Create(_ context.Context, _ domain.SessionAttrs) (string, error) {
	return "", nil
}

func (s *stubSessionStore) Read(_ context.Context, token string) (*domain.SessionAttrs, error) {
	attrs, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &attrs, nil
}

func (s *stubSessionStore) Update(_ context.Context, _ string, _ domain.SessionAttrs) error {
	return nil
}

func (s *stubSessionStore) Destroy(_ context.Context, _ string) error {
	return nil
}

func runSession(t *testing.T, store *stubSessionStore, cookie *http.Cookie) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	err := Session(store, "session_id")(next)(c)
	return rec, err
}

func TestSession_InjectsIdentity(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]domain.SessionAttrs{
		"tok-1": {UserID: "u1", Username: "alice", Role: domain.RoleManager},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "tok-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser, gotName, gotRole string
	next := func(c echo.Context) error {
		gotUser, _ = c.Get("user_id").(string)
		gotName, _ = c.Get("username").(string)
		gotRole, _ = c.Get("role").(string)
		return nil
	}
	if err := Session(store, "session_id")(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if gotUser != "u1" || gotName != "alice" || gotRole != "manager" {
		t.Fatalf("unexpected identity: %s/%s/%s", gotUser, gotName, gotRole)
	}
	_ = rec
}

func TestSession_MissingCookie(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]domain.SessionAttrs{}}

	_, err := runSession(t, store, nil)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSession_UnknownToken(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]domain.SessionAttrs{}}

	_, err := runSession(t, store, &http.Cookie{Name: "session_id", Value: "stale"})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
