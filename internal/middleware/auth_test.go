// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
	"tulasisilks/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role models.Role) *session.Data {
	return &session.Data{
		User: models.User{
			ID:    "1",
			Name:  "Tulasi",
			Email: "test@tulasisilks.local",
			Role:  role,
		},
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(models.RoleAdmin)
		got := SessionFromCtx(ctxWithSession(context.Background(), sess))
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.User.Email != sess.User.Email {
			t.Errorf("Email: got %q, want %q", got.User.Email, sess.User.Email)
		}
		if u := UserFromCtx(ctxWithSession(context.Background(), sess)); u == nil || u.Role != models.RoleAdmin {
			t.Errorf("UserFromCtx: got %+v", u)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
		if got := UserFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil user, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

// ---------- RequireAdmin ----------

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		sess       *session.Data
		wantCalled bool
		wantStatus int
	}{
		{"no session redirects", nil, false, http.StatusSeeOther},
		{"customer redirects", newTestSession(models.RoleCustomer), false, http.StatusSeeOther},
		{"admin passes", newTestSession(models.RoleAdmin), true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/admin/api/dashboard", nil)
			if tt.sess != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rr, req)

			if *called != tt.wantCalled {
				t.Errorf("called: got %v, want %v", *called, tt.wantCalled)
			}
			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if !tt.wantCalled {
				if loc := rr.Header().Get("Location"); loc != LoginPath {
					t.Errorf("Location: got %q, want %q", loc, LoginPath)
				}
			}
		})
	}
}

// ---------- LoadSession ----------

func TestLoadSession(t *testing.T) {
	store := session.NewStore(kvstore.NewMemory(), false)

	// Create a real session to get a cookie.
	rec := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), rec, &models.User{ID: "1", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got *models.User
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromCtx(r.Context())
	}))

	t.Run("with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got == nil || !got.IsAdmin() {
			t.Errorf("expected admin user in context, got %+v", got)
		}
	})

	t.Run("unknown cookie", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "nope"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if got != nil {
			t.Errorf("expected no user, got %+v", got)
		}
	})
}
