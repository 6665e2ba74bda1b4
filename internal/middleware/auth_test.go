// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

func withUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user := GetUser(req); user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
		if id := GetUserID(req); id != 0 {
			t.Errorf("GetUserID() = %d, want 0", id)
		}
		if ptr := GetUserIDPtr(req); ptr != nil {
			t.Errorf("GetUserIDPtr() = %v, want nil", ptr)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := withUser(httptest.NewRequest(http.MethodGet, "/", nil), store.User{
			ID:    123,
			Email: "test@example.com",
			Role:  store.RoleAdmin,
			Name:  "Test User",
		})

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if GetUserID(req) != 123 {
			t.Errorf("GetUserID() = %d, want 123", GetUserID(req))
		}
		if ptr := GetUserIDPtr(req); ptr == nil || *ptr != 123 {
			t.Errorf("GetUserIDPtr() = %v, want 123", ptr)
		}
	})
}

func TestRequireLogin(t *testing.T) {
	handler := RequireLogin(okHandler)

	t.Run("anonymous redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	t.Run("logged in passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodGet, "/logout", nil), store.User{ID: 2, Role: store.RoleUser})
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		user       *store.User
		wantStatus int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"regular user", &store.User{ID: 2, Role: store.RoleUser}, http.StatusForbidden},
		{"admin", &store.User{ID: 1, Role: store.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAdmin(nil)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/new-post", nil)
			if tt.user != nil {
				req = withUser(req, *tt.user)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin_LogsDenial(t *testing.T) {
	db := testutil.TestDB(t)
	events := service.NewEventService(db)
	user := testutil.CreateUser(t, db, "user@example.com", "User", "password123", store.RoleUser)

	handler := RequireAdmin(events)(okHandler)
	req := withUser(httptest.NewRequest(http.MethodPost, "/delete/1", nil), user)
	req.RemoteAddr = "203.0.113.7:5555"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	recent, err := events.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	var found bool
	for _, e := range recent {
		if e.Message == "Access denied: admin only" {
			found = true
			if e.IpAddress != "203.0.113.7" {
				t.Errorf("IpAddress = %q, want 203.0.113.7", e.IpAddress)
			}
			if !e.UserID.Valid || e.UserID.Int64 != user.ID {
				t.Errorf("UserID = %v, want %d", e.UserID, user.ID)
			}
		}
	}
	if !found {
		t.Error("expected access denied event")
	}
}

func TestOptionalLoadUser(t *testing.T) {
	db := testutil.TestDB(t)
	sm := session.New(db, true)
	user := testutil.CreateUser(t, db, "alice@example.com", "Alice", "password123", store.RoleUser)

	mux := http.NewServeMux()
	mux.HandleFunc("/login-as/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		_, _ = fmt.Sscan(r.PathValue("id"), &id)
		if err := session.LogIn(r.Context(), sm, id); err != nil {
			t.Errorf("LogIn: %v", err)
		}
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		if u := GetUser(r); u != nil {
			_, _ = fmt.Fprint(w, u.Name)
			return
		}
		_, _ = fmt.Fprint(w, "anonymous")
	})
	handler := sm.LoadAndSave(OptionalLoadUser(sm, db)(mux))

	whoami := func(cookies []*http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Body.String()
	}
	loginAs := func(id int64) []*http.Cookie {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/login-as/%d", id), nil))
		return rec.Result().Cookies()
	}

	if got := whoami(nil); got != "anonymous" {
		t.Errorf("anonymous whoami = %q, want anonymous", got)
	}

	if got := whoami(loginAs(user.ID)); got != "Alice" {
		t.Errorf("logged-in whoami = %q, want Alice", got)
	}

	if got := whoami(loginAs(9999)); got != "anonymous" {
		t.Errorf("stale session whoami = %q, want anonymous", got)
	}
}
