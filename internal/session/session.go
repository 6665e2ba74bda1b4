// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session manager and holds the
// login state helpers shared by the middleware and the auth handlers.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/model"
)

// KeyUserID is the session key holding the logged-in user's ID.
const KeyUserID = "user_id"

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- cookies require Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// LogIn binds userID to the session. The token is renewed first so a
// pre-login session ID cannot be reused.
func LogIn(ctx context.Context, sm *scs.SessionManager, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// LogOut destroys the session. It returns model.ErrUnauthenticated when no
// user is logged in.
func LogOut(ctx context.Context, sm *scs.SessionManager) error {
	if _, ok := UserID(ctx, sm); !ok {
		return model.ErrUnauthenticated
	}
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// UserID returns the logged-in user's ID, if any.
func UserID(ctx context.Context, sm *scs.SessionManager) (int64, bool) {
	id := sm.GetInt64(ctx, KeyUserID)
	return id, id != 0
}
