// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/util"
)

// AuthFormData prefills the register and login forms.
type AuthFormData struct {
	Email string
	Name  string
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts        *service.AccountService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(accounts *service.AccountService, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		accounts:        accounts,
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    events,
		loginProtection: lp,
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, templateRegister, render.TemplateData{
		Title: "Register",
		Data:  AuthFormData{},
	})
}

// Register handles POST /register. On success the new user is logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	clientIP := middleware.GetClientIP(r)
	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:    r.FormValue("email"),
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
	})
	switch {
	case errors.Is(err, model.ErrNameTaken):
		flashError(w, r, h.renderer, RouteRegister, msgNameTaken)
		return
	case errors.Is(err, model.ErrEmailTaken):
		flashError(w, r, h.renderer, RouteRegister, msgEmailTaken)
		return
	case errors.Is(err, model.ErrInvalidInput):
		flashError(w, r, h.renderer, RouteRegister, msgFieldsRequired)
		return
	case err != nil:
		logAndInternalError(w, "registration failed", "error", err)
		return
	}

	if err := session.LogIn(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "User registered", &user.ID, clientIP,
		map[string]any{"email": user.Email, "role": user.Role})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	h.renderer.RenderPage(w, r, templateLogin, render.TemplateData{
		Title: "Log In",
		Data:  AuthFormData{},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := util.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, msgFieldsRequired)
		return
	}

	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, RouteLogin, fmt.Sprintf(msgAccountLocked, formatDuration(remaining)))
			return
		}
	}

	user, err := h.accounts.Authenticate(r.Context(), email, password)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		slog.Debug("login attempt for non-existent user", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: user not found", nil, clientIP, map[string]any{"email": email})
		h.loginFailed(w, r, email, msgUserNotFound)
		return
	case errors.Is(err, model.ErrWrongPassword):
		slog.Debug("invalid password attempt", "email", email)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid password", nil, clientIP, map[string]any{"email": email})
		h.loginFailed(w, r, email, msgWrongPassword)
		return
	case err != nil:
		logAndInternalError(w, "database error during login", "error", err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := session.LogIn(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &user.ID, clientIP, map[string]any{"email": user.Email})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// loginFailed records the failure for lockout purposes and flashes message,
// or the lockout notice when this failure locked the account.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email, message string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", nil, middleware.GetClientIP(r),
				map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, RouteLogin, fmt.Sprintf(msgAccountLocked, formatDuration(lockDuration)))
			return
		}
		if message == msgWrongPassword {
			if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
				message = fmt.Sprintf(msgAttemptsLeft, remaining)
			}
		}
	}
	flashError(w, r, h.renderer, RouteLogin, message)
}

// Logout handles GET/POST /logout. The route sits behind RequireLogin, so an
// anonymous request never reaches here; LogOut still guards it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)

	if err := session.LogOut(r.Context(), h.sessionManager); err != nil {
		if errors.Is(err, model.ErrUnauthenticated) {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		slog.Error("session destroy error", "error", err)
	}

	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", userID, middleware.GetClientIP(r), nil)

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}
