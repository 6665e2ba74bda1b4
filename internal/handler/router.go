// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/version"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	DB              *sql.DB
	Cache           cache.Cacher
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	Accounts        *service.AccountService
	Posts           *service.PostService
	Comments        *service.CommentService
	Events          *service.EventService
	LoginProtection *middleware.LoginProtection
	CSRF            middleware.CSRFConfig
	Security        middleware.SecurityHeadersConfig
	StaticFS        fs.FS
	DataDir         string
	Version         *version.Info

	// RequestLogging enables the chi access log.
	RequestLogging bool
}

// NewRouter builds the application's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Accounts, cfg.Renderer, cfg.SessionManager, cfg.Events, cfg.LoginProtection)
	postsHandler := NewPostsHandler(cfg.Posts, cfg.Comments, cfg.Accounts, cfg.Renderer, cfg.Events)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Cache, cfg.DataDir, cfg.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)

	cfg.Security.ExcludePaths = append(cfg.Security.ExcludePaths, RouteHealth)
	r.Use(middleware.SecurityHeaders(cfg.Security))

	if cfg.StaticFS != nil {
		r.Handle("/static/dist/*", http.StripPrefix("/static/dist/", http.FileServer(http.FS(cfg.StaticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionManager.LoadAndSave)
		r.Use(middleware.CSRF(cfg.CSRF))
		r.Use(middleware.OptionalLoadUser(cfg.SessionManager, cfg.DB))

		r.Get(RouteHealth, healthHandler.Health)
		r.Get(RouteHealthLive, healthHandler.Liveness)
		r.Get(RouteHealthReady, healthHandler.Readiness)

		registerPublicRoutes(r, postsHandler)
		registerAuthRoutes(r, authHandler, cfg.LoginProtection)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Events))
			registerAdminRoutes(r, postsHandler)
		})

		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			renderError(w, req, cfg.Renderer, http.StatusNotFound, "Page not found.")
		})
	})

	return r
}

func registerPublicRoutes(r chi.Router, h *PostsHandler) {
	r.Get(RouteRoot, h.Index)
	r.Get(RoutePost, h.Show)
	r.Post(RoutePost, h.Comment)
	r.Get(RoutePostBySlug, h.BySlug)
	r.Get(RouteAuthor, h.Author)
	r.Get(RouteAbout, h.About)
	r.Get(RouteContact, h.Contact)
}

func registerAuthRoutes(r chi.Router, h *AuthHandler, lp *middleware.LoginProtection) {
	r.Get(RouteRegister, h.RegisterForm)
	r.Post(RouteRegister, h.Register)

	r.Get(RouteLogin, h.LoginForm)
	if lp != nil {
		r.With(lp.Middleware()).Post(RouteLogin, h.Login)
	} else {
		r.Post(RouteLogin, h.Login)
	}

	r.With(middleware.RequireLogin).Get(RouteLogout, h.Logout)
	r.With(middleware.RequireLogin).Post(RouteLogout, h.Logout)
}

func registerAdminRoutes(r chi.Router, h *PostsHandler) {
	r.Get(RouteNewPost, h.NewForm)
	r.Post(RouteNewPost, h.Create)
	r.Get(RouteEditPost, h.EditForm)
	r.Post(RouteEditPost, h.Update)
	r.Get(RouteDeletePost, h.DeleteConfirm)
	r.Post(RouteDeletePost, h.Delete)
}
