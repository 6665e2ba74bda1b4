// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/internal/version"
	"github.com/olegiv/oblog/web"
)

const testPassword = "correct horse battery"

type testApp struct {
	db       *sql.DB
	server   *httptest.Server
	accounts *service.AccountService
	posts    *service.PostService
	comments *service.CommentService
	events   *service.EventService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.TestDB(t)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	staticFS, err := fs.Sub(web.Static, "static/dist")
	require.NoError(t, err)

	sm := session.New(db, true)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm, IsDev: true})
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = memCache.Close() })

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	t.Cleanup(lp.Close)

	app := &testApp{
		db:       db,
		accounts: service.NewAccountService(db),
		posts:    service.NewPostService(db, memCache, time.Minute),
		comments: service.NewCommentService(db),
		events:   service.NewEventService(db),
	}

	router := NewRouter(RouterConfig{
		DB:              db,
		Cache:           memCache,
		SessionManager:  sm,
		Renderer:        renderer,
		Accounts:        app.accounts,
		Posts:           app.posts,
		Comments:        app.comments,
		Events:          app.events,
		LoginProtection: lp,
		CSRF:            middleware.DefaultCSRFConfig([]byte("0123456789abcdef0123456789abcdef"), true),
		Security:        middleware.DefaultSecurityHeadersConfig(true),
		StaticFS:        staticFS,
		DataDir:         t.TempDir(),
		Version:         &version.Info{Version: "v0.0.0-test", GitCommit: "abc1234"},
	})

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)

	return app
}

// client returns an HTTP client with its own cookie jar that does not
// follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// login signs c in as the user with the given email.
func (a *testApp) login(t *testing.T, c *http.Client, email string) {
	t.Helper()

	resp, _ := a.post(t, c, RouteLogin, url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, RouteRoot, resp.Header.Get("Location"))
}

// adminClient creates the admin user and returns a client logged in as it.
func (a *testApp) adminClient(t *testing.T) (*http.Client, store.User) {
	t.Helper()

	admin := testutil.CreateUser(t, a.db, "admin@example.com", "Admin", testPassword, store.RoleAdmin)
	c := a.client(t)
	a.login(t, c, admin.Email)
	return c, admin
}

// userClient creates a regular user and returns a client logged in as it.
func (a *testApp) userClient(t *testing.T, email, name string) (*http.Client, store.User) {
	t.Helper()

	user := testutil.CreateUser(t, a.db, email, name, testPassword, store.RoleUser)
	c := a.client(t)
	a.login(t, c, user.Email)
	return c, user
}

func (a *testApp) createPost(t *testing.T, author store.User, title string) store.Post {
	t.Helper()

	post, err := a.posts.Create(context.Background(), &author, service.PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		Body:     "<p>Body of " + title + "</p>",
		ImgURL:   "https://example.com/image.jpg",
	})
	require.NoError(t, err)
	return post
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"Sub"},
		"body":     {"<p>Hello</p>"},
		"img_url":  {"https://example.com/a.png"},
	}
}

func contains(body string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(body, p) {
			return false
		}
	}
	return true
}
