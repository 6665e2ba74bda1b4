// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}[{{template "flash" .}}]{{template "content" .}}{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{.FlashType}}:{{.Flash}}{{end}}`)},
		"pages/hello.html": {Data: []byte(`{{define "content"}}hello {{if .User}}{{.User.Name}}{{else}}guest{{end}}{{if .IsAdmin}} (admin){{end}} {{.Data}}{{end}}`)},
	}
}

func TestNew_ParsesEmbeddedTemplates(t *testing.T) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"index", "post", "register", "login", "make-post", "delete-post", "author", "about", "contact", "error"} {
		if !r.Has(name) {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestNew_NoPages(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}})
	if err == nil {
		t.Fatal("expected error when no page templates exist")
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := r.Render(rec, req, http.StatusOK, "hello", TemplateData{Data: "<b>x</b>"}); err != nil {
			t.Fatalf("Render: %v", err)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "hello guest") {
			t.Errorf("body = %q, want guest greeting", body)
		}
		if !strings.Contains(body, "&lt;b&gt;x&lt;/b&gt;") {
			t.Errorf("body = %q, want escaped data", body)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("admin user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser,
			store.User{ID: 1, Name: "Alice", Role: store.RoleAdmin}))

		if err := r.Render(rec, req, http.StatusNotFound, "hello", TemplateData{}); err != nil {
			t.Fatalf("Render: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "hello Alice (admin)") {
			t.Errorf("body = %q, want admin greeting", body)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := r.Render(rec, req, http.StatusOK, "missing", TemplateData{}); err == nil {
			t.Error("expected error for unknown template")
		}

		r.RenderPage(rec, req, "missing", TemplateData{})
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("RenderPage status = %d, want 500", rec.Code)
		}
	})
}

func TestFlash(t *testing.T) {
	sm := scs.New()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Please login.", FlashError)
	})
	mux.HandleFunc("/show", func(w http.ResponseWriter, req *http.Request) {
		r.RenderPage(w, req, "hello", TemplateData{})
	})
	handler := sm.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := rec.Result().Cookies()

	show := func() string {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	if body := show(); !strings.Contains(body, "[error:Please login.]") {
		t.Errorf("first render = %q, want flash", body)
	}
	if body := show(); !strings.Contains(body, "[:]") {
		t.Errorf("second render = %q, want flash consumed", body)
	}
}
