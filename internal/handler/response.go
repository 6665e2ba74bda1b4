// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers. Handlers own the session and
// the flash messages; the services they call take the current user
// explicitly.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/util"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so a POST is followed by a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		slog.Debug(logParseForm, "path", r.URL.Path, "error", err)
		flashError(w, r, renderer, redirectURL, msgInvalidForm)
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// ErrorPageData is rendered by the error template.
type ErrorPageData struct {
	Status  int
	Message string
}

// renderError renders the error page with the given status.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, message string) {
	renderer.RenderStatus(w, r, status, templateError, render.TemplateData{
		Title: http.StatusText(status),
		Data:  ErrorPageData{Status: status, Message: message},
	})
}

// idParam parses the {id} URL parameter. It renders 404 and returns false
// when the value is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) (int64, bool) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		renderError(w, r, renderer, http.StatusNotFound, msgPostNotFound)
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return fmt.Sprintf("/post/%d", id)
}

func editPostURL(id int64) string {
	return fmt.Sprintf("/edit-post/%d", id)
}

func deletePostURL(id int64) string {
	return fmt.Sprintf("/delete/%d", id)
}

func authorURL(id int64) string {
	return fmt.Sprintf("/author/%d", id)
}

// formatDuration renders a lockout duration for humans.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	default:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
}
