// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer is applied to every piece of user-authored HTML before it
// is marked safe for a template.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdown renders comments. Raw HTML in the source is dropped by goldmark
// and the output is sanitized again on top of that.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// TemplateFuncs returns the functions available to every template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate":  Truncate,
		"sanitize":  SanitizeHTML,
		"markdown":  Markdown,
		"pluralize": Pluralize,
	}
}

// SanitizeHTML strips unsafe markup and marks the rest safe.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(htmlSanitizer.Sanitize(s)) //nolint:gosec // sanitized by bluemonday
}

// Markdown converts markdown to sanitized HTML. On conversion failure the
// source is shown escaped.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// Truncate shortens s to at most length runes, appending "..." when cut.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return string(runes[:length]) + "..."
}

// Pluralize returns singular when n is 1 and plural otherwise.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
