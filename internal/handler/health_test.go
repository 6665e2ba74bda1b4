// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/internal/version"
)

func TestHealth_PublicResponse(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, app.client(t), RouteHealth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, map[string]any{"status": statusHealthy}, got)
}

func TestHealth_AdminDetails(t *testing.T) {
	app := newTestApp(t)
	c, _ := app.adminClient(t)

	// The second index load is served from the listing cache.
	app.get(t, c, RouteRoot)
	app.get(t, c, RouteRoot)

	resp, body := app.get(t, c, RouteHealth+"?verbose=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got HealthStatus
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, statusHealthy, got.Status)
	assert.Equal(t, "v0.0.0-test", got.Version)
	assert.Equal(t, "abc1234", got.Commit)
	assert.Contains(t, got.Checks, "database")
	assert.Contains(t, got.Checks, "disk")
	assert.Equal(t, "memory", got.Checks["cache"].Message)
	require.NotNil(t, got.Cache, "admin sees cache counters")
	assert.Positive(t, got.Cache.Hits)
	assert.Positive(t, got.Cache.Sets)
	require.NotNil(t, got.System)
	assert.Positive(t, got.System.NumCPU)
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, nil, "", &version.Info{Version: "v1"})
	require.NoError(t, db.Close())

	admin := store.User{ID: 1, Role: store.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, RouteHealth, nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, admin))

	rec := httptest.NewRecorder()
	h.Health(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var got HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, statusUnhealthy, got.Status)
	assert.Equal(t, statusUnhealthy, got.Checks["database"].Status)
	assert.Nil(t, got.System)
	assert.Nil(t, got.Cache, "no cache configured")

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, RouteHealthReady, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, RouteHealthLive, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestHealth_Readiness(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, app.client(t), RouteHealthReady)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ready"}`, body)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
