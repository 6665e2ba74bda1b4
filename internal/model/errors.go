// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain error taxonomy and the shared constants
// used by services, handlers and the event log.
package model

import (
	"errors"
	"fmt"
)

// Base error kinds. Handlers branch on these with errors.Is.
var (
	// ErrConflict is returned when a unique value is already in use.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuth groups the authentication failures.
	ErrAuth = errors.New("authentication failed")
	// ErrForbidden is returned when the actor lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for missing or malformed form values.
	ErrInvalidInput = errors.New("invalid input")
)

// Specific errors. Each one matches its base kind via errors.Is.
var (
	ErrNameTaken       = fmt.Errorf("%w: name already registered", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrTitleTaken      = fmt.Errorf("%w: title already used", ErrConflict)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrAuth)
	ErrWrongPassword   = fmt.Errorf("%w: wrong password", ErrAuth)
	ErrUnauthenticated = fmt.Errorf("%w: not logged in", ErrAuth)
	ErrPostNotFound    = fmt.Errorf("%w: post", ErrNotFound)
)
