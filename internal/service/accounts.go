// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// RegisterInput holds the registration form values.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// AccountService registers and authenticates users.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{
		db:      db,
		queries: store.New(db),
	}
}

// Register creates a new user. The name is checked before the email, so a
// request colliding on both reports model.ErrNameTaken. The first user ever
// registered becomes the admin.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	email := util.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return store.User{}, model.ErrInvalidInput
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var user store.User
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetUserByName(ctx, name); err == nil {
			return model.ErrNameTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking name: %w", err)
		}

		if _, err := q.GetUserByEmail(ctx, email); err == nil {
			return model.ErrEmailTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking email: %w", err)
		}

		count, err := q.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		role := store.RoleUser
		if count == 0 {
			role = store.RoleAdmin
		}

		now := time.Now()
		user, err = q.CreateUser(ctx, store.CreateUserParams{
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if isUniqueViolation(err, "users.email") {
			return model.ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
// It returns model.ErrUserNotFound or model.ErrWrongPassword on failure.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, util.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Warn("stored password hash unreadable", "user_id", user.ID, "error", err)
		return store.User{}, model.ErrWrongPassword
	}
	if !valid {
		return store.User{}, model.ErrWrongPassword
	}

	now := time.Now()

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    now,
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to upgrade password hash", "user_id", user.ID, "error", err)
			} else {
				user.PasswordHash = newHash
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		slog.Error("failed to update last login", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// GetUser returns the user with the given ID or model.ErrNotFound.
func (s *AccountService) GetUser(ctx context.Context, id int64) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, model.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

// RequireAdmin returns model.ErrForbidden unless user is an admin.
func RequireAdmin(user *store.User) error {
	if user == nil || user.Role != store.RoleAdmin {
		return model.ErrForbidden
	}
	return nil
}

// IsAdmin reports whether user holds the admin role.
func IsAdmin(user *store.User) bool {
	return RequireAdmin(user) == nil
}
