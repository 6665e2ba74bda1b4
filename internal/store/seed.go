// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/util"
)

// RoleAdmin and RoleUser are the values stored in users.role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SeedAdmin describes the admin account created on an empty database.
type SeedAdmin struct {
	Email    string
	Name     string
	Password string
}

// Seed creates the admin account when the users table is empty.
// It is a no-op once any user exists, so the admin stays the first user.
// The email is normalized like every registration and login.
func Seed(ctx context.Context, db *sql.DB, admin SeedAdmin) error {
	admin.Email = util.NormalizeEmail(admin.Email)
	if admin.Email == "" || admin.Password == "" {
		slog.Debug("admin seed not configured, skipping")
		return nil
	}

	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users already exist, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        admin.Email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}
