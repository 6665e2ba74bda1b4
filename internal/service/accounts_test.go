// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	s := newServices(t)

	first := register(t, s, "a@example.com", "Alice")
	second := register(t, s, "b@example.com", "Bob")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, store.RoleAdmin, first.Role)
	assert.Equal(t, store.RoleUser, second.Role)
}

func TestRegister_HashesPassword(t *testing.T) {
	s := newServices(t)

	user := register(t, s, "a@example.com", "Alice")

	assert.NotEqual(t, "password-Alice", user.PasswordHash)
	ok, err := auth.CheckPassword("password-Alice", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_NameTaken(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	first := register(t, s, "a@example.com", "Alice")

	_, err := s.accounts.Register(ctx, RegisterInput{Email: "other@example.com", Name: "Alice", Password: "x"})
	require.ErrorIs(t, err, model.ErrNameTaken)
	assert.ErrorIs(t, err, model.ErrConflict)

	count, err := store.New(s.db).CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unchanged, err := s.accounts.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", unchanged.Email)
}

func TestRegister_EmailTaken(t *testing.T) {
	s := newServices(t)
	register(t, s, "a@example.com", "Alice")

	_, err := s.accounts.Register(context.Background(), RegisterInput{Email: "a@example.com", Name: "Someone", Password: "x"})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegister_EmailIsNormalized(t *testing.T) {
	s := newServices(t)
	register(t, s, "a@example.com", "Alice")

	_, err := s.accounts.Register(context.Background(), RegisterInput{Email: "  A@Example.COM ", Name: "Someone", Password: "x"})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegister_NameCheckedBeforeEmail(t *testing.T) {
	s := newServices(t)
	register(t, s, "a@example.com", "Alice")

	_, err := s.accounts.Register(context.Background(), RegisterInput{Email: "a@example.com", Name: "Alice", Password: "x"})
	assert.ErrorIs(t, err, model.ErrNameTaken)
	assert.NotErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegister_InvalidInput(t *testing.T) {
	s := newServices(t)

	tests := []RegisterInput{
		{Email: "", Name: "A", Password: "x"},
		{Email: "a@example.com", Name: "  ", Password: "x"},
		{Email: "a@example.com", Name: "A", Password: ""},
	}
	for _, in := range tests {
		_, err := s.accounts.Register(context.Background(), in)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	alice := register(t, s, "a@example.com", "Alice")

	t.Run("success", func(t *testing.T) {
		user, err := s.accounts.Authenticate(ctx, "a@example.com", "password-Alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)

		reloaded, err := s.accounts.GetUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.LastLoginAt.Valid)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.accounts.Authenticate(ctx, "a@example.com", "nope")
		assert.ErrorIs(t, err, model.ErrWrongPassword)
		assert.ErrorIs(t, err, model.ErrAuth)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.accounts.Authenticate(ctx, "ghost@example.com", "password-Alice")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestSeededAdmin_MixedCaseEmail(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, s.db, store.SeedAdmin{
		Email:    " Admin@Example.com ",
		Name:     "Admin",
		Password: "seed-secret",
	}))

	admin, err := s.accounts.Authenticate(ctx, "Admin@Example.com", "seed-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, store.RoleAdmin, admin.Role)

	_, err = s.accounts.Authenticate(ctx, "admin@example.com", "seed-secret")
	require.NoError(t, err)

	_, err = s.accounts.Register(ctx, RegisterInput{
		Email:    "admin@example.com",
		Name:     "Mallory",
		Password: "pw",
	})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestAuthenticate_UpgradesLegacyHash(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	q := store.New(s.db)
	alice := register(t, s, "a@example.com", "Alice")

	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	require.NoError(t, q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: legacy,
		UpdatedAt:    alice.UpdatedAt,
		ID:           alice.ID,
	}))

	_, err := s.accounts.Authenticate(ctx, "a@example.com", "changeme")
	require.NoError(t, err)

	reloaded, err := s.accounts.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, legacy, reloaded.PasswordHash)
	assert.False(t, auth.NeedsRehash(reloaded.PasswordHash))
}

func TestGetUser_NotFound(t *testing.T) {
	s := newServices(t)

	_, err := s.accounts.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRequireAdmin(t *testing.T) {
	s := newServices(t)
	admin := register(t, s, "a@example.com", "Alice")
	member := register(t, s, "b@example.com", "Bob")

	assert.NoError(t, RequireAdmin(&admin))
	assert.ErrorIs(t, RequireAdmin(&member), model.ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(nil), model.ErrForbidden)

	assert.True(t, IsAdmin(&admin))
	assert.False(t, IsAdmin(&member))
}
