// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

type services struct {
	db       *sql.DB
	accounts *AccountService
	posts    *PostService
	comments *CommentService
	events   *EventService
}

func newServices(t *testing.T) services {
	t.Helper()

	db := testutil.TestDB(t)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })

	return services{
		db:       db,
		accounts: NewAccountService(db),
		posts:    NewPostService(db, mc, time.Minute),
		comments: NewCommentService(db),
		events:   NewEventService(db),
	}
}

func register(t *testing.T, s services, email, name string) store.User {
	t.Helper()
	user, err := s.accounts.Register(context.Background(), RegisterInput{
		Email:    email,
		Name:     name,
		Password: "password-" + name,
	})
	require.NoError(t, err)
	return user
}

func postInput(title string) PostInput {
	return PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		Body:     "<p>Some <strong>body</strong> text</p>",
		ImgURL:   "https://example.com/cover.jpg",
	}
}

func createPost(t *testing.T, s services, author store.User, title string) store.Post {
	t.Helper()
	post, err := s.posts.Create(context.Background(), &author, postInput(title))
	require.NoError(t, err)
	return post
}

func sqlID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}
