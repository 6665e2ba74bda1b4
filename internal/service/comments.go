// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// MaxCommentLength bounds the stored comment text.
const MaxCommentLength = 10000

// CommentView is a comment with its author's current name.
type CommentView struct {
	ID         int64
	Text       string
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

// CommentService manages comments. Comments are append-only.
type CommentService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{
		db:      db,
		queries: store.New(db),
	}
}

// Create adds a comment by actor to the post. A nil actor yields
// model.ErrUnauthenticated and nothing is stored.
func (s *CommentService) Create(ctx context.Context, actor *store.User, postID int64, text string) (store.Comment, error) {
	if actor == nil {
		return store.Comment{}, model.ErrUnauthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" || len(text) > MaxCommentLength {
		return store.Comment{}, model.ErrInvalidInput
	}

	var comment store.Comment
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetPostByID(ctx, postID); errors.Is(err, sql.ErrNoRows) {
			return model.ErrPostNotFound
		} else if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}

		var err error
		comment, err = q.CreateComment(ctx, store.CreateCommentParams{
			Text:      text,
			AuthorID:  util.NullInt64FromValue(actor.ID),
			PostID:    util.NullInt64FromValue(postID),
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Comment{}, err
	}
	return comment, nil
}

// ListForPost returns the post's comments in the order they were added.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]CommentView, error) {
	rows, err := s.queries.ListCommentsForPost(ctx, util.NullInt64FromValue(postID))
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	comments := make([]CommentView, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, CommentView{
			ID:         r.ID,
			Text:       r.Text,
			AuthorID:   r.AuthorID.Int64,
			AuthorName: r.AuthorName,
			CreatedAt:  r.CreatedAt,
		})
	}
	return comments, nil
}
