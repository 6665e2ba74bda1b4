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

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/oblog/internal/cache"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// PostDateLayout is the human-readable creation date stored on every post.
const PostDateLayout = "January 02, 2006"

const postListCacheKey = "posts:list"

// bodySanitizer strips scripts, event handlers and other unsafe markup
// from post bodies while keeping ordinary rich text.
var bodySanitizer = bluemonday.UGCPolicy()

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// PostSummary is one entry of the index listing.
type PostSummary struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Subtitle   string `json:"subtitle"`
	Date       string `json:"date"`
	ImgURL     string `json:"img_url"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
}

// PostDetail is a single post with its author's current name.
type PostDetail struct {
	store.Post
	AuthorName string
}

// PostService manages posts. It performs no authorization; callers check
// RequireAdmin before any mutation.
type PostService struct {
	db      *sql.DB
	queries *store.Queries
	listing *cache.TypedCache[[]PostSummary]
	now     func() time.Time
}

// NewPostService creates a PostService. c may be nil to disable caching
// of the index listing.
func NewPostService(db *sql.DB, c cache.Cacher, ttl time.Duration) *PostService {
	s := &PostService{
		db:      db,
		queries: store.New(db),
		now:     time.Now,
	}
	if c != nil {
		s.listing = cache.NewTypedCache[[]PostSummary](c, ttl)
	}
	return s
}

// ListAll returns every post in creation order.
func (s *PostService) ListAll(ctx context.Context) ([]PostSummary, error) {
	if s.listing == nil {
		return s.loadListing(ctx)
	}
	return s.listing.GetOrSet(ctx, postListCacheKey, func() ([]PostSummary, error) {
		return s.loadListing(ctx)
	})
}

func (s *PostService) loadListing(ctx context.Context) ([]PostSummary, error) {
	rows, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	posts := make([]PostSummary, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, PostSummary{
			ID:         r.ID,
			Title:      r.Title,
			Slug:       r.Slug,
			Subtitle:   r.Subtitle,
			Date:       r.Date,
			ImgURL:     r.ImgUrl,
			AuthorID:   r.AuthorID.Int64,
			AuthorName: r.AuthorName,
		})
	}
	return posts, nil
}

// ListByAuthor returns the posts owned by authorID in creation order.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]store.Post, error) {
	posts, err := s.queries.ListPostsByAuthor(ctx, util.NullInt64FromValue(authorID))
	if err != nil {
		return nil, fmt.Errorf("listing posts by author: %w", err)
	}
	return posts, nil
}

// Get returns the post with the given ID or model.ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (PostDetail, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return PostDetail{}, model.ErrPostNotFound
	}
	if err != nil {
		return PostDetail{}, fmt.Errorf("loading post: %w", err)
	}
	return s.withAuthor(ctx, post)
}

// GetBySlug returns the post with the given slug or model.ErrPostNotFound.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (PostDetail, error) {
	post, err := s.queries.GetPostBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return PostDetail{}, model.ErrPostNotFound
	}
	if err != nil {
		return PostDetail{}, fmt.Errorf("loading post: %w", err)
	}
	return s.withAuthor(ctx, post)
}

func (s *PostService) withAuthor(ctx context.Context, post store.Post) (PostDetail, error) {
	detail := PostDetail{Post: post}
	if !post.AuthorID.Valid {
		return detail, nil
	}

	author, err := s.queries.GetUserByID(ctx, post.AuthorID.Int64)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return PostDetail{}, fmt.Errorf("loading author: %w", err)
	}
	detail.AuthorName = author.Name
	return detail, nil
}

// Create stores a new post owned by author, dated today.
func (s *PostService) Create(ctx context.Context, author *store.User, in PostInput) (store.Post, error) {
	if author == nil {
		return store.Post{}, model.ErrUnauthenticated
	}
	in, err := normalizePostInput(in)
	if err != nil {
		return store.Post{}, err
	}

	var post store.Post
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := ensureTitleFree(ctx, q, in.Title, 0); err != nil {
			return err
		}

		slug, err := uniqueSlug(ctx, q, in.Title, 0)
		if err != nil {
			return err
		}

		now := s.now()
		post, err = q.CreatePost(ctx, store.CreatePostParams{
			AuthorID:  util.NullInt64FromValue(author.ID),
			Title:     in.Title,
			Slug:      slug,
			Subtitle:  in.Subtitle,
			Date:      now.Format(PostDateLayout),
			Body:      in.Body,
			ImgUrl:    in.ImgURL,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if isUniqueViolation(err, "posts.title") {
			return model.ErrTitleTaken
		}
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Post{}, err
	}

	s.invalidateListing(ctx)
	return post, nil
}

// Update replaces the editable fields of a post. A non-empty authorName
// renames the post's author user, which shows on every post they own.
func (s *PostService) Update(ctx context.Context, id int64, in PostInput, authorName string) (store.Post, error) {
	in, err := normalizePostInput(in)
	if err != nil {
		return store.Post{}, err
	}
	authorName = strings.TrimSpace(authorName)

	var post store.Post
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		current, err := q.GetPostByID(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPostNotFound
		}
		if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}

		if err := ensureTitleFree(ctx, q, in.Title, id); err != nil {
			return err
		}

		slug := current.Slug
		if in.Title != current.Title {
			if slug, err = uniqueSlug(ctx, q, in.Title, id); err != nil {
				return err
			}
		}

		now := s.now()
		post, err = q.UpdatePost(ctx, store.UpdatePostParams{
			Title:     in.Title,
			Slug:      slug,
			Subtitle:  in.Subtitle,
			Body:      in.Body,
			ImgUrl:    in.ImgURL,
			UpdatedAt: now,
			ID:        id,
		})
		if isUniqueViolation(err, "posts.title") {
			return model.ErrTitleTaken
		}
		if err != nil {
			return fmt.Errorf("updating post: %w", err)
		}

		if authorName == "" || !current.AuthorID.Valid {
			return nil
		}
		if other, err := q.GetUserByName(ctx, authorName); err == nil && other.ID != current.AuthorID.Int64 {
			return model.ErrNameTaken
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking author name: %w", err)
		}
		if err := q.UpdateUserName(ctx, store.UpdateUserNameParams{
			Name:      authorName,
			UpdatedAt: now,
			ID:        current.AuthorID.Int64,
		}); err != nil {
			return fmt.Errorf("renaming author: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Post{}, err
	}

	s.invalidateListing(ctx)
	return post, nil
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetPostByID(ctx, id); errors.Is(err, sql.ErrNoRows) {
			return model.ErrPostNotFound
		} else if err != nil {
			return fmt.Errorf("loading post: %w", err)
		}

		if _, err := q.DeleteCommentsForPost(ctx, util.NullInt64FromValue(id)); err != nil {
			return fmt.Errorf("deleting comments: %w", err)
		}
		if _, err := q.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("deleting post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *PostService) invalidateListing(ctx context.Context) {
	if s.listing == nil {
		return
	}
	if err := s.listing.Delete(ctx, postListCacheKey); err != nil {
		slog.Warn("failed to invalidate post listing cache", "error", err)
	}
}

func normalizePostInput(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	in.Body = bodySanitizer.Sanitize(in.Body)

	if in.Title == "" || in.Subtitle == "" || strings.TrimSpace(in.Body) == "" {
		return in, model.ErrInvalidInput
	}
	if err := util.ValidateHTTPURL(in.ImgURL); err != nil {
		return in, fmt.Errorf("%w: image URL: %v", model.ErrInvalidInput, err)
	}
	return in, nil
}

// ensureTitleFree returns model.ErrTitleTaken if another post (not selfID)
// already uses title.
func ensureTitleFree(ctx context.Context, q *store.Queries, title string, selfID int64) error {
	existing, err := q.GetPostByTitle(ctx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking title: %w", err)
	}
	if existing.ID != selfID {
		return model.ErrTitleTaken
	}
	return nil
}

// uniqueSlug derives a slug from title, appending -2, -3, ... when another
// post (not selfID) already has it.
func uniqueSlug(ctx context.Context, q *store.Queries, title string, selfID int64) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for n := 2; ; n++ {
		existing, err := q.GetPostBySlug(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if existing.ID == selfID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
