// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// IndexData is rendered by the index template.
type IndexData struct {
	Posts []service.PostSummary
}

// PostPageData is rendered by the post template.
type PostPageData struct {
	Post     service.PostDetail
	Comments []service.CommentView
}

// AuthorPageData is rendered by the author template.
type AuthorPageData struct {
	Name  string
	Posts []store.Post
}

// DeletePageData is rendered by the delete-post confirmation template.
type DeletePageData struct {
	ID     int64
	Title  string
	Action string
}

// PostFormData is rendered by the make-post template for both create and edit.
type PostFormData struct {
	IsEdit     bool
	Action     string
	Title      string
	Subtitle   string
	Body       string
	ImgURL     string
	AuthorName string
}

// PostsHandler serves the public blog pages and the admin post editor.
type PostsHandler struct {
	posts        *service.PostService
	comments     *service.CommentService
	accounts     *service.AccountService
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(posts *service.PostService, comments *service.CommentService, accounts *service.AccountService, renderer *render.Renderer, events *service.EventService) *PostsHandler {
	return &PostsHandler{
		posts:        posts,
		comments:     comments,
		accounts:     accounts,
		renderer:     renderer,
		eventService: events,
	}
}

// Index handles GET /.
func (h *PostsHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, templateIndex, render.TemplateData{
		Data: IndexData{Posts: posts},
	})
}

// Show handles GET /post/{id}.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load post", "post_id", id, "error", err)
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "post_id", id, "error", err)
		return
	}

	h.renderer.RenderPage(w, r, templatePost, render.TemplateData{
		Title: post.Title,
		Data:  PostPageData{Post: post, Comments: comments},
	})
}

// Comment handles POST /post/{id}. Anonymous visitors are sent back to the
// post with "Please login.".
func (h *PostsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}
	back := postURL(id)

	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	user := middleware.GetUser(r)
	comment, err := h.comments.Create(r.Context(), user, id, r.FormValue("comment_text"))
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		flashError(w, r, h.renderer, back, msgPleaseLogin)
		return
	case errors.Is(err, model.ErrNotFound):
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	case errors.Is(err, model.ErrInvalidInput):
		flashError(w, r, h.renderer, back, msgEmptyComment)
		return
	case err != nil:
		logAndInternalError(w, "failed to create comment", "post_id", id, "error", err)
		return
	}

	slog.Info("comment added", "comment_id", comment.ID, "post_id", id, "user_id", user.ID)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// BySlug handles GET /p/{slug} by redirecting to the post's canonical URL.
func (h *PostsHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}

	post, err := h.posts.GetBySlug(r.Context(), slug)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load post by slug", "slug", slug, "error", err)
		return
	}

	http.Redirect(w, r, postURL(post.ID), http.StatusMovedPermanently)
}

// Author handles GET /author/{id}: every post owned by one user.
func (h *PostsHandler) Author(w http.ResponseWriter, r *http.Request) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound, msgAuthorNotFound)
		return
	}

	author, err := h.accounts.GetUser(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgAuthorNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load author", "user_id", id, "error", err)
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), author.ID)
	if err != nil {
		logAndInternalError(w, "failed to list author posts", "user_id", id, "error", err)
		return
	}

	h.renderer.RenderPage(w, r, templateAuthor, render.TemplateData{
		Title: author.Name,
		Data:  AuthorPageData{Name: author.Name, Posts: posts},
	})
}

// NewForm handles GET /new-post.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, templateMakePost, render.TemplateData{
		Title: "New Post",
		Data:  PostFormData{Action: RouteNewPost},
	})
}

// Create handles POST /new-post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteNewPost) {
		return
	}

	user := middleware.GetUser(r)
	if !h.requireAdmin(w, r) {
		return
	}

	post, err := h.posts.Create(r.Context(), user, postInputFromForm(r))
	switch {
	case errors.Is(err, model.ErrConflict):
		flashError(w, r, h.renderer, RouteNewPost, msgTitleTaken)
		return
	case errors.Is(err, model.ErrInvalidInput):
		flashError(w, r, h.renderer, RouteNewPost, msgInvalidPost)
		return
	case err != nil:
		logAndInternalError(w, "failed to create post", "error", err)
		return
	}

	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post created", &user.ID, middleware.GetClientIP(r),
		map[string]any{"post_id": post.ID, "title": post.Title})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// EditForm handles GET /edit-post/{id}. The form is prefilled with the
// post's current values and its author's name.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load post", "post_id", id, "error", err)
		return
	}

	h.renderer.RenderPage(w, r, templateMakePost, render.TemplateData{
		Title: "Edit Post",
		Data: PostFormData{
			IsEdit:     true,
			Action:     editPostURL(id),
			Title:      post.Title,
			Subtitle:   post.Subtitle,
			Body:       post.Body,
			ImgURL:     post.ImgUrl,
			AuthorName: post.AuthorName,
		},
	})
}

// Update handles POST /edit-post/{id}. The submitted author name renames the
// post's author user.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}
	back := editPostURL(id)

	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	post, err := h.posts.Update(r.Context(), id, postInputFromForm(r), r.FormValue("author"))
	switch {
	case errors.Is(err, model.ErrNotFound):
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	case errors.Is(err, model.ErrNameTaken):
		flashError(w, r, h.renderer, back, msgNameTaken)
		return
	case errors.Is(err, model.ErrConflict):
		flashError(w, r, h.renderer, back, msgTitleTaken)
		return
	case errors.Is(err, model.ErrInvalidInput):
		flashError(w, r, h.renderer, back, msgInvalidPost)
		return
	case err != nil:
		logAndInternalError(w, "failed to update post", "post_id", id, "error", err)
		return
	}

	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"post_id": post.ID, "title": post.Title})

	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// DeleteConfirm handles GET /delete/{id}. It only asks for confirmation;
// the post is removed by the POST that the page submits.
func (h *PostsHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load post", "post_id", id, "error", err)
		return
	}

	h.renderer.RenderPage(w, r, templateDelete, render.TemplateData{
		Title: "Delete Post",
		Data:  DeletePageData{ID: post.ID, Title: post.Title, Action: deletePostURL(post.ID)},
	})
}

// Delete handles POST /delete/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.renderer)
	if !ok {
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	err := h.posts.Delete(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		renderError(w, r, h.renderer, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to delete post", "post_id", id, "error", err)
		return
	}

	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"post_id": id})

	flashSuccess(w, r, h.renderer, RouteRoot, msgPostDeleted)
}

// About handles GET /about.
func (h *PostsHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, templateAbout, render.TemplateData{Title: "About"})
}

// Contact handles GET /contact.
func (h *PostsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, templateContact, render.TemplateData{Title: "Contact"})
}

// requireAdmin renders 403 unless the current user is the admin.
func (h *PostsHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := service.RequireAdmin(middleware.GetUser(r)); err != nil {
		renderError(w, r, h.renderer, http.StatusForbidden, msgForbidden)
		return false
	}
	return true
}

func postInputFromForm(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		Body:     r.FormValue("body"),
		ImgURL:   r.FormValue("img_url"),
	}
}
