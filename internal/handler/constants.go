// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot     = "/"
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteAbout    = "/about"
	RouteContact  = "/contact"

	RoutePost       = "/post/{id}"
	RoutePostBySlug = "/p/{slug}"
	RouteNewPost    = "/new-post"
	RouteEditPost   = "/edit-post/{id}"
	RouteDeletePost = "/delete/{id}"
	RouteAuthor     = "/author/{id}"

	RouteHealth      = "/health"
	RouteHealthLive  = "/health/live"
	RouteHealthReady = "/health/ready"
)

// Template names.
const (
	templateIndex    = "index"
	templatePost     = "post"
	templateRegister = "register"
	templateLogin    = "login"
	templateMakePost = "make-post"
	templateDelete   = "delete-post"
	templateAuthor   = "author"
	templateAbout    = "about"
	templateContact  = "contact"
	templateError    = "error"
)

// User-facing flash messages.
const (
	msgNameTaken       = "You have entered existing username. Try again."
	msgEmailTaken      = "You have entered existing email. Trying to log in?"
	msgUserNotFound    = "User can not be found. Try again. Trying to register?"
	msgWrongPassword   = "Password is wrong. Try again"
	msgPleaseLogin     = "Please login."
	msgFieldsRequired  = "Please fill in every field."
	msgInvalidForm     = "Invalid form data"
	msgTitleTaken      = "A post with this title already exists."
	msgInvalidPost     = "Please fill in every field and use an http(s) image URL."
	msgEmptyComment    = "Comment cannot be empty."
	msgPostDeleted     = "Post deleted."
	msgAccountLocked   = "Too many failed attempts. Try again in %s."
	msgAttemptsLeft    = "Password is wrong. Try again (%d attempts left)"
	msgPostNotFound    = "Post not found."
	msgAuthorNotFound  = "Author not found."
	msgForbidden       = "You are not allowed to do that."
)

// Log messages.
const (
	logParseForm = "failed to parse form"
)
