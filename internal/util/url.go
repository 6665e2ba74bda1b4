// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"net/url"
)

// MaxURLLength is the maximum accepted length for a user-supplied URL.
const MaxURLLength = 2048

// ValidateHTTPURL checks that rawURL is an absolute http or https URL with a host.
func ValidateHTTPURL(rawURL string) error {
	if len(rawURL) > MaxURLLength {
		return errors.New("URL is too long")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must use http or https scheme")
	}
	if parsed.Host == "" {
		return errors.New("URL must have a hostname")
	}
	return nil
}
