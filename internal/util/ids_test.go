// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseID(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNullInt64FromValue(t *testing.T) {
	n := NullInt64FromValue(5)
	if !n.Valid || n.Int64 != 5 {
		t.Errorf("NullInt64FromValue(5) = %+v", n)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/image.jpg", false},
		{"http://example.com", false},
		{"ftp://example.com/file", true},
		{"javascript:alert(1)", true},
		{"/relative/path.png", true},
		{"https://", true},
		{"https://example.com/" + strings.Repeat("a", MaxURLLength), true},
	}

	for _, tt := range tests {
		err := ValidateHTTPURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
