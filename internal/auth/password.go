// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth hashes and verifies account passwords. New hashes use
// argon2id; pbkdf2 hashes imported from older installs still verify and
// are reported by NeedsRehash so they get upgraded on the next login.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// legacyPBKDF2Iterations applies to "pbkdf2:sha256" hashes without an
// explicit iteration count.
const legacyPBKDF2Iterations = 150000

// ErrInvalidHash is returned when a stored hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid password hash")

// HashPassword creates an argon2id hash of the password.
// Format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword reports whether password matches encodedHash.
// A mismatch is (false, nil); an unreadable hash is (false, ErrInvalidHash).
func CheckPassword(password, encodedHash string) (bool, error) {
	if strings.HasPrefix(encodedHash, "pbkdf2:") {
		return checkPBKDF2(password, encodedHash)
	}
	return checkArgon2(password, encodedHash)
}

// NeedsRehash reports whether encodedHash was produced with anything other
// than the current argon2id parameters.
func NeedsRehash(encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return true
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return true
	}

	return memory != Argon2Memory || timeCost != Argon2Time || threads != Argon2Threads
}

func checkArgon2(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}

	key := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// checkPBKDF2 verifies "pbkdf2:sha256[:iterations]$salt$hexkey" hashes.
func checkPBKDF2(password, encodedHash string) (bool, error) {
	method, rest, ok := strings.Cut(encodedHash, "$")
	if !ok {
		return false, ErrInvalidHash
	}
	salt, hexKey, ok := strings.Cut(rest, "$")
	if !ok {
		return false, ErrInvalidHash
	}

	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[1] != "sha256" {
		return false, fmt.Errorf("%w: unsupported method %q", ErrInvalidHash, method)
	}

	iterations := legacyPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false, fmt.Errorf("%w: iterations %q", ErrInvalidHash, fields[2])
		}
		iterations = n
	}

	expected, err := hex.DecodeString(hexKey)
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
