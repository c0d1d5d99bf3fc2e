// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidMemberToken = errors.New("invalid member token")
	ErrMissingCredentials = errors.New("member credentials required")
)

// NewID returns a random UUID string for database records
func NewID() string {
	return uuid.NewString()
}

// GenerateMemberToken creates an HMAC-based token for a member
// This is deterministic and verifiable without storing the token
func GenerateMemberToken(memberID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("member:"))
	h.Write([]byte(memberID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateMemberToken checks if the provided token belongs to the member
func ValidateMemberToken(memberID, token, salt string) error {
	if memberID == "" || token == "" {
		return ErrMissingCredentials
	}
	expected := GenerateMemberToken(memberID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidMemberToken
	}
	return nil
}
