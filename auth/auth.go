// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("missing or invalid admin credential")
)

const bearerPrefix = "Bearer "

// VerifyBearer checks an Authorization header value against the process-wide
// admin secret. Comparison is constant-time. This is a coarse capability
// check, not an auth system: one shared secret, presented on every call.
func VerifyBearer(header, secret string) error {
	if secret == "" || !strings.HasPrefix(header, bearerPrefix) {
		return ErrUnauthorized
	}
	presented := header[len(bearerPrefix):]
	if !hmac.Equal([]byte(presented), []byte(secret)) {
		return ErrUnauthorized
	}
	return nil
}

// GenerateToken creates a random opaque token for a roster participant.
// Possession of the token is the participant's only credential.
func GenerateToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate participant token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
