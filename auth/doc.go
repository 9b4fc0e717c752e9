// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin credential check and random token generation.

# Admin Credential

Privileged endpoints require one process-wide shared secret presented as a
bearer token on every call:

	Authorization: Bearer <ADMIN_PASSWORD>

VerifyBearer compares in constant time (hmac.Equal):

	if err := auth.VerifyBearer(r.Header.Get("Authorization"), cfg.AdminPassword); err != nil {
		// 401
	}

This is a capability, not per-user authentication; any device holding the
secret is an admin.

# Token Generation

GenerateToken creates 192-bit URL-safe tokens for roster participants:

	token, err := auth.GenerateToken()
*/
package auth
