// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity resolves a caller's claimed identity to a stable
deduplication key.

Two interchangeable strategies exist, selected once per deployment by
IDENTITY_MODE and never mixed within a session:

  - name: the key is the lowercased, trimmed display name. No registration
    step; any caller can claim any name. The duplicate-name collision is the
    intended (and deliberately weak) single-use barrier.
  - token: the key is the roster participant id found by exact lookup of a
    pre-issued opaque token; unknown tokens are rejected.

The resolver performs no authentication beyond possession of the token or
knowledge of a name. Ledger logic depends only on the Resolver interface,
so a stronger identity source can be substituted without touching it.

	resolver := identity.NewResolver(cfg, db)
	ident, err := resolver.Resolve(identity.Claim{Name: req.VoterName, Token: req.Token})
*/
package identity
