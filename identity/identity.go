// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/danielhkuo/kudos/cliparse"
)

var (
	ErrMissingName  = errors.New("display name required")
	ErrMissingToken = errors.New("participant token required")
	ErrUnknownToken = errors.New("unknown participant token")
)

// Identity is the deduplication handle the ledgers use for quota and
// one-shot checks. Key is stable for one caller; session scoping comes from
// the ledger queries, which always pair Key with a session id.
type Identity struct {
	Key  string
	Name string
}

// Claim is what a caller asserts about themselves on a submission.
// Name mode reads Name; token mode reads Token. Never both in one deployment.
type Claim struct {
	Name  string
	Token string
}

// Resolver maps a claim to a stable identity. Resolution is deduplication,
// not authentication: the name resolver trusts any asserted name, and the
// token resolver only checks possession of a pre-issued roster token.
type Resolver interface {
	Resolve(claim Claim) (Identity, error)
}

// NewResolver selects the deployment's resolver from configuration.
func NewResolver(cfg cliparse.Config, db *sql.DB) Resolver {
	if cfg.IdentityMode == cliparse.IdentityToken {
		return &TokenResolver{db: db}
	}
	return &NameResolver{}
}

// NameResolver keys on the caller's normalized display name. Two devices
// claiming the same name collapse to one identity; that collision is the
// intended single-use barrier.
type NameResolver struct{}

func (r *NameResolver) Resolve(claim Claim) (Identity, error) {
	name := strings.TrimSpace(claim.Name)
	if name == "" {
		return Identity{}, ErrMissingName
	}
	return Identity{
		Key:  strings.ToLower(name),
		Name: name,
	}, nil
}

// TokenResolver keys on the roster participant that owns the presented
// token. The display name is the roster email.
type TokenResolver struct {
	db *sql.DB
}

func (r *TokenResolver) Resolve(claim Claim) (Identity, error) {
	token := strings.TrimSpace(claim.Token)
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	var id, email string
	err := r.db.QueryRow(`
		SELECT id, email FROM participant WHERE token = $1
	`, token).Scan(&id, &email)
	if err == sql.ErrNoRows {
		return Identity{}, ErrUnknownToken
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{Key: id, Name: email}, nil
}
