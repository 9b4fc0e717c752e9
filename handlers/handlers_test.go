// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/testutil"
)

// TestEnv bundles the per-test database and config most handler tests need.
type TestEnv struct {
	DB  *sql.DB
	Cfg cliparse.Config
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })
	return &TestEnv{DB: db, Cfg: testutil.GetTestConfig()}
}
