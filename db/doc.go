// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg) // sqlite (modernc.org/sqlite) or postgres (lib/pq)

SQLite connections get busy_timeout and foreign_keys pragmas appended.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL avoids dialect-specific defaults (no NOW(), no JSONB) so the same
statements run on both drivers; timestamps are always bound explicitly.

# Tables

The schema includes:

  - session: recognition round metadata and lifecycle phase
  - nomination: one nominee pitch per row, owned by a session
  - vote: one ballot per identity per session
  - vote_selection: chosen nominations per ballot (empty = none of the above)
  - participant: roster entries for token identity mode

# Relationships

	session 1──* nomination
	session 1──* vote
	vote 1──* vote_selection *──1 nomination

All foreign keys use ON DELETE CASCADE, but the session-close purge deletes
children explicitly inside its transaction rather than leaning on cascades.

# Invariants carried by the schema

  - vote UNIQUE (session_id, voter_key): at most one ballot per identity per
    session, even under concurrent submissions
  - participant UNIQUE email and token
  - session.phase CHECK against the five legal phases
*/
package db
