// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/kudos/models"
)

// ComputeTally derives the session's results from persisted votes. Pure and
// re-derivable at any time; nothing here is ever written back.
//
// Counts are aggregated by nominee display name: two nominators pitching the
// same name pool their votes. Names appear in nomination insertion order,
// then a stable sort by count descending decides the final order, so tied
// names keep insertion order with no alphabetic tie-break.
func ComputeTally(db *sql.DB, sessionID string) (models.TallyResult, error) {
	result := models.TallyResult{
		VoteCounts: []models.VoteCount{},
		Winners:    []string{},
	}

	nominations, err := sessionNominations(db, sessionID)
	if err != nil {
		return result, fmt.Errorf("failed to load nominations: %w", err)
	}

	selectionCounts, err := selectionCounts(db, sessionID)
	if err != nil {
		return result, fmt.Errorf("failed to count selections: %w", err)
	}

	// Aggregate by nominee name, first appearance fixing the slot
	index := make(map[string]int)
	for _, n := range nominations {
		i, seen := index[n.nomineeName]
		if !seen {
			i = len(result.VoteCounts)
			index[n.nomineeName] = i
			result.VoteCounts = append(result.VoteCounts, models.VoteCount{Name: n.nomineeName})
		}
		result.VoteCounts[i].Count += selectionCounts[n.id]
	}

	sort.SliceStable(result.VoteCounts, func(i, j int) bool {
		return result.VoteCounts[i].Count > result.VoteCounts[j].Count
	})

	if len(result.VoteCounts) > 0 {
		max := result.VoteCounts[0].Count
		if max > 0 {
			for _, vc := range result.VoteCounts {
				if vc.Count == max {
					result.Winners = append(result.Winners, vc.Name)
				}
			}
		}
	}

	result.NoneOfAboveCount, err = noneOfAboveCount(db, sessionID)
	if err != nil {
		return result, fmt.Errorf("failed to count empty ballots: %w", err)
	}

	return result, nil
}

type tallyNomination struct {
	id          string
	nomineeName string
}

// sessionNominations returns (id, nominee_name) pairs in insertion order.
func sessionNominations(db *sql.DB, sessionID string) ([]tallyNomination, error) {
	rows, err := db.Query(`
		SELECT id, nominee_name FROM nomination
		WHERE session_id = $1
		ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nominations []tallyNomination
	for rows.Next() {
		var n tallyNomination
		if err := rows.Scan(&n.id, &n.nomineeName); err != nil {
			return nil, err
		}
		nominations = append(nominations, n)
	}

	return nominations, rows.Err()
}

// selectionCounts returns how many ballots include each nomination.
func selectionCounts(db *sql.DB, sessionID string) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT vs.nomination_id, COUNT(*)
		FROM vote_selection vs
		JOIN vote v ON vs.vote_id = v.id
		WHERE v.session_id = $1
		GROUP BY vs.nomination_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var nominationID string
		var count int
		if err := rows.Scan(&nominationID, &count); err != nil {
			return nil, err
		}
		counts[nominationID] = count
	}

	return counts, rows.Err()
}

// noneOfAboveCount counts ballots whose selection set is empty.
func noneOfAboveCount(db *sql.DB, sessionID string) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM vote v
		WHERE v.session_id = $1
		  AND NOT EXISTS (SELECT 1 FROM vote_selection vs WHERE vs.vote_id = v.id)
	`, sessionID).Scan(&count)
	return count, err
}
