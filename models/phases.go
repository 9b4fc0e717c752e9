// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Session phase constants
const (
	PhaseSetup      = "setup"
	PhaseNomination = "nomination"
	PhaseVoting     = "voting"
	PhaseResults    = "results"
	PhaseClosed     = "closed"
)

// ValidPhase reports whether p names one of the five session phases.
func ValidPhase(p string) bool {
	switch p {
	case PhaseSetup, PhaseNomination, PhaseVoting, PhaseResults, PhaseClosed:
		return true
	}
	return false
}

// TransitionTable returns the directed phase-transition graph. The forward
// chain setup → nomination → voting → results → closed is always present;
// allowRollback adds the backward edges used to reopen a phase mid-meeting.
// Closed has no outgoing edges under either policy.
func TransitionTable(allowRollback bool) map[string][]string {
	table := map[string][]string{
		PhaseSetup:      {PhaseNomination},
		PhaseNomination: {PhaseVoting},
		PhaseVoting:     {PhaseResults},
		PhaseResults:    {PhaseClosed},
		PhaseClosed:     {},
	}
	if allowRollback {
		table[PhaseNomination] = append(table[PhaseNomination], PhaseSetup)
		table[PhaseVoting] = append(table[PhaseVoting], PhaseNomination)
		table[PhaseResults] = append(table[PhaseResults], PhaseVoting)
	}
	return table
}

// CanTransition reports whether from → to is an edge in table.
func CanTransition(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
