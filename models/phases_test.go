package models

import "testing"

func TestTransitionTable_ForwardChain(t *testing.T) {
	for _, allowRollback := range []bool{true, false} {
		table := TransitionTable(allowRollback)

		forward := [][2]string{
			{PhaseSetup, PhaseNomination},
			{PhaseNomination, PhaseVoting},
			{PhaseVoting, PhaseResults},
			{PhaseResults, PhaseClosed},
		}
		for _, edge := range forward {
			if !CanTransition(table, edge[0], edge[1]) {
				t.Errorf("rollback=%v: expected %s → %s to be legal", allowRollback, edge[0], edge[1])
			}
		}

		// Skipping phases is never legal
		if CanTransition(table, PhaseSetup, PhaseVoting) {
			t.Errorf("rollback=%v: setup → voting should be illegal", allowRollback)
		}
		if CanTransition(table, PhaseNomination, PhaseClosed) {
			t.Errorf("rollback=%v: nomination → closed should be illegal", allowRollback)
		}
	}
}

func TestTransitionTable_RollbackEdges(t *testing.T) {
	backward := [][2]string{
		{PhaseNomination, PhaseSetup},
		{PhaseVoting, PhaseNomination},
		{PhaseResults, PhaseVoting},
	}

	withRollback := TransitionTable(true)
	for _, edge := range backward {
		if !CanTransition(withRollback, edge[0], edge[1]) {
			t.Errorf("expected %s → %s to be legal with rollback", edge[0], edge[1])
		}
	}

	forwardOnly := TransitionTable(false)
	for _, edge := range backward {
		if CanTransition(forwardOnly, edge[0], edge[1]) {
			t.Errorf("expected %s → %s to be illegal forward-only", edge[0], edge[1])
		}
	}
}

func TestTransitionTable_ClosedIsTerminal(t *testing.T) {
	for _, allowRollback := range []bool{true, false} {
		table := TransitionTable(allowRollback)
		if len(table[PhaseClosed]) != 0 {
			t.Errorf("rollback=%v: closed must have no outgoing edges, got %v", allowRollback, table[PhaseClosed])
		}
	}
}

func TestValidPhase(t *testing.T) {
	for _, p := range []string{PhaseSetup, PhaseNomination, PhaseVoting, PhaseResults, PhaseClosed} {
		if !ValidPhase(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []string{"", "open", "draft", "SETUP"} {
		if ValidPhase(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}
