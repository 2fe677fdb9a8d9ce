package game

import "testing"

// The incremental hash must track full recomputation through every kind of
// mutation: movement, collection, explosions, RNG-driven growth.
func TestHash_IncrementalMatchesRecompute(t *testing.T) {
	params := gravityParams()
	params.BlobChance = 128
	s := mustState(t, 4, 5, 1, []HiddenCellType{
		em, st, em, di, di,
		ag, dm, di, HiddenBomb, di,
		di, HiddenBlob, di, HiddenButterflyUp, di,
		di, di, di, di, HiddenExitClosed,
	}, params)

	if s.Hash() != s.RecomputeHash() {
		t.Fatalf("initial: %d != %d", s.Hash(), s.RecomputeHash())
	}

	actions := []Action{ActionRight, ActionRight, ActionDown, ActionLeft, ActionUp, ActionDown, ActionRight}
	for i, act := range actions {
		mustApply(t, s, act)
		if s.Hash() != s.RecomputeHash() {
			t.Fatalf("after action %d: incremental %d != recompute %d\n%s",
				i, s.Hash(), s.RecomputeHash(), s)
		}
		if s.IsTerminal() {
			break
		}
	}
}

func TestHash_SameBoardSameHash(t *testing.T) {
	cells := []HiddenCellType{ag, dm, di, em}
	a := mustState(t, 2, 2, 1, cells, DefaultParameters())
	b := mustState(t, 2, 2, 1, cells, DefaultParameters())
	if a.Hash() != b.Hash() {
		t.Fatalf("identical boards hash differently: %d != %d", a.Hash(), b.Hash())
	}

	swapped := mustState(t, 2, 2, 1, []HiddenCellType{ag, di, dm, em}, DefaultParameters())
	if a.Hash() == swapped.Hash() {
		t.Fatalf("different boards share a hash")
	}
}
