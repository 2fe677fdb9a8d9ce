package game

import (
	"strconv"
	"strings"
	"testing"
)

// boardSpec assembles a board specification string from a cell slice.
func boardSpec(rows, cols, gems int, cells []HiddenCellType) string {
	fields := make([]string, 0, rows*cols+3)
	fields = append(fields, strconv.Itoa(rows), strconv.Itoa(cols), strconv.Itoa(gems))
	for _, k := range cells {
		fields = append(fields, strconv.Itoa(int(k)))
	}
	return strings.Join(fields, "|")
}

func mustState(t *testing.T, rows, cols, gems int, cells []HiddenCellType, params GameParameters) *GameState {
	t.Helper()
	s, err := NewGameState(boardSpec(rows, cols, gems, cells), params)
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}
	return s
}

func mustApply(t *testing.T, s *GameState, action Action) {
	t.Helper()
	if err := s.ApplyAction(action); err != nil {
		t.Fatalf("ApplyAction(%d): %v", action, err)
	}
}

func logTick(t *testing.T, name string, s *GameState) {
	t.Helper()
	t.Logf("=== %s ===\n%shash=%d reward=%d", name, s, s.Hash(), s.RewardSignal())
}

func gravityParams() GameParameters {
	p := DefaultParameters()
	p.Gravity = true
	return p
}

const (
	ag = HiddenAgent
	em = HiddenEmpty
	di = HiddenDirt
	st = HiddenStone
	dm = HiddenDiamond
	sw = HiddenWallSteel
)

func TestStone_StartsFallingAndMovesSameTick(t *testing.T) {
	// Stone over two empty cells; agent in the corner pushed out of bounds.
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		em, st, em,
		em, em, em,
		ag, em, em,
	}, gravityParams())

	mustApply(t, s, ActionLeft)
	logTick(t, "stone falls", s)

	if got, _ := s.HiddenItem(1); got != HiddenEmpty {
		t.Fatalf("origin cell = %d, want empty", got)
	}
	if got, _ := s.HiddenItem(4); got != HiddenStoneFalling {
		t.Fatalf("cell below = %d, want falling stone", got)
	}

	mustApply(t, s, ActionLeft)
	if got, _ := s.HiddenItem(7); got != HiddenStoneFalling {
		t.Fatalf("second tick: cell = %d, want falling stone", got)
	}

	mustApply(t, s, ActionLeft)
	if got, _ := s.HiddenItem(7); got != HiddenStone {
		t.Fatalf("stone on floor = %d, want stationary stone", got)
	}
}

func TestAgent_PushStoneIntoHole(t *testing.T) {
	// Pushing right into an empty cell with empty space below the stone's
	// destination: stone becomes falling there, agent takes its old cell.
	s := mustState(t, 3, 4, 0, []HiddenCellType{
		sw, sw, sw, sw,
		em, ag, st, em,
		sw, sw, sw, em,
	}, gravityParams())

	mustApply(t, s, ActionRight)
	logTick(t, "push stone", s)

	if s.AgentIndex() != 6 {
		t.Fatalf("agent index = %d, want 6", s.AgentIndex())
	}
	if got, _ := s.HiddenItem(6); got != HiddenAgent {
		t.Fatalf("agent cell = %d, want agent", got)
	}
	// The pushed stone had empty below its new cell, so it became falling
	// there. The push flags the destination updated, so it does not drop
	// until the next sweep.
	if got, _ := s.HiddenItem(7); got != HiddenStoneFalling {
		t.Fatalf("stone = %d at 7, want falling stone", got)
	}
	if got, _ := s.HiddenItem(11); got != HiddenEmpty {
		t.Fatalf("hole = %d at 11, want still empty", got)
	}

	mustApply(t, s, ActionLeft)
	logTick(t, "stone drops", s)

	if got, _ := s.HiddenItem(7); got != HiddenEmpty {
		t.Fatalf("vacated cell = %d at 7, want empty", got)
	}
	if got, _ := s.HiddenItem(11); got != HiddenStoneFalling {
		t.Fatalf("stone = %d at 11, want falling stone", got)
	}
}

func TestAgent_PushBlockedByOccupiedCell(t *testing.T) {
	s := mustState(t, 1, 4, 0, []HiddenCellType{
		ag, st, sw, em,
	}, DefaultParameters())

	before := s.Clone()
	mustApply(t, s, ActionRight)

	if s.AgentIndex() != before.AgentIndex() {
		t.Fatalf("agent moved on blocked push")
	}
	if got, _ := s.HiddenItem(1); got != HiddenStone {
		t.Fatalf("stone = %d, want unchanged stone", got)
	}
}

func TestAgent_CollectDiamondOpensExitSameTick(t *testing.T) {
	s := mustState(t, 1, 4, 1, []HiddenCellType{
		ag, dm, HiddenExitClosed, sw,
	}, DefaultParameters())

	mustApply(t, s, ActionRight)
	logTick(t, "collect diamond", s)

	if s.GemsCollected() != 1 {
		t.Fatalf("gems = %d, want 1", s.GemsCollected())
	}
	if !s.RewardSignal().Has(RewardCollectDiamond) {
		t.Fatalf("reward %d missing collect-diamond bit", s.RewardSignal())
	}
	// The exit rule runs later in the same sweep and sees the new count.
	if got, _ := s.HiddenItem(2); got != HiddenExitOpen {
		t.Fatalf("exit = %d, want open", got)
	}

	mustApply(t, s, ActionRight)
	if !s.IsSolution() || !s.IsTerminal() {
		t.Fatalf("agent in exit: solution=%v terminal=%v", s.IsSolution(), s.IsTerminal())
	}
	if !s.RewardSignal().Has(RewardWalkThroughExit) {
		t.Fatalf("reward %d missing exit bit", s.RewardSignal())
	}
	if got, _ := s.HiddenItem(2); got != HiddenAgentInExit {
		t.Fatalf("exit cell = %d, want agent-in-exit", got)
	}
}

func TestAgent_ExitStaysClosedWithoutGems(t *testing.T) {
	s := mustState(t, 1, 3, 1, []HiddenCellType{
		ag, HiddenExitClosed, dm,
	}, DefaultParameters())

	mustApply(t, s, ActionRight)
	if got, _ := s.HiddenItem(1); got != HiddenExitClosed {
		t.Fatalf("exit = %d, want still closed", got)
	}
	if s.AgentIndex() != 0 {
		t.Fatalf("agent index = %d, want 0 (move rejected)", s.AgentIndex())
	}
}

func TestAgent_KeyOpensAllMatchingGates(t *testing.T) {
	s := mustState(t, 1, 6, 0, []HiddenCellType{
		ag, HiddenKeyRed, HiddenGateRedClosed, em, HiddenGateRedClosed, HiddenGateBluClosed,
	}, DefaultParameters())

	mustApply(t, s, ActionRight)
	logTick(t, "collect key", s)

	if !s.RewardSignal().Has(RewardCollectKey | RewardCollectKeyRed) {
		t.Fatalf("reward %d missing key bits", s.RewardSignal())
	}
	if got, _ := s.HiddenItem(2); got != HiddenGateRedOpen {
		t.Fatalf("gate 2 = %d, want open", got)
	}
	if got, _ := s.HiddenItem(4); got != HiddenGateRedOpen {
		t.Fatalf("gate 4 = %d, want open", got)
	}
	if got, _ := s.HiddenItem(5); got != HiddenGateBluClosed {
		t.Fatalf("blue gate = %d, want still closed", got)
	}

	// Walking through the open gate lands the agent on the far side.
	mustApply(t, s, ActionRight)
	if s.AgentIndex() != 3 {
		t.Fatalf("agent index = %d, want 3 (through the gate)", s.AgentIndex())
	}
	if !s.RewardSignal().Has(RewardWalkThroughGate | RewardWalkThroughGateRed) {
		t.Fatalf("reward %d missing gate bits", s.RewardSignal())
	}
	if got, _ := s.HiddenItem(2); got != HiddenGateRedOpen {
		t.Fatalf("gate = %d, want still open after pass", got)
	}
}

func TestAgent_GateBlockedFarSideRejectsMove(t *testing.T) {
	s := mustState(t, 1, 3, 0, []HiddenCellType{
		ag, HiddenGateRedOpen, sw,
	}, DefaultParameters())

	mustApply(t, s, ActionRight)
	if s.AgentIndex() != 0 {
		t.Fatalf("agent index = %d, want 0 (blocked gate)", s.AgentIndex())
	}
}

func TestAgent_CollectsDiamondBeyondGate(t *testing.T) {
	s := mustState(t, 1, 3, 0, []HiddenCellType{
		ag, HiddenGateRedOpen, dm,
	}, DefaultParameters())

	mustApply(t, s, ActionRight)
	if s.AgentIndex() != 2 {
		t.Fatalf("agent index = %d, want 2", s.AgentIndex())
	}
	if s.GemsCollected() != 1 || !s.RewardSignal().Has(RewardCollectDiamond) {
		t.Fatalf("gems=%d reward=%d, want gem collected through gate",
			s.GemsCollected(), s.RewardSignal())
	}
}

func TestStoneFalling_CracksNutIntoDiamond(t *testing.T) {
	s := mustState(t, 3, 2, 0, []HiddenCellType{
		HiddenStoneFalling, ag,
		HiddenNut, em,
		sw, sw,
	}, gravityParams())

	mustApply(t, s, ActionUp)
	logTick(t, "crack nut", s)

	if got, _ := s.HiddenItem(2); got != HiddenDiamond {
		t.Fatalf("nut cell = %d, want diamond", got)
	}
	if got, _ := s.HiddenItem(0); got != HiddenStoneFalling {
		t.Fatalf("stone cell = %d, want falling stone resting", got)
	}
	if !s.RewardSignal().Has(RewardNutToDiamond) {
		t.Fatalf("reward %d missing nut bit", s.RewardSignal())
	}
}

func TestStoneFalling_DetonatesBomb(t *testing.T) {
	// Stone lands on a bomb surrounded by dirt: the bomb cell and its whole
	// 8-neighborhood (stone included) are consumed into empty residue.
	s := mustState(t, 4, 3, 0, []HiddenCellType{
		ag, HiddenStoneFalling, em,
		di, HiddenBomb, di,
		di, di, di,
		sw, sw, sw,
	}, gravityParams())

	mustApply(t, s, ActionUp)
	logTick(t, "bomb detonated", s)

	if got, _ := s.HiddenItem(4); got != HiddenExplosionEmpt {
		t.Fatalf("bomb cell = %d, want empty residue", got)
	}
	if got, _ := s.HiddenItem(1); got != HiddenExplosionEmpt {
		t.Fatalf("stone cell = %d, want consumed into residue", got)
	}
	if s.AgentAlive() {
		t.Fatalf("agent adjacent to the blast should die")
	}
	if !s.RewardSignal().Has(RewardAgentDies) {
		t.Fatalf("reward %d missing agent-dies bit", s.RewardSignal())
	}
}

func TestExplosionResidue_SettlesNextTick(t *testing.T) {
	s := mustState(t, 1, 4, 0, []HiddenCellType{
		ag, sw, HiddenExplosionDiam, HiddenExplosionBldr,
	}, DefaultParameters())

	mustApply(t, s, ActionLeft)
	if got, _ := s.HiddenItem(2); got != HiddenDiamond {
		t.Fatalf("diamond residue = %d, want diamond", got)
	}
	if got, _ := s.HiddenItem(3); got != HiddenStone {
		t.Fatalf("boulder residue = %d, want stone", got)
	}
	if !s.RewardSignal().Has(RewardButterflyToDiamond) {
		t.Fatalf("reward %d missing butterfly-to-diamond bit", s.RewardSignal())
	}
}

func TestStoneFalling_ConvertVersionCrushesButterfly(t *testing.T) {
	params := gravityParams()
	params.ButterflyExplosionVer = ButterflyConvert
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		em, HiddenStoneFalling, em,
		sw, HiddenButterflyDown, sw,
		ag, sw, sw,
	}, params)

	mustApply(t, s, ActionDown)
	logTick(t, "crush butterfly", s)

	if got, _ := s.HiddenItem(4); got != HiddenDiamond {
		t.Fatalf("butterfly cell = %d, want diamond", got)
	}
	if got, _ := s.HiddenItem(1); got != HiddenEmpty {
		t.Fatalf("stone cell = %d, want empty", got)
	}
	if !s.RewardSignal().Has(RewardButterflyToDiamond) {
		t.Fatalf("reward %d missing convert bit", s.RewardSignal())
	}
}

func TestStoneFalling_ExplodeVersionDetonatesButterfly(t *testing.T) {
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		em, HiddenStoneFalling, em,
		sw, HiddenButterflyDown, sw,
		ag, sw, sw,
	}, gravityParams())

	mustApply(t, s, ActionDown)
	logTick(t, "explode butterfly", s)

	// Butterflies leave diamond residue behind.
	if got, _ := s.HiddenItem(4); got != HiddenExplosionDiam {
		t.Fatalf("butterfly cell = %d, want diamond residue", got)
	}
}

func TestMagicWall_ConvertsStoneToDiamond(t *testing.T) {
	s := mustState(t, 4, 2, 0, []HiddenCellType{
		st, em,
		em, em,
		HiddenWallMagicDorm, em,
		em, ag,
	}, gravityParams())

	mustApply(t, s, ActionRight) // out of bounds for the agent
	logTick(t, "stone approaches wall", s)
	if got, _ := s.HiddenItem(2); got != HiddenStoneFalling {
		t.Fatalf("cell 2 = %d, want falling stone above the wall", got)
	}

	mustApply(t, s, ActionRight)
	logTick(t, "stone through wall", s)
	if got, _ := s.HiddenItem(2); got != HiddenEmpty {
		t.Fatalf("cell above wall = %d, want empty", got)
	}
	if got, _ := s.HiddenItem(6); got != HiddenDiamondFall {
		t.Fatalf("cell under wall = %d, want falling diamond", got)
	}
	if got, _ := s.HiddenItem(4); got != HiddenWallMagicOn {
		t.Fatalf("wall = %d, want active phase", got)
	}
}

func TestMagicWall_BlockedLandingKeepsObject(t *testing.T) {
	s := mustState(t, 4, 2, 0, []HiddenCellType{
		HiddenStoneFalling, em,
		HiddenWallMagicDorm, em,
		sw, em,
		em, ag,
	}, gravityParams())

	mustApply(t, s, ActionRight)
	if got, _ := s.HiddenItem(0); got != HiddenStoneFalling {
		t.Fatalf("stone = %d, want still above the wall", got)
	}
	// The attempt still activates the wall.
	if got, _ := s.HiddenItem(2); got != HiddenWallMagicOn {
		t.Fatalf("wall = %d, want active", got)
	}
}

func TestMagicWall_ExpiresAfterBudget(t *testing.T) {
	params := gravityParams()
	params.MagicWallSteps = 1
	s := mustState(t, 4, 2, 0, []HiddenCellType{
		HiddenStoneFalling, em,
		HiddenWallMagicDorm, em,
		em, em,
		em, ag,
	}, params)

	mustApply(t, s, ActionRight)
	if got, _ := s.HiddenItem(4); got != HiddenDiamondFall {
		t.Fatalf("cell under wall = %d, want converted diamond", got)
	}

	// Budget hit zero at end of tick; the wall is expired from here on.
	mustApply(t, s, ActionRight)
	if got, _ := s.HiddenItem(2); got != HiddenWallMagicExp {
		t.Fatalf("wall = %d, want expired", got)
	}
}

func TestFirefly_PrefersHandedTurn(t *testing.T) {
	// Facing up with an empty cell on its left: it must rotate left and move
	// there, deterministically (firefly movement consumes no RNG).
	s := mustState(t, 3, 4, 0, []HiddenCellType{
		em, em, em, em,
		em, em, HiddenFireflyUp, em,
		ag, em, em, em,
	}, DefaultParameters())

	rngBefore := s.Pack().RandomState
	mustApply(t, s, ActionLeft)
	logTick(t, "firefly turns", s)

	if got, _ := s.HiddenItem(5); got != HiddenFireflyLeft {
		t.Fatalf("cell 5 = %d, want firefly facing left", got)
	}
	if got, _ := s.HiddenItem(6); got != HiddenEmpty {
		t.Fatalf("old cell = %d, want empty", got)
	}
	if s.Pack().RandomState != rngBefore {
		t.Fatalf("firefly movement consumed RNG")
	}
}

func TestFirefly_BoxedInRotatesRight(t *testing.T) {
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		sw, HiddenFireflyUp, sw,
		sw, sw, ag,
	}, DefaultParameters())

	// Agent is diagonal to the firefly, so it does not explode.
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenFireflyRight {
		t.Fatalf("firefly = %d, want rotated right in place", got)
	}
}

func TestFirefly_ExplodesNextToAgent(t *testing.T) {
	// Agent is pinned against the wall so it is still adjacent when the
	// firefly's rule runs.
	s := mustState(t, 1, 4, 0, []HiddenCellType{
		sw, ag, HiddenFireflyUp, em,
	}, DefaultParameters())

	mustApply(t, s, ActionLeft)
	if s.AgentAlive() {
		t.Fatalf("agent should be caught in the firefly explosion")
	}
	if got, _ := s.HiddenItem(2); got != HiddenExplosionEmpt {
		t.Fatalf("firefly cell = %d, want empty residue", got)
	}
}

func TestButterfly_InstantMoveVersion(t *testing.T) {
	// Boxed in except behind: delayed version only rotates, instant version
	// rotates and moves in the same tick.
	cells := []HiddenCellType{
		sw, sw, sw, em,
		em, HiddenButterflyUp, sw, ag,
		sw, sw, sw, em,
	}

	delayed := mustState(t, 3, 4, 0, cells, DefaultParameters())
	mustApply(t, delayed, ActionUp)
	if got, _ := delayed.HiddenItem(5); got != HiddenButterflyLeft {
		t.Fatalf("delayed: butterfly = %d, want rotated left in place", got)
	}

	params := DefaultParameters()
	params.ButterflyMoveVer = ButterflyMoveInstant
	instant := mustState(t, 3, 4, 0, cells, params)
	mustApply(t, instant, ActionUp)
	if got, _ := instant.HiddenItem(4); got != HiddenButterflyLeft {
		t.Fatalf("instant: cell 4 = %d, want butterfly moved left", got)
	}
	if got, _ := instant.HiddenItem(5); got != HiddenEmpty {
		t.Fatalf("instant: old cell = %d, want empty", got)
	}
}

func TestOrange_MovesStraightIntoEmpty(t *testing.T) {
	s := mustState(t, 1, 4, 0, []HiddenCellType{
		HiddenOrangeRight, em, em, ag,
	}, DefaultParameters())

	mustApply(t, s, ActionRight) // out of bounds for the agent
	if got, _ := s.HiddenItem(1); got != HiddenOrangeRight {
		t.Fatalf("cell 1 = %d, want orange moved right", got)
	}
}

func TestOrange_BlockedRefacesTowardOpenCell(t *testing.T) {
	// Only one open direction, so the random re-face is deterministic.
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		em, HiddenOrangeUp, sw,
		sw, sw, ag,
	}, DefaultParameters())

	rngBefore := s.Pack().RandomState
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenOrangeLeft {
		t.Fatalf("orange = %d, want re-faced left", got)
	}
	if s.Pack().RandomState == rngBefore {
		t.Fatalf("re-facing should consume an RNG draw")
	}
}

func TestOrange_SealedInKeepsFacingWithoutRNG(t *testing.T) {
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		sw, HiddenOrangeUp, sw,
		sw, sw, ag,
	}, DefaultParameters())

	rngBefore := s.Pack().RandomState
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenOrangeUp {
		t.Fatalf("orange = %d, want unchanged facing", got)
	}
	if s.Pack().RandomState != rngBefore {
		t.Fatalf("sealed-in orange must not consume RNG")
	}
}

func TestBlob_ChanceZeroNeverGrows(t *testing.T) {
	params := DefaultParameters()
	params.BlobChance = 0
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		sw, HiddenBlob, di,
		sw, sw, ag,
	}, params)

	for i := 0; i < 5; i++ {
		mustApply(t, s, ActionDown)
		if got, _ := s.HiddenItem(4); got != HiddenBlob {
			t.Fatalf("tick %d: blob = %d, want unchanged blob", i, got)
		}
		if got, _ := s.HiddenItem(5); got != HiddenDirt {
			t.Fatalf("tick %d: neighbor = %d, want untouched dirt", i, got)
		}
	}
}

func TestBlob_SealedInDiesIntoDiamonds(t *testing.T) {
	params := DefaultParameters()
	params.BlobChance = 0
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		sw, HiddenBlob, sw,
		sw, sw, ag,
	}, params)

	// First tick decides the swap target (no empty/dirt neighbor all tick);
	// the second applies it.
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenBlob {
		t.Fatalf("blob = %d, want still blob on the deciding tick", got)
	}
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenDiamond {
		t.Fatalf("blob = %d, want diamond after sealed-in death", got)
	}
}

func TestBlob_OversizeDiesIntoStones(t *testing.T) {
	// Max size 0 forces the oversize rule on the first tick even though the
	// blob can still grow.
	params := DefaultParameters()
	params.BlobChance = 0
	params.BlobMaxPercentage = 0
	s := mustState(t, 3, 3, 0, []HiddenCellType{
		sw, sw, sw,
		sw, HiddenBlob, di,
		sw, sw, ag,
	}, params)

	mustApply(t, s, ActionDown)
	mustApply(t, s, ActionDown)
	if got, _ := s.HiddenItem(4); got != HiddenStone {
		t.Fatalf("blob = %d, want stone after oversize death", got)
	}
}

func TestNoopAction_LeavesStateUnchanged(t *testing.T) {
	s := mustState(t, 2, 2, 3, []HiddenCellType{
		ag, sw,
		sw, sw,
	}, DefaultParameters())
	mustApply(t, s, ActionDown) // settle first-tick bookkeeping
	before := s.Clone()

	mustApply(t, s, ActionUp) // out of bounds
	if s.Hash() != before.Hash() {
		t.Fatalf("hash changed on no-op: %d != %d", s.Hash(), before.Hash())
	}
	if s.AgentIndex() != before.AgentIndex() || s.GemsCollected() != before.GemsCollected() {
		t.Fatalf("counters changed on no-op")
	}
	for i := 0; i < s.Rows()*s.Cols(); i++ {
		got, _ := s.HiddenItem(i)
		want, _ := before.HiddenItem(i)
		if got != want {
			t.Fatalf("grid changed at %d: %d != %d", i, got, want)
		}
	}
	if s.RewardSignal() != 0 {
		t.Fatalf("reward = %d, want cleared", s.RewardSignal())
	}
}

func TestInvalidAction_Rejected(t *testing.T) {
	s := mustState(t, 1, 2, 0, []HiddenCellType{ag, em}, DefaultParameters())
	before := s.Clone()

	if err := s.ApplyAction(Action(7)); err == nil {
		t.Fatalf("expected error for action 7")
	}
	if !s.Equal(before) {
		t.Fatalf("state mutated by rejected action")
	}
}
