package game

import "fmt"

// ApplyAction advances the whole board by one synchronized tick. The agent
// resolves first, then a single increasing-index sweep applies the rule for
// every cell not already updated this tick. An object moved into a cell by an
// earlier rule in the same sweep does not act again from its new cell.
func (s *GameState) ApplyAction(action Action) error {
	if !IsValidAction(int(action)) {
		return fmt.Errorf("%w: action %d", ErrInvalidArgument, int(action))
	}
	s.startScan()

	s.updateAgent(s.agentIdx, Direction(action))

	for i := range s.rows * s.cols {
		if s.hasUpdated[i] {
			continue
		}
		switch kind := s.grid[i]; kind {
		case HiddenStone:
			s.updateStone(i)
		case HiddenStoneFalling:
			s.updateStoneFalling(i)
		case HiddenDiamond:
			s.updateDiamond(i)
		case HiddenDiamondFall:
			s.updateDiamondFalling(i)
		case HiddenNut:
			s.updateNut(i)
		case HiddenNutFalling:
			s.updateNutFalling(i)
		case HiddenBomb:
			s.updateBomb(i)
		case HiddenBombFalling:
			s.updateBombFalling(i)
		case HiddenExitClosed:
			s.updateExit(i)
		case HiddenBlob:
			s.updateBlob(i)
		default:
			switch {
			case isButterfly(kind):
				s.updateButterfly(i, butterflyDirection(kind))
			case isFirefly(kind):
				s.updateFirefly(i, fireflyDirection(kind))
			case isOrange(kind):
				s.updateOrange(i, orangeDirection(kind))
			case isMagicWall(kind):
				s.updateMagicWall(i)
			case isExplosion(kind):
				s.updateExplosionResidue(i)
			}
		}
	}

	s.endScan()
	return nil
}

// startScan resets the per-tick bookkeeping.
func (s *GameState) startScan() {
	s.blobSize = 0
	s.blobEnclosed = true
	s.rewardSignal = 0
	for i := range s.hasUpdated {
		s.hasUpdated[i] = false
	}
}

// endScan finalizes blob and magic-wall bookkeeping. A blob sealed off from
// every empty/dirt cell dies into diamonds; a blob past its size cap dies
// into stones. Once decided, the swap target is irreversible.
func (s *GameState) endScan() {
	if s.blobSwap == HiddenNull {
		if s.blobEnclosed {
			s.blobSwap = HiddenDiamond
		}
		if s.blobSize > s.blobMaxSize {
			s.blobSwap = HiddenStone
		}
	}
	if s.magicActive {
		s.magicWallSteps = max(s.magicWallSteps-1, 0)
	}
	s.magicActive = s.magicActive && s.magicWallSteps > 0
}
