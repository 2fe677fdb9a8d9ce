package game

// Explosion propagation, explosion residue settling, the magic wall phase
// rule, and blob growth.

// explode detonates the cell one step in dir from index, writing residue
// there, then chains through every can-explode neighbor and consumes every
// consumable one. Recursion terminates because exploded cells become inert
// residue kinds carrying neither flag; depth is bounded by the grid diameter.
func (s *GameState) explode(index int, residue HiddenCellType, dir Direction) {
	newIndex := s.indexFromDirection(index, dir)
	chained := explosionResidue(s.grid[newIndex])
	if s.grid[newIndex] == HiddenAgent {
		s.agentAlive = false
		s.rewardSignal |= RewardAgentDies
	}
	s.setItem(newIndex, residue, DirNoop)
	for d := range Direction(NumDirections) {
		if d == DirNoop || !s.inBounds(newIndex, d) {
			continue
		}
		if s.hasProperty(newIndex, PropCanExplode, d) {
			s.explode(newIndex, chained, d)
		} else if s.hasProperty(newIndex, PropConsumable, d) {
			if s.getItem(newIndex, d).Kind == HiddenAgent {
				s.agentAlive = false
				s.rewardSignal |= RewardAgentDies
			}
			s.setItem(newIndex, chained, d)
		}
	}
}

// updateExplosionResidue settles a residue cell into its final inert form,
// crediting the reward bit for what was destroyed.
func (s *GameState) updateExplosionResidue(index int) {
	s.rewardSignal |= explosionReward(s.grid[index])
	s.setItem(index, explosionSettle(s.grid[index]), DirNoop)
}

// updateMagicWall keeps the wall cell's phase in sync with the shared
// dormant/active/expired bookkeeping.
func (s *GameState) updateMagicWall(index int) {
	switch {
	case s.magicActive:
		s.setItem(index, HiddenWallMagicOn, DirNoop)
	case s.magicWallSteps > 0:
		s.setItem(index, HiddenWallMagicDorm, DirNoop)
	default:
		s.setItem(index, HiddenWallMagicExp, DirNoop)
	}
}

const blobChanceBase = 256

// updateBlob grows the blob stochastically, or rewrites it to the decided
// swap target once the blob has died (sealed in or overgrown).
func (s *GameState) updateBlob(index int) {
	if s.blobSwap != HiddenNull {
		s.setItem(index, s.blobSwap, DirNoop)
		return
	}
	s.blobSize++
	if s.isTypeAdjacent(index, HiddenEmpty) || s.isTypeAdjacent(index, HiddenDirt) {
		s.blobEnclosed = false
	}
	// Two draws per cell per tick: grow chance, then direction.
	willGrow := xorshift64(&s.randomState)%blobChanceBase < uint64(s.blobChance)
	growDir := Direction(xorshift64(&s.randomState) % NumActions)
	if willGrow && (s.isType(index, HiddenEmpty, growDir) || s.isType(index, HiddenDirt, growDir)) {
		// Growth is additive; the original cell stays blob.
		s.setItem(index, HiddenBlob, growDir)
	}
}
