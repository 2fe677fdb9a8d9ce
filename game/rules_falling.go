package game

// Gravity-driven objects: stone, diamond, nut and bomb, each with a
// stationary and a falling variant. A stationary object that starts to fall
// runs its falling rule immediately, so it already moves one row in the tick
// the fall begins.

func (s *GameState) canRollLeft(index int) bool {
	return s.hasProperty(index, PropRounded, DirDown) &&
		s.isType(index, HiddenEmpty, DirLeft) && s.isType(index, HiddenEmpty, DirDownLeft)
}

func (s *GameState) canRollRight(index int) bool {
	return s.hasProperty(index, PropRounded, DirDown) &&
		s.isType(index, HiddenEmpty, DirRight) && s.isType(index, HiddenEmpty, DirDownRight)
}

func (s *GameState) rollLeft(index int, kind HiddenCellType) {
	s.setItem(index, kind, DirNoop)
	s.moveItem(index, DirLeft)
}

func (s *GameState) rollRight(index int, kind HiddenCellType) {
	s.setItem(index, kind, DirNoop)
	s.moveItem(index, DirRight)
}

// moveThroughMagic teleports a falling object through the magic wall below
// it, converted per the wall's transmutation table, into the cell two rows
// down. A blocked landing cell leaves the object where it is. Passing through
// activates the wall for the rest of the tick.
func (s *GameState) moveThroughMagic(index int, converted HiddenCellType) {
	if s.magicWallSteps <= 0 {
		return
	}
	s.magicActive = true
	wallIdx := s.indexFromDirection(index, DirDown)
	underIdx := s.indexFromDirection(wallIdx, DirDown)
	if s.isType(underIdx, HiddenEmpty, DirNoop) {
		s.setItem(index, HiddenEmpty, DirNoop)
		s.setItem(underIdx, converted, DirNoop)
	}
}

func (s *GameState) updateStone(index int) {
	if !s.gravity {
		return
	}
	if s.isType(index, HiddenEmpty, DirDown) {
		s.setItem(index, HiddenStoneFalling, DirNoop)
		s.updateStoneFalling(index)
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenStoneFalling)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenStoneFalling)
	}
}

func (s *GameState) updateStoneFalling(index int) {
	if s.isType(index, HiddenEmpty, DirDown) {
		s.moveItem(index, DirDown)
	} else if s.butterflyExplosionVer == ButterflyConvert && isButterfly(s.getItem(index, DirDown).Kind) {
		// Crush the butterfly into a diamond instead of exploding it.
		s.setItem(index, HiddenEmpty, DirNoop)
		s.setItem(index, HiddenDiamond, DirDown)
		s.rewardSignal |= RewardButterflyToDiamond
	} else if s.hasProperty(index, PropCanExplode, DirDown) {
		s.explode(index, explosionResidue(s.getItem(index, DirDown).Kind), DirDown)
	} else if s.isType(index, HiddenWallMagicOn, DirDown) || s.isType(index, HiddenWallMagicDorm, DirDown) {
		s.moveThroughMagic(index, magicConversion(s.grid[index]))
	} else if s.isType(index, HiddenNut, DirDown) {
		// Crack the nut open to reveal a diamond.
		s.setItem(index, HiddenDiamond, DirDown)
		s.rewardSignal |= RewardNutToDiamond
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenStoneFalling)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenStoneFalling)
	} else {
		s.setItem(index, HiddenStone, DirNoop)
	}
}

func (s *GameState) updateDiamond(index int) {
	if !s.gravity {
		return
	}
	if s.isType(index, HiddenEmpty, DirDown) {
		s.setItem(index, HiddenDiamondFall, DirNoop)
		s.updateDiamondFalling(index)
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenDiamondFall)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenDiamondFall)
	}
}

func (s *GameState) updateDiamondFalling(index int) {
	if s.isType(index, HiddenEmpty, DirDown) {
		s.moveItem(index, DirDown)
	} else if s.hasProperty(index, PropCanExplode, DirDown) &&
		!s.isType(index, HiddenBomb, DirDown) && !s.isType(index, HiddenBombFalling, DirDown) {
		// Diamonds set off creatures but never bombs.
		s.explode(index, explosionResidue(s.getItem(index, DirDown).Kind), DirDown)
	} else if s.isType(index, HiddenWallMagicOn, DirDown) || s.isType(index, HiddenWallMagicDorm, DirDown) {
		s.moveThroughMagic(index, magicConversion(s.grid[index]))
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenDiamondFall)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenDiamondFall)
	} else {
		s.setItem(index, HiddenDiamond, DirNoop)
	}
}

func (s *GameState) updateNut(index int) {
	if !s.gravity {
		return
	}
	if s.isType(index, HiddenEmpty, DirDown) {
		s.setItem(index, HiddenNutFalling, DirNoop)
		s.updateNutFalling(index)
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenNutFalling)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenNutFalling)
	}
}

func (s *GameState) updateNutFalling(index int) {
	if s.isType(index, HiddenEmpty, DirDown) {
		s.moveItem(index, DirDown)
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenNutFalling)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenNutFalling)
	} else {
		s.setItem(index, HiddenNut, DirNoop)
	}
}

func (s *GameState) updateBomb(index int) {
	if !s.gravity {
		return
	}
	if s.isType(index, HiddenEmpty, DirDown) {
		s.setItem(index, HiddenBombFalling, DirNoop)
		s.updateBombFalling(index)
	} else if s.canRollLeft(index) {
		// Bombs roll without arming; they keep the stationary kind.
		s.rollLeft(index, HiddenBomb)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenBomb)
	}
}

func (s *GameState) updateBombFalling(index int) {
	if s.isType(index, HiddenEmpty, DirDown) {
		s.moveItem(index, DirDown)
	} else if s.canRollLeft(index) {
		s.rollLeft(index, HiddenBombFalling)
	} else if s.canRollRight(index) {
		s.rollRight(index, HiddenBombFalling)
	} else if !s.disableExplosions {
		// A bomb coming to rest detonates rather than settling.
		s.explode(index, explosionResidue(s.grid[index]), DirNoop)
	}
}
