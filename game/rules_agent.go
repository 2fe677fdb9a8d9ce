package game

// updateAgent resolves the requested move. Exactly one call per tick, before
// the sweep.
func (s *GameState) updateAgent(index int, dir Direction) {
	if !s.inBounds(index, dir) {
		return
	}

	switch {
	case s.isType(index, HiddenEmpty, dir) || s.isType(index, HiddenDirt, dir):
		// Dirt is consumed by walking through it.
		s.moveItem(index, dir)
		s.agentIdx = s.indexFromDirection(index, dir)
	case s.isType(index, HiddenDiamond, dir) || s.isType(index, HiddenDiamondFall, dir):
		s.gemsCollected++
		s.rewardSignal |= RewardCollectDiamond
		s.moveItem(index, dir)
		s.agentIdx = s.indexFromDirection(index, dir)
	case isHorizontal(dir) && s.hasProperty(index, PropPushable, dir):
		target := s.getItem(index, dir).Kind
		s.push(index, target, fallingVariant(target), dir)
	case isKey(s.getItem(index, dir).Kind):
		key := s.getItem(index, dir).Kind
		s.openGate(keyToClosedGate(key))
		s.moveItem(index, dir)
		s.agentIdx = s.indexFromDirection(index, dir)
		s.rewardSignal |= RewardCollectKey | keyReward(key)
	case isOpenGate(s.getItem(index, dir).Kind):
		s.walkThroughGate(index, dir)
	case s.isType(index, HiddenExitOpen, dir):
		s.moveItem(index, dir)
		s.setItem(index, HiddenAgentInExit, dir)
		s.agentIdx = s.indexFromDirection(index, dir)
		s.agentInExit = true
		s.rewardSignal |= RewardWalkThroughExit
	}
}

// push shoves a pushable object one cell further in dir, provided that cell
// is empty, then moves the agent into the vacated cell. The object becomes
// falling when the cell below its destination is empty.
func (s *GameState) push(index int, stationary, falling HiddenCellType, dir Direction) {
	newIndex := s.indexFromDirection(index, dir)
	if !s.isType(newIndex, HiddenEmpty, dir) {
		return
	}
	nextIndex := s.indexFromDirection(newIndex, dir)
	isEmpty := s.isType(nextIndex, HiddenEmpty, DirDown)
	s.moveItem(newIndex, dir)
	if isEmpty {
		s.setItem(nextIndex, falling, DirNoop)
	} else {
		s.setItem(nextIndex, stationary, DirNoop)
	}
	s.moveItem(index, dir)
	s.agentIdx = s.indexFromDirection(index, dir)
}

// walkThroughGate moves the agent across an open gate onto the traversable
// cell beyond it, collecting whatever was there. A blocked far side rejects
// the move.
func (s *GameState) walkThroughGate(index int, dir Direction) {
	gateIdx := s.indexFromDirection(index, dir)
	if !s.hasProperty(gateIdx, PropTraversable, dir) {
		return
	}
	if s.isType(gateIdx, HiddenDiamond, dir) || s.isType(gateIdx, HiddenDiamondFall, dir) {
		s.gemsCollected++
		s.rewardSignal |= RewardCollectDiamond
	} else if far := s.getItem(gateIdx, dir).Kind; isKey(far) {
		s.openGate(keyToClosedGate(far))
		s.rewardSignal |= RewardCollectKey | keyReward(far)
	}
	s.setItem(gateIdx, HiddenAgent, dir)
	s.setItem(index, HiddenEmpty, DirNoop)
	s.agentIdx = s.indexFromDirection(gateIdx, dir)
	s.rewardSignal |= RewardWalkThroughGate | gateReward(s.getItem(gateIdx, DirNoop).Kind)
}

// openGate opens every gate of the given closed color board-wide.
func (s *GameState) openGate(closed HiddenCellType) {
	for i := range s.rows * s.cols {
		if s.grid[i] == closed {
			s.setItem(i, openGateVariant(closed), DirNoop)
		}
	}
}

// updateExit flips the closed exit open once enough gems are collected. Once
// open it never closes.
func (s *GameState) updateExit(index int) {
	if s.gemsCollected >= s.gemsRequired {
		s.setItem(index, HiddenExitOpen, DirNoop)
	}
}
