package game

// Fireflies and butterflies share one wall-hugging rule with opposite
// handedness; oranges wander randomly. All three explode on contact.

func (s *GameState) updateFirefly(index int, dir Direction) {
	newDir := rotateLeft[dir]
	if s.isTypeAdjacent(index, HiddenAgent) || s.isTypeAdjacent(index, HiddenBlob) {
		s.explode(index, explosionResidue(s.grid[index]), DirNoop)
	} else if s.isType(index, HiddenEmpty, newDir) {
		// Fireflies prefer to turn left, otherwise continue forward.
		s.setItem(index, fireflyFacing[newDir], DirNoop)
		s.moveItem(index, newDir)
	} else if s.isType(index, HiddenEmpty, dir) {
		s.setItem(index, fireflyFacing[dir], DirNoop)
		s.moveItem(index, dir)
	} else {
		// Boxed in: turn right in place.
		s.setItem(index, fireflyFacing[rotateRight[dir]], DirNoop)
	}
}

func (s *GameState) updateButterfly(index int, dir Direction) {
	newDir := rotateRight[dir]
	if s.isTypeAdjacent(index, HiddenAgent) || s.isTypeAdjacent(index, HiddenBlob) {
		s.explode(index, explosionResidue(s.grid[index]), DirNoop)
	} else if s.isType(index, HiddenEmpty, newDir) {
		// Butterflies prefer to turn right, otherwise continue forward.
		s.setItem(index, butterflyFacing[newDir], DirNoop)
		s.moveItem(index, newDir)
	} else if s.isType(index, HiddenEmpty, dir) {
		s.setItem(index, butterflyFacing[dir], DirNoop)
		s.moveItem(index, dir)
	} else {
		turned := rotateLeft[dir]
		s.setItem(index, butterflyFacing[turned], DirNoop)
		if s.butterflyMoveVer == ButterflyMoveInstant {
			s.moveItem(index, turned)
		}
	}
}

func (s *GameState) updateOrange(index int, dir Direction) {
	if s.isType(index, HiddenEmpty, dir) {
		s.moveItem(index, dir)
	} else if s.isTypeAdjacent(index, HiddenAgent) {
		s.explode(index, explosionResidue(s.grid[index]), DirNoop)
	} else {
		// Blocked: re-face uniformly at random among the open directions.
		var openDirs []Direction
		for d := range Direction(NumActions) {
			if s.isType(index, HiddenEmpty, d) {
				openDirs = append(openDirs, d)
			}
		}
		if len(openDirs) > 0 {
			newDir := openDirs[xorshift64(&s.randomState)%uint64(len(openDirs))]
			s.setItem(index, orangeFacing[newDir], DirNoop)
		}
	}
}
