package game

// Grid access and the two mutators. SetItem and MoveItem are the only writes
// to the grid; both fold the change into the running hash and mark the
// destination cell as updated for the current tick. No rule may write the
// grid any other way, or the incremental hash diverges from a full rescan.

// indexFromDirection computes the neighbor flat index for a direction. It
// performs no bounds check; callers pair it with inBounds.
func (s *GameState) indexFromDirection(index int, dir Direction) int {
	switch dir {
	case DirNoop:
		return index
	case DirUp:
		return index - s.cols
	case DirRight:
		return index + 1
	case DirDown:
		return index + s.cols
	case DirLeft:
		return index - 1
	case DirUpRight:
		return index - s.cols + 1
	case DirDownRight:
		return index + s.cols + 1
	case DirUpLeft:
		return index - s.cols - 1
	default: // DirDownLeft
		return index + s.cols - 1
	}
}

// inBounds reports whether the neighbor of index in dir lies on the board.
func (s *GameState) inBounds(index int, dir Direction) bool {
	col := index % s.cols
	row := (index - col) / s.cols
	off := directionOffsets[dir]
	col += off[0]
	row += off[1]
	return col >= 0 && col < s.cols && row >= 0 && row < s.rows
}

// isType reports whether the neighbor in dir holds kind. False when out of
// bounds.
func (s *GameState) isType(index int, kind HiddenCellType, dir Direction) bool {
	return s.inBounds(index, dir) && s.grid[s.indexFromDirection(index, dir)] == kind
}

// hasProperty reports whether the neighbor in dir carries every bit of
// property. False when out of bounds.
func (s *GameState) hasProperty(index int, property int, dir Direction) bool {
	if !s.inBounds(index, dir) {
		return false
	}
	return Lookup(s.grid[s.indexFromDirection(index, dir)]).Properties&property > 0
}

// getItem returns the catalog entry of the neighbor in dir. No bounds check.
func (s *GameState) getItem(index int, dir Direction) Element {
	return Lookup(s.grid[s.indexFromDirection(index, dir)])
}

// setItem writes kind into the neighbor in dir, updating the hash and
// flagging the cell as updated this tick.
func (s *GameState) setItem(index int, kind HiddenCellType, dir Direction) {
	newIndex := s.indexFromDirection(index, dir)
	flatSize := s.rows * s.cols
	s.hash ^= localHash(flatSize, s.grid[newIndex], newIndex)
	s.grid[newIndex] = kind
	s.hash ^= localHash(flatSize, kind, newIndex)
	s.hasUpdated[newIndex] = true
}

// moveItem moves the occupant of index one cell in dir, leaving empty behind.
// Only the destination is flagged updated: the vacated cell may legitimately
// be filled and acted on later in the same sweep.
func (s *GameState) moveItem(index int, dir Direction) {
	newIndex := s.indexFromDirection(index, dir)
	flatSize := s.rows * s.cols
	s.hash ^= localHash(flatSize, s.grid[newIndex], newIndex)
	s.grid[newIndex] = s.grid[index]
	s.hash ^= localHash(flatSize, s.grid[newIndex], newIndex)

	s.hash ^= localHash(flatSize, s.grid[index], index)
	s.grid[index] = HiddenEmpty
	s.hash ^= localHash(flatSize, HiddenEmpty, index)

	s.hasUpdated[newIndex] = true
}

// isTypeAdjacent reports whether any 4-neighbor of index holds kind.
func (s *GameState) isTypeAdjacent(index int, kind HiddenCellType) bool {
	return s.isType(index, kind, DirUp) || s.isType(index, kind, DirLeft) ||
		s.isType(index, kind, DirDown) || s.isType(index, kind, DirRight)
}
