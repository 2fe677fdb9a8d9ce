package game

// Action is one of the four agent moves. Action codes double as the first
// four Direction values.
type Action int

const (
	ActionUp Action = iota
	ActionRight
	ActionDown
	ActionLeft
)

// NumActions is the size of the action space.
const NumActions = 4

// IsValidAction reports whether code is a valid action.
func IsValidAction(code int) bool {
	return code >= 0 && code < NumActions
}

// Direction indexes the 9-neighborhood of a cell: the four agent directions,
// a no-op, and the four diagonals. Diagonals exist only for adjacency queries
// (roll safety, explosion spread), never for agent movement.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
	DirNoop
	DirUpRight
	DirDownRight
	DirDownLeft
	DirUpLeft
)

// NumDirections is the size of the full direction set.
const NumDirections = 9

// directionOffsets holds (col, row) deltas indexed by Direction.
var directionOffsets = [NumDirections][2]int{
	DirUp:        {0, -1},
	DirRight:     {1, 0},
	DirDown:      {0, 1},
	DirLeft:      {-1, 0},
	DirNoop:      {0, 0},
	DirUpRight:   {1, -1},
	DirDownRight: {1, 1},
	DirDownLeft:  {-1, 1},
	DirUpLeft:    {-1, -1},
}

// rotateLeft and rotateRight turn an orthogonal facing 90 degrees.
var rotateLeft = [NumActions]Direction{
	DirUp:    DirLeft,
	DirLeft:  DirDown,
	DirDown:  DirRight,
	DirRight: DirUp,
}

var rotateRight = [NumActions]Direction{
	DirUp:    DirRight,
	DirRight: DirDown,
	DirDown:  DirLeft,
	DirLeft:  DirUp,
}

func isHorizontal(dir Direction) bool {
	return dir == DirLeft || dir == DirRight
}

// Facing conversion tables for the directional creatures.
var fireflyFacing = [NumActions]HiddenCellType{
	DirUp:    HiddenFireflyUp,
	DirRight: HiddenFireflyRight,
	DirDown:  HiddenFireflyDown,
	DirLeft:  HiddenFireflyLeft,
}

var butterflyFacing = [NumActions]HiddenCellType{
	DirUp:    HiddenButterflyUp,
	DirRight: HiddenButterflyRt,
	DirDown:  HiddenButterflyDown,
	DirLeft:  HiddenButterflyLeft,
}

var orangeFacing = [NumActions]HiddenCellType{
	DirUp:    HiddenOrangeUp,
	DirRight: HiddenOrangeRight,
	DirDown:  HiddenOrangeDown,
	DirLeft:  HiddenOrangeLeft,
}

func fireflyDirection(k HiddenCellType) Direction {
	switch k {
	case HiddenFireflyUp:
		return DirUp
	case HiddenFireflyLeft:
		return DirLeft
	case HiddenFireflyDown:
		return DirDown
	default:
		return DirRight
	}
}

func butterflyDirection(k HiddenCellType) Direction {
	switch k {
	case HiddenButterflyUp:
		return DirUp
	case HiddenButterflyLeft:
		return DirLeft
	case HiddenButterflyDown:
		return DirDown
	default:
		return DirRight
	}
}

func orangeDirection(k HiddenCellType) Direction {
	switch k {
	case HiddenOrangeUp:
		return DirUp
	case HiddenOrangeLeft:
		return DirLeft
	case HiddenOrangeDown:
		return DirDown
	default:
		return DirRight
	}
}
