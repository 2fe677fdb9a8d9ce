package game

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced across the package boundary.
var (
	// ErrInvalidBoard is returned when a board specification cannot be
	// turned into a consistent state. No partial state is ever returned.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrInvalidArgument is returned for out-of-range indices, positions,
	// actions and malformed snapshots. Existing state is never corrupted.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Butterfly rule-version switches, matching the original engine's codes.
type ButterflyExplosionVersion int

const (
	ButterflyExplode ButterflyExplosionVersion = 1 // explode when hit by a stone
	ButterflyConvert ButterflyExplosionVersion = 2 // convert to a diamond when hit by a stone
)

type ButterflyMoveVersion int

const (
	ButterflyMoveDelay   ButterflyMoveVersion = 1 // wait one tick after a blocked turn
	ButterflyMoveInstant ButterflyMoveVersion = 2 // move into the newly faced cell immediately
)

// Default game parameters.
const (
	DefaultMagicWallSteps    = 140
	DefaultBlobChance        = 20
	DefaultBlobMaxPercentage = 0.16
	DefaultGravity           = false
	DefaultDisableExplosions = false
)

// GameParameters configures a state at construction time and is immutable for
// its lifetime.
type GameParameters struct {
	Gravity               bool
	MagicWallSteps        int
	BlobChance            uint8
	BlobMaxPercentage     float64
	DisableExplosions     bool
	ButterflyExplosionVer ButterflyExplosionVersion
	ButterflyMoveVer      ButterflyMoveVersion
}

// DefaultParameters returns the parameter set used when none is supplied.
func DefaultParameters() GameParameters {
	return GameParameters{
		Gravity:               DefaultGravity,
		MagicWallSteps:        DefaultMagicWallSteps,
		BlobChance:            DefaultBlobChance,
		BlobMaxPercentage:     DefaultBlobMaxPercentage,
		DisableExplosions:     DefaultDisableExplosions,
		ButterflyExplosionVer: ButterflyExplode,
		ButterflyMoveVer:      ButterflyMoveDelay,
	}
}

// Position is a (row, col) board coordinate.
type Position struct {
	Row int
	Col int
}

// GameState is the complete simulation state: the grid, the parallel
// updated-this-tick flags, and the scalar bookkeeping. It is mutated in place
// by ApplyAction and deep-copied by Clone. A GameState is not safe for
// concurrent mutation; run independent clones instead.
type GameState struct {
	rows int
	cols int

	gemsRequired  int
	gemsCollected int

	magicWallSteps int // active-step budget remaining
	magicActive    bool

	blobMaxSize  int
	blobSize     int
	blobChance   uint8
	blobEnclosed bool
	blobSwap     HiddenCellType // HiddenNull until the swap target is decided

	gravity               bool
	disableExplosions     bool
	butterflyExplosionVer ButterflyExplosionVersion
	butterflyMoveVer      ButterflyMoveVersion

	agentIdx    int
	agentAlive  bool
	agentInExit bool

	randomState  uint64
	rewardSignal RewardCodes
	hash         uint64

	grid       []HiddenCellType
	hasUpdated []bool
}

// NewGameState constructs a state from a board specification string:
//
//	rows|cols|gemsRequired|cell_0|cell_1|...|cell_{rows*cols-1}
//
// Cell values index the hidden kind enumeration. The board must contain
// exactly one agent (or agent-in-exit) cell.
func NewGameState(boardStr string, params GameParameters) (*GameState, error) {
	s := &GameState{
		magicWallSteps:        params.MagicWallSteps,
		blobChance:            params.BlobChance,
		blobEnclosed:          true,
		blobSwap:              HiddenNull,
		gravity:               params.Gravity,
		disableExplosions:     params.DisableExplosions,
		butterflyExplosionVer: params.ButterflyExplosionVer,
		butterflyMoveVer:      params.ButterflyMoveVer,
		agentIdx:              -1,
		randomState:           splitmix64(0),
	}
	if err := s.parseBoard(boardStr); err != nil {
		return nil, err
	}

	s.blobMaxSize = int(float64(s.rows*s.cols) * params.BlobMaxPercentage)

	flatSize := s.rows * s.cols
	for i := range flatSize {
		s.hash ^= localHash(flatSize, s.grid[i], i)
	}
	return s, nil
}

// Clone returns a deep copy. The copy shares nothing with the receiver and is
// safe to mutate on another goroutine.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.grid = make([]HiddenCellType, len(s.grid))
	copy(out.grid, s.grid)
	out.hasUpdated = make([]bool, len(s.hasUpdated))
	copy(out.hasUpdated, s.hasUpdated)
	return &out
}

// Equal reports full-tuple equality: every scalar field, the grid and the
// updated flags must match.
func (s *GameState) Equal(o *GameState) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.rows != o.rows || s.cols != o.cols ||
		s.gemsRequired != o.gemsRequired || s.gemsCollected != o.gemsCollected ||
		s.magicWallSteps != o.magicWallSteps || s.magicActive != o.magicActive ||
		s.blobMaxSize != o.blobMaxSize || s.blobSize != o.blobSize ||
		s.blobChance != o.blobChance || s.blobEnclosed != o.blobEnclosed ||
		s.blobSwap != o.blobSwap ||
		s.gravity != o.gravity || s.disableExplosions != o.disableExplosions ||
		s.butterflyExplosionVer != o.butterflyExplosionVer ||
		s.butterflyMoveVer != o.butterflyMoveVer ||
		s.agentIdx != o.agentIdx || s.agentAlive != o.agentAlive ||
		s.agentInExit != o.agentInExit ||
		s.randomState != o.randomState || s.rewardSignal != o.rewardSignal ||
		s.hash != o.hash {
		return false
	}
	for i := range s.grid {
		if s.grid[i] != o.grid[i] {
			return false
		}
	}
	for i := range s.hasUpdated {
		if s.hasUpdated[i] != o.hasUpdated[i] {
			return false
		}
	}
	return true
}

// Rows returns the board height.
func (s *GameState) Rows() int { return s.rows }

// Cols returns the board width.
func (s *GameState) Cols() int { return s.cols }

// GemsRequired returns the number of gems needed to open the exit.
func (s *GameState) GemsRequired() int { return s.gemsRequired }

// GemsCollected returns the number of gems collected so far.
func (s *GameState) GemsCollected() int { return s.gemsCollected }

// IsTerminal reports whether the episode is over: the agent is dead or has
// entered the exit.
func (s *GameState) IsTerminal() bool {
	return !s.agentAlive || s.agentInExit
}

// IsSolution reports whether the agent has entered the exit.
func (s *GameState) IsSolution() bool {
	return s.agentInExit
}

// AgentAlive reports whether the agent is alive.
func (s *GameState) AgentAlive() bool { return s.agentAlive }

// AgentInExit reports whether the agent has walked into the exit.
func (s *GameState) AgentInExit() bool { return s.agentInExit }

// AgentIndex returns the agent's flat index, even if the agent is in the exit
// or just died.
func (s *GameState) AgentIndex() int { return s.agentIdx }

// RewardSignal returns the event bitmask for the last applied tick.
func (s *GameState) RewardSignal() RewardCodes { return s.rewardSignal }

// Hash returns the incrementally maintained state fingerprint.
func (s *GameState) Hash() uint64 { return s.hash }

// RecomputeHash rebuilds the fingerprint by scanning the whole grid. The
// incremental hash must always equal this value; it exists for verification.
func (s *GameState) RecomputeHash() uint64 {
	flatSize := s.rows * s.cols
	var h uint64
	for i := range flatSize {
		h ^= localHash(flatSize, s.grid[i], i)
	}
	return h
}

// HiddenItem returns the hidden kind at a flat index.
func (s *GameState) HiddenItem(index int) (HiddenCellType, error) {
	if index < 0 || index >= s.rows*s.cols {
		return HiddenNull, errIndexOutOfRange(index, s.rows, s.cols)
	}
	return s.grid[index], nil
}

// PositionToIndex converts a (row, col) position to a flat index.
func (s *GameState) PositionToIndex(pos Position) (int, error) {
	if !s.InBoundsPosition(pos) {
		return 0, errPositionOutOfRange(pos, s.rows, s.cols)
	}
	return pos.Row*s.cols + pos.Col, nil
}

// IndexToPosition converts a flat index to a (row, col) position.
func (s *GameState) IndexToPosition(index int) (Position, error) {
	if index < 0 || index >= s.rows*s.cols {
		return Position{}, errIndexOutOfRange(index, s.rows, s.cols)
	}
	return Position{Row: index / s.cols, Col: index % s.cols}, nil
}

// InBoundsPosition reports whether pos lies on the board.
func (s *GameState) InBoundsPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < s.rows && pos.Col >= 0 && pos.Col < s.cols
}

// Positions returns the (row, col) positions of every cell holding kind.
func (s *GameState) Positions(kind HiddenCellType) []Position {
	var out []Position
	for i, k := range s.grid {
		if k == kind {
			out = append(out, Position{Row: i / s.cols, Col: i % s.cols})
		}
	}
	return out
}

// Indices returns the flat indices of every cell holding kind.
func (s *GameState) Indices(kind HiddenCellType) []int {
	var out []int
	for i, k := range s.grid {
		if k == kind {
			out = append(out, i)
		}
	}
	return out
}

// String renders the board with catalog glyphs, one row per line, framed by a
// border. Intended for logs and test failures.
func (s *GameState) String() string {
	var b strings.Builder
	border := strings.Repeat("-", s.cols+2) + "\n"
	b.WriteString(border)
	for r := range s.rows {
		b.WriteByte('|')
		for c := range s.cols {
			b.WriteByte(Lookup(s.grid[r*s.cols+c]).Glyph)
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
