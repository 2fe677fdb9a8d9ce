package game

import "fmt"

// Snapshot is the opaque, exactly round-trippable form of a GameState for
// persistence and cross-process cloning. Every scalar field plus the grid and
// the updated flags are carried; restore reproduces an Equal state, hash
// included.
type Snapshot struct {
	Rows          int `json:"rows"`
	Cols          int `json:"cols"`
	GemsRequired  int `json:"gems_required"`
	GemsCollected int `json:"gems_collected"`

	MagicWallSteps int  `json:"magic_wall_steps"`
	MagicActive    bool `json:"magic_active"`

	BlobMaxSize  int   `json:"blob_max_size"`
	BlobSize     int   `json:"blob_size"`
	BlobChance   uint8 `json:"blob_chance"`
	BlobEnclosed bool  `json:"blob_enclosed"`
	BlobSwap     int8  `json:"blob_swap"`

	Gravity               bool `json:"gravity"`
	DisableExplosions     bool `json:"disable_explosions"`
	ButterflyExplosionVer int  `json:"butterfly_explosion_ver"`
	ButterflyMoveVer      int  `json:"butterfly_move_ver"`

	AgentIdx    int  `json:"agent_idx"`
	AgentAlive  bool `json:"agent_alive"`
	AgentInExit bool `json:"agent_in_exit"`

	RandomState  uint64 `json:"random_state"`
	RewardSignal uint64 `json:"reward_signal"`
	Hash         uint64 `json:"hash"`

	Grid       []int8 `json:"grid"`
	HasUpdated []bool `json:"has_updated"`
}

// Pack captures the full internal state.
func (s *GameState) Pack() Snapshot {
	grid := make([]int8, len(s.grid))
	for i, k := range s.grid {
		grid[i] = int8(k)
	}
	updated := make([]bool, len(s.hasUpdated))
	copy(updated, s.hasUpdated)
	return Snapshot{
		Rows:          s.rows,
		Cols:          s.cols,
		GemsRequired:  s.gemsRequired,
		GemsCollected: s.gemsCollected,

		MagicWallSteps: s.magicWallSteps,
		MagicActive:    s.magicActive,

		BlobMaxSize:  s.blobMaxSize,
		BlobSize:     s.blobSize,
		BlobChance:   s.blobChance,
		BlobEnclosed: s.blobEnclosed,
		BlobSwap:     int8(s.blobSwap),

		Gravity:               s.gravity,
		DisableExplosions:     s.disableExplosions,
		ButterflyExplosionVer: int(s.butterflyExplosionVer),
		ButterflyMoveVer:      int(s.butterflyMoveVer),

		AgentIdx:    s.agentIdx,
		AgentAlive:  s.agentAlive,
		AgentInExit: s.agentInExit,

		RandomState:  s.randomState,
		RewardSignal: uint64(s.rewardSignal),
		Hash:         s.hash,

		Grid:       grid,
		HasUpdated: updated,
	}
}

// Restore reconstructs a state from a snapshot. The snapshot must be
// internally consistent; malformed snapshots fail with ErrInvalidArgument.
func Restore(snap Snapshot) (*GameState, error) {
	if snap.Rows <= 0 || snap.Cols <= 0 {
		return nil, fmt.Errorf("%w: snapshot dimensions (%d, %d)", ErrInvalidArgument, snap.Rows, snap.Cols)
	}
	flatSize := snap.Rows * snap.Cols
	if len(snap.Grid) != flatSize || len(snap.HasUpdated) != flatSize {
		return nil, fmt.Errorf("%w: snapshot grid length %d, flags length %d, want %d",
			ErrInvalidArgument, len(snap.Grid), len(snap.HasUpdated), flatSize)
	}

	s := &GameState{
		rows:          snap.Rows,
		cols:          snap.Cols,
		gemsRequired:  snap.GemsRequired,
		gemsCollected: snap.GemsCollected,

		magicWallSteps: snap.MagicWallSteps,
		magicActive:    snap.MagicActive,

		blobMaxSize:  snap.BlobMaxSize,
		blobSize:     snap.BlobSize,
		blobChance:   snap.BlobChance,
		blobEnclosed: snap.BlobEnclosed,
		blobSwap:     HiddenCellType(snap.BlobSwap),

		gravity:               snap.Gravity,
		disableExplosions:     snap.DisableExplosions,
		butterflyExplosionVer: ButterflyExplosionVersion(snap.ButterflyExplosionVer),
		butterflyMoveVer:      ButterflyMoveVersion(snap.ButterflyMoveVer),

		agentIdx:    snap.AgentIdx,
		agentAlive:  snap.AgentAlive,
		agentInExit: snap.AgentInExit,

		randomState:  snap.RandomState,
		rewardSignal: RewardCodes(snap.RewardSignal),
		hash:         snap.Hash,

		grid:       make([]HiddenCellType, flatSize),
		hasUpdated: make([]bool, flatSize),
	}
	// Null is legal only for the blob swap scalar; a null grid cell would
	// blow up the first catalog lookup.
	if snap.BlobSwap != int8(HiddenNull) && !IsValidHidden(int(snap.BlobSwap)) {
		return nil, fmt.Errorf("%w: snapshot blob swap code %d", ErrInvalidArgument, snap.BlobSwap)
	}
	for i, code := range snap.Grid {
		if !IsValidHidden(int(code)) {
			return nil, fmt.Errorf("%w: snapshot cell code %d at index %d", ErrInvalidArgument, code, i)
		}
		s.grid[i] = HiddenCellType(code)
	}
	copy(s.hasUpdated, snap.HasUpdated)
	return s, nil
}
