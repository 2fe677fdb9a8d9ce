// Package rules is the thin search-facing surface over the game engine:
// action constants, the apply wrapper, and terminal/result helpers consumed
// by MCTS expansion and self-play workers.
package rules

import (
	"boulderdash/game"
)

const (
	MoveUp    = 0
	MoveRight = 1
	MoveDown  = 2
	MoveLeft  = 3
)

// NumMoves is the fixed action-space size; callers validate against it before
// applying.
const NumMoves = game.NumActions

// AllMoves lists the action codes in canonical order.
var AllMoves = [NumMoves]int{MoveUp, MoveRight, MoveDown, MoveLeft}

// Apply advances state by one tick with the given move code.
func Apply(state *game.GameState, move int) error {
	return state.ApplyAction(game.Action(move))
}

// NextState clones state and applies move to the clone, leaving the original
// untouched. This is the expansion primitive for tree search.
func NextState(state *game.GameState, move int) (*game.GameState, error) {
	next := state.Clone()
	if err := next.ApplyAction(game.Action(move)); err != nil {
		return nil, err
	}
	return next, nil
}

// IsTerminal reports whether the episode is over (agent dead or in exit).
func IsTerminal(state *game.GameState) bool {
	return state.IsTerminal()
}

// IsSolution reports whether the agent reached the exit.
func IsSolution(state *game.GameState) bool {
	return state.IsSolution()
}

// GetResult scores a terminal state from the agent's perspective: +1 for
// reaching the exit, -1 for dying, 0 otherwise.
func GetResult(state *game.GameState) float32 {
	if state.IsSolution() {
		return 1.0
	}
	if !state.AgentAlive() {
		return -1.0
	}
	return 0.0
}

// RewardValue maps the last tick's event bitmask to a shaped scalar for
// rollout bookkeeping. Terminal events dominate the shaping bonuses.
func RewardValue(signal game.RewardCodes) float32 {
	var v float32
	if signal.Has(game.RewardWalkThroughExit) {
		v += 1.0
	}
	if signal.Has(game.RewardAgentDies) {
		v -= 1.0
	}
	if signal.Has(game.RewardCollectDiamond) {
		v += 0.1
	}
	if signal.Has(game.RewardCollectKey) {
		v += 0.05
	}
	if signal.Has(game.RewardWalkThroughGate) {
		v += 0.05
	}
	return v
}
