package mcts

import (
	"boulderdash/game"
	"boulderdash/rules"
)

// Move represents an action (0: Up, 1: Right, 2: Down, 3: Left)
type Move int

// Node represents a state in the MCTS tree
type Node struct {
	VisitCount int
	ValueSum   float32
	PriorProb  float32
	Children   [rules.NumMoves]*Node
	State      *game.GameState
	IsExpanded bool
}

// NewNode creates a new MCTS node
func NewNode(state *game.GameState, prior float32) *Node {
	return &Node{
		State:     state,
		PriorProb: prior,
	}
}

// Q returns the mean value of the node, zero before the first visit.
func (n *Node) Q() float32 {
	if n.VisitCount == 0 {
		return 0
	}
	return n.ValueSum / float32(n.VisitCount)
}

// BestMove returns the most visited child move, or -1 on an unexpanded root.
func (n *Node) BestMove() Move {
	best := Move(-1)
	bestVisits := -1
	for i, child := range n.Children {
		if child == nil {
			continue
		}
		if child.VisitCount > bestVisits {
			bestVisits = child.VisitCount
			best = Move(i)
		}
	}
	return best
}

// Config holds MCTS configuration
type Config struct {
	Cpuct float32
}

// Predictor defines the interface for inference
type Predictor interface {
	Predict(state *game.GameState) ([]float32, []float32, error)
}

// MCTS holds the search context
type MCTS struct {
	Config Config
	Client Predictor
}
