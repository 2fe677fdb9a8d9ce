package mcts

import (
	"context"
	"testing"

	"boulderdash/game"
	"boulderdash/rules"
)

func mustState(t *testing.T, board string) *game.GameState {
	t.Helper()
	s, err := game.NewGameState(board, game.DefaultParameters())
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}
	return s
}

func TestSearch_FindsOneStepExit(t *testing.T) {
	// Agent one cell left of an open exit; stepping right wins, every other
	// move is a blocked no-op tick.
	s := mustState(t, "1|2|0|0|8")

	m := &MCTS{Config: Config{Cpuct: 1.0}, Client: UniformPredictor{}}
	root, maxDepth, err := m.Search(context.Background(), s, 64)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !root.IsExpanded {
		t.Fatal("root never expanded")
	}
	if maxDepth < 1 {
		t.Fatalf("maxDepth = %d, want at least 1", maxDepth)
	}

	move := root.BestMove()
	if move != Move(rules.MoveRight) {
		for i, child := range root.Children {
			if child != nil {
				t.Logf("move %d: visits=%d q=%v prior=%v", i, child.VisitCount, child.Q(), child.PriorProb)
			}
		}
		t.Fatalf("BestMove = %d, want %d (right into the exit)", move, rules.MoveRight)
	}

	winner := root.Children[rules.MoveRight]
	if winner.Q() <= 0 {
		t.Fatalf("winning child Q = %v, want positive", winner.Q())
	}
}

func TestSearch_ContextCancelStopsEarly(t *testing.T) {
	s := mustState(t, "1|2|0|0|8")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &MCTS{Config: Config{Cpuct: 1.0}, Client: UniformPredictor{}}
	root, _, err := m.Search(ctx, s, 1000)
	if err == nil {
		t.Fatal("Search ignored a cancelled context")
	}
	if root == nil {
		t.Fatal("Search returned nil root on cancel")
	}
}

func TestPolicyTarget_NormalizesVisits(t *testing.T) {
	s := mustState(t, "1|2|0|0|8")

	m := &MCTS{Config: Config{Cpuct: 1.0}, Client: UniformPredictor{}}
	root, _, err := m.Search(context.Background(), s, 64)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	target := PolicyTarget(root)
	sum := float32(0)
	for _, p := range target {
		if p < 0 || p > 1 {
			t.Fatalf("target out of range: %v", target)
		}
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("target sums to %v, want 1: %v", sum, target)
	}
	if target[rules.MoveRight] <= target[rules.MoveLeft] {
		t.Fatalf("winning move not preferred: %v", target)
	}
}

func TestBestMove_UnexpandedRoot(t *testing.T) {
	root := NewNode(mustState(t, "1|2|0|0|8"), 1.0)
	if move := root.BestMove(); move >= 0 {
		t.Fatalf("BestMove on unexpanded root = %d, want negative", move)
	}
}
