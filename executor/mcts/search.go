package mcts

import (
	"context"
	"math"

	"boulderdash/game"
	"boulderdash/rules"
)

func softmax4(logits []float32) [rules.NumMoves]float32 {
	var out [rules.NumMoves]float32
	if len(logits) < rules.NumMoves {
		return out
	}
	maxV := logits[0]
	for i := 1; i < rules.NumMoves; i++ {
		if logits[i] > maxV {
			maxV = logits[i]
		}
	}
	sum := float32(0)
	for i := 0; i < rules.NumMoves; i++ {
		e := float32(math.Exp(float64(logits[i] - maxV)))
		out[i] = e
		sum += e
	}
	if sum > 0 {
		inv := 1 / sum
		for i := 0; i < rules.NumMoves; i++ {
			out[i] *= inv
		}
	}
	return out
}

// Search runs the MCTS simulations
func (m *MCTS) Search(ctx context.Context, rootState *game.GameState, simulations int) (*Node, int, error) {
	root := NewNode(rootState, 1.0)
	maxDepth := 0

	for i := 0; i < simulations; i++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return root, maxDepth, ctx.Err()
			default:
			}
		}

		node := root
		path := []*Node{node}

		// Selection
		for node.IsExpanded {
			bestMove := Move(-1)
			bestScore := float32(-1e9)

			// Calculate sqrt(sum(N)) for parent
			sqrtSumN := float32(math.Sqrt(float64(node.VisitCount)))

			for moveIdx := 0; moveIdx < rules.NumMoves; moveIdx++ {
				move := Move(moveIdx)
				child := node.Children[move]
				if child == nil {
					continue
				}

				// PUCT formula
				// U(s,a) = Q(s,a) + C_puct * P(s,a) * sqrt(sum(N)) / (1 + N)
				u := child.Q() + m.Config.Cpuct*child.PriorProb*sqrtSumN/(1+float32(child.VisitCount))

				if u > bestScore {
					bestScore = u
					bestMove = move
				}
			}

			node = node.Children[bestMove]
			path = append(path, node)
		}

		if d := len(path) - 1; d > maxDepth {
			maxDepth = d
		}

		// Expansion & Evaluation
		value := float32(0)

		if rules.IsTerminal(node.State) {
			value = rules.GetResult(node.State)
		} else {
			policyLogits, values, err := m.Client.Predict(node.State)
			if err != nil {
				return nil, 0, err
			}

			if len(values) > 0 {
				value = values[0]
			}

			priors := softmax4(policyLogits)

			// Every action code is always applicable; a blocked move is a
			// no-op tick, and the board keeps evolving through it.
			for moveIdx := 0; moveIdx < rules.NumMoves; moveIdx++ {
				nextState, err := rules.NextState(node.State, moveIdx)
				if err != nil {
					return nil, 0, err
				}
				node.Children[moveIdx] = NewNode(nextState, priors[moveIdx])
			}
			node.IsExpanded = true
		}

		// Backpropagation
		for _, n := range path {
			n.VisitCount++
			n.ValueSum += value
		}
	}

	return root, maxDepth, nil
}

// PolicyTarget returns the root visit distribution used as a training target.
func PolicyTarget(root *Node) [rules.NumMoves]float32 {
	var out [rules.NumMoves]float32
	total := 0
	for _, child := range root.Children {
		if child != nil {
			total += child.VisitCount
		}
	}
	if total == 0 {
		return out
	}
	for i, child := range root.Children {
		if child != nil {
			out[i] = float32(child.VisitCount) / float32(total)
		}
	}
	return out
}

// UniformPredictor returns flat priors and a zero value estimate. It stands in
// for the network during bootstrapping and in tests.
type UniformPredictor struct{}

func (UniformPredictor) Predict(state *game.GameState) ([]float32, []float32, error) {
	return make([]float32, rules.NumMoves), []float32{0}, nil
}
