// Package selfplay runs search-guided episodes and turns them into training
// rows.
package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boulderdash/executor/mcts"
	"boulderdash/game"
	"boulderdash/rules"
	"boulderdash/store"
)

type EpisodeResult struct {
	EpisodeID string
	Solved    bool
	Steps     int
	Return    float32
}

type Options struct {
	// MaxSteps aborts an episode that has not terminated, scoring it as a
	// draw. Zero means the default.
	MaxSteps int
	// Sims is the MCTS simulation budget per move.
	Sims int
	// ModelPath is recorded on every row, empty for uniform-prior runs.
	ModelPath string
	// Source tags the rows, e.g. "selfplay".
	Source string
	// OnStep is called after every applied move, for instrumentation.
	OnStep func()
}

const (
	DefaultMaxSteps = 2000
	DefaultSims     = 200
)

// PlayEpisode plays one episode on board from start to termination, running a
// fresh MCTS search for every move. It returns one training row per tick: the
// pre-move snapshot, the root visit distribution, the chosen move, the shaped
// tick reward, and (filled in at the end) the episode outcome as the value
// target.
func PlayEpisode(ctx context.Context, workerID int, cfg mcts.Config, client mcts.Predictor, board string, params game.GameParameters, opts Options) ([]store.TrainingRow, EpisodeResult, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Sims <= 0 {
		opts.Sims = DefaultSims
	}
	if opts.Source == "" {
		opts.Source = "selfplay"
	}

	state, err := game.NewGameState(board, params)
	if err != nil {
		return nil, EpisodeResult{}, fmt.Errorf("worker %d: %w", workerID, err)
	}

	episodeID := fmt.Sprintf("selfplay_%d_%d", time.Now().UnixNano(), workerID)
	result := EpisodeResult{EpisodeID: episodeID}
	rows := make([]store.TrainingRow, 0, 256)

	searcher := &mcts.MCTS{Config: cfg, Client: client}

	for step := 0; step < opts.MaxSteps && !state.IsTerminal(); step++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, result, ctx.Err()
			default:
			}
		}

		root, _, err := searcher.Search(ctx, state.Clone(), opts.Sims)
		if err != nil {
			return nil, result, fmt.Errorf("episode %s step %d: %w", episodeID, step, err)
		}
		move := root.BestMove()
		if move < 0 {
			return nil, result, fmt.Errorf("episode %s step %d: empty search root", episodeID, step)
		}
		target := mcts.PolicyTarget(root)

		stateJSON, err := store.EncodeStateJSON(state.Pack())
		if err != nil {
			return nil, result, fmt.Errorf("episode %s step %d: %w", episodeID, step, err)
		}

		if err := rules.Apply(state, int(move)); err != nil {
			return nil, result, fmt.Errorf("episode %s step %d: %w", episodeID, step, err)
		}
		reward := rules.RewardValue(state.RewardSignal())
		result.Return += reward
		result.Steps++

		rows = append(rows, store.TrainingRow{
			EpisodeID:   episodeID,
			Tick:        int32(step),
			Rows:        int32(state.Rows()),
			Cols:        int32(state.Cols()),
			StateFormat: store.StateFormatSnapshotV1,
			State:       stateJSON,
			Policy:      int32(move),
			PolicyProbs: target[:],
			Reward:      reward,
			Source:      opts.Source,
			ModelPath:   opts.ModelPath,
		})

		if opts.OnStep != nil {
			opts.OnStep()
		}
	}

	result.Solved = state.IsSolution()

	// Value target: the final outcome, from every tick's perspective.
	outcome := rules.GetResult(state)
	for i := range rows {
		rows[i].Value = outcome
	}

	slog.Debug("episode finished",
		"episode_id", episodeID,
		"worker", workerID,
		"steps", result.Steps,
		"solved", result.Solved,
		"return", result.Return,
	)

	return rows, result, nil
}
