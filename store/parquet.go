// Package store persists self-play episodes as Parquet files for training and
// analysis.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"boulderdash/game"
)

// TrainingRow is a single supervised training sample: one tick of one episode.
//
// State is a self-contained snapshot for the tick, stored as JSON so trainers
// can featurize it however they like.
//
// Policy is the action label: 0=Up, 1=Right, 2=Down, 3=Left. PolicyProbs is an
// optional distribution target, typically normalized MCTS visit counts.
// Value is the outcome target in [-1..1] from the agent's perspective.
type TrainingRow struct {
	EpisodeID   string    `parquet:"episode_id,dict"`
	Tick        int32     `parquet:"tick"`
	Rows        int32     `parquet:"rows"`
	Cols        int32     `parquet:"cols"`
	StateFormat string    `parquet:"state_format,dict"`
	State       []byte    `parquet:"state"`
	Policy      int32     `parquet:"policy"`
	PolicyProbs []float32 `parquet:"policy_probs"`
	Value       float32   `parquet:"value"`
	Reward      float32   `parquet:"reward"`
	Source      string    `parquet:"source,dict"`

	// ModelPath is the resolved path to the ONNX model used to generate this
	// episode, empty for uniform-prior bootstrap runs.
	ModelPath string `parquet:"model_path,dict,optional"`
}

// StateFormatSnapshotV1 marks TrainingRow.State as a JSON game.Snapshot.
const StateFormatSnapshotV1 = "snapshot_json_v1"

// EncodeStateJSON serializes a snapshot for TrainingRow.State.
func EncodeStateJSON(snap game.Snapshot) ([]byte, error) {
	if snap.Rows <= 0 || snap.Cols <= 0 {
		return nil, fmt.Errorf("invalid state dimensions: %dx%d", snap.Rows, snap.Cols)
	}
	return json.Marshal(snap)
}

// DecodeStateJSON rebuilds a state from TrainingRow.State.
func DecodeStateJSON(raw []byte) (*game.GameState, error) {
	var snap game.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return game.Restore(snap)
}

// ReadEpisodeParquet loads all rows from a training parquet file.
func ReadEpisodeParquet(path string) ([]TrainingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parse parquet: %w", err)
	}

	reader := parquet.NewGenericReader[TrainingRow](pf)
	defer reader.Close()

	out := make([]TrainingRow, 0, reader.NumRows())
	buf := make([]TrainingRow, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}
