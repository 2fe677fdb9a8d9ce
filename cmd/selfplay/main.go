// Self-play data generator: runs MCTS-guided episodes across a worker pool
// and streams training rows into parquet batches.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"boulderdash/executor/convert"
	"boulderdash/executor/inference"
	"boulderdash/executor/mcts"
	"boulderdash/executor/selfplay"
	"boulderdash/game"
	"boulderdash/levels"
	"boulderdash/logging"
	"boulderdash/store"
)

var totalMoves atomic.Int64
var totalInferences atomic.Int64
var totalEpisodes atomic.Int64

type instrumentedClient struct {
	mcts.Predictor
}

func (c *instrumentedClient) Predict(state *game.GameState) ([]float32, []float32, error) {
	totalInferences.Add(1)
	return c.Predictor.Predict(state)
}

type episodeWriteRequest struct {
	rows []store.TrainingRow
}

func main() {
	levelDir := flag.String("level-dir", "levels", "Directory of board files to sample episodes from")
	outDir := flag.String("out-dir", filepath.Join("data", "generated"), "Output directory for parquet batches")
	workers := flag.Int("workers", 16, "Number of self-play workers")
	sims := flag.Int("sims", selfplay.DefaultSims, "MCTS simulations per move")
	cpuct := flag.Float64("cpuct", 1.0, "MCTS exploration constant")
	maxSteps := flag.Int("max-steps", selfplay.DefaultMaxSteps, "Abort episodes longer than this")
	episodesPerFlush := flag.Int("episodes-per-flush", 50, "Episodes to buffer per parquet flush")
	maxEpisodes := flag.Int64("max-episodes", 0, "If > 0, stop after this many episodes")
	gravity := flag.Bool("gravity", true, "Enable gravity for stones/gems")
	modelPath := flag.String("model", "", "ONNX model path; empty runs uniform-prior search")
	onnxBatchSize := flag.Int("onnx-batch-size", inference.DefaultBatchSize, "ONNX inference batch size")
	onnxBatchTimeout := flag.Duration("onnx-batch-timeout", inference.DefaultBatchTimeout, "Max wait to fill an ONNX batch")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Setup(os.Stderr, level)

	params := game.DefaultParameters()
	params.Gravity = *gravity

	repo, loadErrs := levels.LoadDir(*levelDir, params)
	for _, err := range loadErrs {
		slog.Warn("level skipped", "err", err)
	}
	if repo == nil {
		slog.Error("no usable levels", "dir", *levelDir)
		os.Exit(1)
	}
	slog.Info("levels loaded", "dir", *levelDir, "count", repo.Len())

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var predictor mcts.Predictor = mcts.UniformPredictor{}
	if *modelPath != "" {
		first := repo.At(0)
		probe, err := game.NewGameState(first.Board, params)
		if err != nil {
			slog.Error("probe level failed", "err", err)
			os.Exit(1)
		}
		shape := probe.ObservationShape()
		encoder := inferenceEncoder(shape)
		client, err := inference.NewOnnxClientWithConfig(*modelPath, encoder, inference.OnnxClientConfig{
			BatchSize:    *onnxBatchSize,
			BatchTimeout: *onnxBatchTimeout,
		})
		if err != nil {
			slog.Error("onnx client failed", "model", *modelPath, "err", err)
			os.Exit(1)
		}
		defer client.Close()
		predictor = client
		slog.Info("onnx model loaded", "model", *modelPath)
	} else {
		slog.Info("no model given, running uniform-prior search")
	}

	client := &instrumentedClient{Predictor: predictor}

	writeReqs := make(chan episodeWriteRequest, (*workers)*4)
	writerDone := make(chan struct{})
	go func() {
		parquetWriterLoop(*outDir, *episodesPerFlush, writeReqs)
		close(writerDone)
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < *workers; i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)*1000003))
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				level := repo.At(rng.Intn(repo.Len()))
				rows, result, err := selfplay.PlayEpisode(ctx, workerID, mcts.Config{Cpuct: float32(*cpuct)}, client, level.Board, params, selfplay.Options{
					MaxSteps:  *maxSteps,
					Sims:      *sims,
					ModelPath: *modelPath,
					Source:    "selfplay",
					OnStep:    func() { totalMoves.Add(1) },
				})
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						slog.Warn("episode failed", "worker", workerID, "level", level.Name, "err", err)
					}
					continue
				}

				total := totalEpisodes.Add(1)
				slog.Info("episode done",
					"worker", workerID,
					"level", level.Name,
					"episode_id", result.EpisodeID,
					"steps", result.Steps,
					"solved", result.Solved,
					"return", result.Return,
				)
				if *maxEpisodes > 0 && total >= *maxEpisodes {
					cancel()
				}

				if len(rows) > 0 {
					writeReqs <- episodeWriteRequest{rows: rows}
				}
			}
		}(i)
	}

	startTime := time.Now()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown requested, waiting for workers")
			workerWG.Wait()
			close(writeReqs)
			<-writerDone
			slog.Info("shutdown complete", "episodes", totalEpisodes.Load())
			return
		case <-ticker.C:
			elapsed := time.Since(startTime).Seconds()
			slog.Info("progress",
				"episodes", totalEpisodes.Load(),
				"moves_per_sec", float64(totalMoves.Load())/elapsed,
				"inferences_per_sec", float64(totalInferences.Load())/elapsed,
			)
		}
	}
}

// inferenceEncoder builds the tensor encoder for the loaded level shape. All
// levels in a run must share one board shape when a model is used.
func inferenceEncoder(shape [3]int) *convert.Encoder {
	return convert.NewEncoder(shape[1], shape[2])
}

// parquetWriterLoop streams episode rows into batch parquet files. Episodes
// are deduped against an append-only log, so a restarted run pointed at the
// same out dir never writes an episode twice.
func parquetWriterLoop(outDir string, episodesPerFlush int, in <-chan episodeWriteRequest) {
	if episodesPerFlush <= 0 {
		episodesPerFlush = 50
	}

	written, err := store.OpenWrittenLog(filepath.Join(outDir, "written.log"))
	if err != nil {
		slog.Error("open written log failed", "err", err)
		return
	}
	defer written.Close()

	var batch *store.BatchWriter
	var batchIDs []string

	flush := func() {
		if batch == nil {
			return
		}
		outPath, rows, episodes, err := batch.Finalize()
		if err != nil {
			slog.Error("parquet flush failed", "episodes", episodes, "rows", rows, "err", err)
		} else if outPath != "" {
			slog.Info("parquet flush ok", "path", outPath, "episodes", episodes, "rows", rows)
			// Only episodes that made it into a finalized batch count as
			// written.
			for _, id := range batchIDs {
				if err := written.Add(id); err != nil {
					slog.Warn("written log append failed", "episode_id", id, "err", err)
				}
			}
		}
		batch = nil
		batchIDs = batchIDs[:0]
	}

	for req := range in {
		if len(req.rows) == 0 {
			continue
		}
		episodeID := req.rows[0].EpisodeID
		if written.Has(episodeID) {
			slog.Debug("episode already written", "episode_id", episodeID)
			continue
		}

		if batch == nil {
			batch, err = store.NewBatchWriter(outDir)
			if err != nil {
				slog.Error("open batch writer failed", "err", err)
				continue
			}
		}
		if err := batch.WriteRows(req.rows); err != nil {
			slog.Error("buffer episode failed", "episode_id", episodeID, "err", err)
			continue
		}
		batch.NoteEpisodeWritten()
		batchIDs = append(batchIDs, episodeID)

		if batch.BufferedEpisodes() >= episodesPerFlush {
			flush()
		}
	}
	flush()
}
