// Episode viewer: serves training parquet batches over HTTP, with a
// websocket endpoint that replays episodes frame by frame.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	_ "github.com/duckdb/duckdb-go/v2"

	"boulderdash/logging"
	"boulderdash/store"
)

type EpisodeSummary struct {
	EpisodeID string  `json:"episode_id"`
	Ticks     int64   `json:"ticks"`
	Rows      int32   `json:"rows"`
	Cols      int32   `json:"cols"`
	Value     float32 `json:"value"`
	Return    float64 `json:"return"`
	Source    string  `json:"source"`
	ModelPath string  `json:"model_path"`
}

type EpisodesResponse struct {
	Total    int64            `json:"total"`
	Episodes []EpisodeSummary `json:"episodes"`
}

type Frame struct {
	Tick   int32     `json:"tick"`
	Board  string    `json:"board"`
	Render string    `json:"render"`
	Policy int32     `json:"policy"`
	Probs  []float32 `json:"probs"`
	Reward float32   `json:"reward"`
	Value  float32   `json:"value"`
}

func main() {
	listen := flag.String("listen", "127.0.0.1:8080", "HTTP listen address")
	dataDirs := flag.String("data-dirs", filepath.Join("data", "generated"), "Comma-separated directories of training parquet batches")
	staticDir := flag.String("static-dir", "", "Optional directory to serve as SPA static")
	frameDelay := flag.Duration("frame-delay", 100*time.Millisecond, "Delay between websocket replay frames")
	flag.Parse()

	logging.Setup(os.Stderr, slog.LevelInfo)

	roots := parseDataRoots(*dataDirs)
	slog.Info("viewer starting", "listen", *listen, "roots", strings.Join(roots, ","))

	mux := http.NewServeMux()

	mux.HandleFunc("/api/episodes", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		db, err := openDuckDBForRoots(roots)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer db.Close()

		limit := parseIntQuery(r, "limit", 200)
		offset := parseIntQuery(r, "offset", 0)
		total, err := queryEpisodesTotal(r.Context(), db)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		episodes, err := queryEpisodes(r.Context(), db, limit, offset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, EpisodesResponse{Total: total, Episodes: episodes})
	})

	mux.HandleFunc("/api/episodes/", func(w http.ResponseWriter, r *http.Request) {
		withCORS(w, r)
		if r.Method == http.MethodOptions {
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		episodeID := strings.TrimPrefix(r.URL.Path, "/api/episodes/")
		if episodeID == "" {
			http.Error(w, "episode id required", http.StatusBadRequest)
			return
		}
		frames, err := loadEpisodeFrames(r.Context(), roots, episodeID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(frames) == 0 {
			http.Error(w, "episode not found", http.StatusNotFound)
			return
		}
		writeJSON(w, frames)
	})

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	mux.HandleFunc("/ws/replay", func(w http.ResponseWriter, r *http.Request) {
		episodeID := r.URL.Query().Get("episode")
		if episodeID == "" {
			http.Error(w, "episode query param required", http.StatusBadRequest)
			return
		}
		frames, err := loadEpisodeFrames(r.Context(), roots, episodeID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(frames) == 0 {
			http.Error(w, "episode not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		for _, frame := range frames {
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			time.Sleep(*frameDelay)
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
	})

	if *staticDir != "" {
		if _, err := fs.Stat(os.DirFS(*staticDir), "."); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(*staticDir)))
		} else {
			slog.Warn("static dir unusable", "dir", *staticDir, "err", err)
		}
	}

	slog.Info("listening", "addr", *listen)
	if err := http.ListenAndServe(*listen, mux); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func parseDataRoots(csv string) []string {
	var roots []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			roots = append(roots, part)
		}
	}
	return roots
}

func findParquetFiles(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".parquet") {
				continue
			}
			files = append(files, filepath.Join(root, entry.Name()))
		}
	}
	return files, nil
}

func openDuckDBForRoots(roots []string) (*sql.DB, error) {
	parquetFiles, err := findParquetFiles(roots)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	// Basic pragmas; ignore errors for compatibility across versions.
	_, _ = db.Exec("PRAGMA threads=4")
	// Disable DuckDB's object cache so API responses reflect on-disk changes.
	_, _ = db.Exec("PRAGMA enable_object_cache=false")

	if len(parquetFiles) == 0 {
		_, err := db.Exec(`CREATE OR REPLACE VIEW ticks AS
			SELECT NULL::VARCHAR AS episode_id, NULL::INTEGER AS tick,
			       NULL::INTEGER AS rows, NULL::INTEGER AS cols,
			       NULL::VARCHAR AS state_format, NULL::BLOB AS state,
			       NULL::INTEGER AS policy, NULL::FLOAT AS value,
			       NULL::FLOAT AS reward, NULL::VARCHAR AS source,
			       NULL::VARCHAR AS model_path
			WHERE 1=0`)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	arr := make([]string, 0, len(parquetFiles))
	for _, f := range parquetFiles {
		arr = append(arr, "'"+escapeSQLString(f)+"'")
	}
	sqlText := "CREATE OR REPLACE VIEW ticks AS SELECT * FROM read_parquet([" + strings.Join(arr, ",") + "])"
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func queryEpisodesTotal(ctx context.Context, db *sql.DB) (int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT episode_id) FROM ticks`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func queryEpisodes(ctx context.Context, db *sql.DB, limit, offset int) ([]EpisodeSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT episode_id,
		       COUNT(*) AS ticks,
		       MAX(rows) AS board_rows,
		       MAX(cols) AS board_cols,
		       MAX(value) AS value,
		       SUM(reward) AS ret,
		       MAX(source) AS source,
		       MAX(model_path) AS model_path
		FROM ticks
		GROUP BY episode_id
		ORDER BY episode_id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeSummary
	for rows.Next() {
		var e EpisodeSummary
		var modelPath sql.NullString
		if err := rows.Scan(&e.EpisodeID, &e.Ticks, &e.Rows, &e.Cols, &e.Value, &e.Return, &e.Source, &modelPath); err != nil {
			return nil, err
		}
		e.ModelPath = modelPath.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// loadEpisodeFrames reads an episode's rows straight from the parquet batches
// and decodes each stored snapshot into a renderable frame.
func loadEpisodeFrames(ctx context.Context, roots []string, episodeID string) ([]Frame, error) {
	files, err := findParquetFiles(roots)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rows, err := store.ReadEpisodeParquet(file)
		if err != nil {
			slog.Warn("parquet read failed", "file", file, "err", err)
			continue
		}
		for _, row := range rows {
			if row.EpisodeID != episodeID {
				continue
			}
			frame := Frame{
				Tick:   row.Tick,
				Policy: row.Policy,
				Probs:  row.PolicyProbs,
				Reward: row.Reward,
				Value:  row.Value,
			}
			if state, err := store.DecodeStateJSON(row.State); err == nil {
				frame.Board = state.BoardString()
				frame.Render = state.String()
			}
			frames = append(frames, frame)
		}
	}

	for i := 1; i < len(frames); i++ {
		for j := i; j > 0 && frames[j].Tick < frames[j-1].Tick; j-- {
			frames[j], frames[j-1] = frames[j-1], frames[j]
		}
	}
	return frames, nil
}

func parseIntQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func withCORS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "err", err)
	}
}
