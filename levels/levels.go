// Package levels manages the local library of board files and fetches
// published level packs.
package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"boulderdash/game"
)

// Level is one named board specification.
type Level struct {
	Name  string
	Board string
}

// Repository is an in-memory set of validated levels loaded from disk.
type Repository struct {
	levels []Level
	byName map[string]int
}

// LoadDir reads every .txt file under dir as a board specification. Files
// that do not parse into a valid board are skipped with an error in the
// returned slice; a directory with no valid level at all is an error.
func LoadDir(dir string, params game.GameParameters) (*Repository, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read level dir: %w", err)}
	}

	repo := &Repository{byName: make(map[string]int)}
	var bad []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			bad = append(bad, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		board := strings.TrimSpace(string(raw))
		if _, err := game.NewGameState(board, params); err != nil {
			bad = append(bad, fmt.Errorf("validate %s: %w", path, err))
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		repo.byName[name] = len(repo.levels)
		repo.levels = append(repo.levels, Level{Name: name, Board: board})
	}

	sort.Slice(repo.levels, func(i, j int) bool { return repo.levels[i].Name < repo.levels[j].Name })
	for i, l := range repo.levels {
		repo.byName[l.Name] = i
	}

	if len(repo.levels) == 0 {
		bad = append(bad, fmt.Errorf("no valid levels in %s", dir))
		return nil, bad
	}
	return repo, bad
}

// Len returns the number of levels.
func (r *Repository) Len() int { return len(r.levels) }

// Names lists level names in sorted order.
func (r *Repository) Names() []string {
	out := make([]string, len(r.levels))
	for i, l := range r.levels {
		out[i] = l.Name
	}
	return out
}

// Get returns the level with the given name.
func (r *Repository) Get(name string) (Level, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Level{}, false
	}
	return r.levels[i], true
}

// At returns the level at index i in name order.
func (r *Repository) At(i int) Level { return r.levels[i] }
