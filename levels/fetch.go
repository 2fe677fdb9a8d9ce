package levels

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"boulderdash/game"
)

// FetchConfig holds level-pack fetcher configuration.
type FetchConfig struct {
	// IndexURLs are level-pack index pages to scrape for board file links.
	IndexURLs []string
	// RequestDelay is the delay between HTTP requests to be polite.
	RequestDelay time.Duration
	// MaxLevels caps the number of levels downloaded per index (0 = unlimited).
	MaxLevels int
}

// DefaultFetchConfig returns sensible defaults.
func DefaultFetchConfig(indexURLs ...string) FetchConfig {
	return FetchConfig{
		IndexURLs:    indexURLs,
		RequestDelay: 500 * time.Millisecond,
		MaxLevels:    0,
	}
}

// Fetcher downloads board files linked from level-pack index pages into a
// local directory, validating each file before keeping it.
type Fetcher struct {
	config  FetchConfig
	client  *http.Client
	params  game.GameParameters
	known   map[string]bool
	knownMu sync.Mutex
}

// NewFetcher creates a fetcher. existing names (without extension) are
// skipped on download.
func NewFetcher(config FetchConfig, params game.GameParameters, existing []string) *Fetcher {
	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}
	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		params: params,
		known:  known,
	}
}

// FetchAll scrapes every configured index page and downloads all new board
// files into destDir. Returns the number of levels written.
func (f *Fetcher) FetchAll(destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create level dir: %w", err)
	}

	total := 0
	for _, indexURL := range f.config.IndexURLs {
		links, err := f.boardLinks(indexURL)
		if err != nil {
			slog.Warn("index scrape failed", "url", indexURL, "err", err)
			continue
		}
		slog.Info("index scraped", "url", indexURL, "links", len(links))

		if f.config.MaxLevels > 0 && len(links) > f.config.MaxLevels {
			links = links[:f.config.MaxLevels]
		}

		for _, link := range links {
			name := strings.TrimSuffix(path.Base(link), ".txt")

			f.knownMu.Lock()
			seen := f.known[name]
			if !seen {
				f.known[name] = true
			}
			f.knownMu.Unlock()
			if seen {
				continue
			}

			if err := f.download(link, filepath.Join(destDir, name+".txt")); err != nil {
				slog.Warn("level download failed", "url", link, "err", err)
				continue
			}
			total++

			time.Sleep(f.config.RequestDelay)
		}
	}
	return total, nil
}

// boardLinks scrapes one index page for absolute links to .txt board files.
func (f *Fetcher) boardLinks(indexURL string) ([]string, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", indexURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "boulderdash-levels/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href$='.txt']").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})
	return links, nil
}

// download fetches one board file, validates it, and writes it to destPath.
func (f *Fetcher) download(link, destPath string) error {
	req, err := http.NewRequest("GET", link, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "boulderdash-levels/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	board := strings.TrimSpace(string(raw))
	if _, err := game.NewGameState(board, f.params); err != nil {
		return fmt.Errorf("invalid board: %w", err)
	}

	tmpPath := destPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(board+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
