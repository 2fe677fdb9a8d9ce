// Level-pack fetcher: scrapes index pages for board files and downloads
// validated boards into the local level directory.
package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"boulderdash/game"
	"boulderdash/levels"
	"boulderdash/logging"
)

func main() {
	indexURLs := flag.String("index-urls", "", "Comma-separated level-pack index pages to scrape")
	destDir := flag.String("dest-dir", "levels", "Directory to write downloaded boards into")
	delay := flag.Duration("delay", 500*time.Millisecond, "Delay between HTTP requests")
	maxLevels := flag.Int("max-levels", 0, "Cap levels per index page (0 = unlimited)")
	gravity := flag.Bool("gravity", true, "Gravity setting used to validate downloaded boards")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Setup(os.Stderr, level)

	var urls []string
	for _, part := range strings.Split(*indexURLs, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			urls = append(urls, part)
		}
	}
	if len(urls) == 0 {
		slog.Error("at least one index URL is required, pass -index-urls")
		os.Exit(1)
	}

	params := game.DefaultParameters()
	params.Gravity = *gravity

	// Skip anything already on disk so reruns only pick up new boards.
	var existing []string
	if repo, _ := levels.LoadDir(*destDir, params); repo != nil {
		existing = repo.Names()
	}

	config := levels.DefaultFetchConfig(urls...)
	config.RequestDelay = *delay
	config.MaxLevels = *maxLevels

	fetcher := levels.NewFetcher(config, params, existing)
	written, err := fetcher.FetchAll(*destDir)
	if err != nil {
		slog.Error("fetch failed", "err", err)
		os.Exit(1)
	}
	slog.Info("fetch complete", "dest", *destDir, "new_levels", written, "already_known", len(existing))
}
