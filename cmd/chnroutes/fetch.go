package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Clouded-Sabre/chnroutes/internal/config"
	"github.com/Clouded-Sabre/chnroutes/internal/fetch"
	"github.com/Clouded-Sabre/chnroutes/internal/progress"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	url := fs.String("url", "", "Delegation file URL")
	output := fs.String("output", "", "Destination path (default: the URL's file name)")
	configPath := fs.String("config", "", "Path to a YAML config file")
	noProgress := fs.Bool("no-progress", false, "Disable the download progress display")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: chnroutes fetch [options]

Download the registry delegation file and save it to disk. The saved
file can later be fed to 'generate -input' or 'routes -input' without
a network connection.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{URL: *url}, *noProgress)
	if code != ExitSuccess {
		return code
	}

	dest := *output
	if dest == "" {
		dest = path.Base(cfg.URL)
	}

	ctx, cancel := signalContext()
	defer cancel()

	n, code := downloadToFile(ctx, cfg, dest)
	if code != ExitSuccess {
		return code
	}

	log.Info("Saved delegation data", "path", dest, "size", progress.FormatBytes(n))
	return ExitSuccess
}

// downloadToFile streams the delegation file into a temp file next to
// dest and renames it into place once the download is complete, so an
// interrupted run never leaves a truncated file behind.
func downloadToFile(ctx context.Context, cfg config.Config, dest string) (int64, int) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error("Failed to create destination directory", "dir", dir, "error", err)
		return 0, ExitArtifactError
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		log.Error("Failed to create temp file", "error", err)
		return 0, ExitArtifactError
	}
	defer os.Remove(tmp.Name())

	log.Info("Fetching delegation data, this may take a few minutes", "url", cfg.URL)

	client := fetch.NewClient(fetch.Options{
		Timeout:   cfg.Timeout,
		UserAgent: "chnroutes/" + version,
	})

	var display io.Writer
	if cfg.Progress {
		display = os.Stderr
	}

	n, err := client.Download(ctx, cfg.URL, tmp, fetch.DownloadOptions{
		ChunkSize: int(cfg.ChunkSize),
		Progress:  display,
	})
	if err != nil {
		tmp.Close()
		if ctx.Err() != nil {
			log.Warn("Download interrupted")
			return 0, ExitGeneralError
		}
		log.Error("Download failed", "url", cfg.URL, "error", err)
		return 0, ExitSourceNotAccess
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		log.Error("Failed to sync temp file", "error", err)
		return 0, ExitArtifactError
	}
	if err := tmp.Close(); err != nil {
		log.Error("Failed to close temp file", "error", err)
		return 0, ExitArtifactError
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		log.Error("Failed to finalize file", "path", dest, "error", err)
		return 0, ExitArtifactError
	}

	return n, ExitSuccess
}
