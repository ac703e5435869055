package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/Clouded-Sabre/chnroutes/internal/artifact"
	"github.com/Clouded-Sabre/chnroutes/internal/config"
	"github.com/Clouded-Sabre/chnroutes/internal/fetch"
	"github.com/Clouded-Sabre/chnroutes/internal/script"
	"github.com/Clouded-Sabre/chnroutes/pkg/delegation"
)

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	var platformFlag string
	var metricFlag int

	fs.StringVar(&platformFlag, "platform", "", "Target platform: openvpn, linux, mac, win, android")
	fs.StringVar(&platformFlag, "p", "", "Shorthand for -platform")
	fs.IntVar(&metricFlag, "metric", 0, "Metric for the generated route rules (0 selects the default)")
	fs.IntVar(&metricFlag, "m", 0, "Shorthand for -metric")

	url := fs.String("url", "", "Delegation file URL")
	registry := fs.String("registry", "", "Registry that publishes the delegation file")
	country := fs.String("country", "", "ISO 3166 country code to extract")
	input := fs.String("input", "", "Read delegation data from a local file instead of downloading")
	output := fs.String("output", "", "Directory to write the scripts into")
	bucket := fs.String("bucket", "", "Also publish the scripts to this bucket URL (s3://, gs://, file://)")
	prefix := fs.String("prefix", "", "Object key prefix when publishing to a bucket")
	configPath := fs.String("config", "", "Path to a YAML config file")
	noProgress := fs.Bool("no-progress", false, "Disable the download progress display")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: chnroutes generate [options]

Fetch the registry delegation file, extract the configured country's
IPv4 allocations, and write routing scripts for the target platform.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{
		URL:      *url,
		Registry: *registry,
		Country:  *country,
		Platform: platformFlag,
		Metric:   metricFlag,
		Output:   *output,
		Bucket:   *bucket,
		Prefix:   *prefix,
	}, *noProgress)
	if code != ExitSuccess {
		return code
	}

	// Reject an unsupported platform before the download, not after.
	platform, err := script.Resolve(cfg.Platform)
	if err != nil {
		log.Error("Unsupported platform", "error", err)
		return ExitUnsupportedPlatform
	}

	ctx, cancel := signalContext()
	defer cancel()

	text, code := loadDelegation(ctx, cfg, *input)
	if code != ExitSuccess {
		return code
	}

	log.Info("Extracting allocations", "registry", cfg.Registry, "country", cfg.Country)

	routes, err := delegation.Extract(text, delegation.Filter{
		Registry: cfg.Registry,
		Country:  cfg.Country,
	})
	if err != nil {
		var perr *delegation.ParseError
		if errors.As(err, &perr) {
			log.Error("Delegation file is malformed", "line", perr.Line, "error", perr.Err)
		} else {
			log.Error("Extraction failed", "error", err)
		}
		return ExitParseError
	}

	log.Info("Extraction complete", "routes", len(routes))
	log.Info("Generating routing scripts", "platform", platform)

	result, err := script.Generate(platform, routes, script.Options{Metric: cfg.Metric})
	if err != nil {
		log.Error("Script generation failed", "error", err)
		return ExitGeneralError
	}

	if err := artifact.WriteDir(cfg.Output, result.Files); err != nil {
		log.Error("Failed to write artifacts", "dir", cfg.Output, "error", err)
		return ExitArtifactError
	}
	for _, f := range result.Files {
		log.Info("Wrote artifact", "file", f.Name, "dir", cfg.Output)
	}

	if cfg.Bucket != "" {
		if code := publishArtifacts(ctx, cfg, result.Files); code != ExitSuccess {
			return code
		}
	}

	fmt.Println(result.Hint)
	return ExitSuccess
}

// loadDelegation returns the delegation file text, either from a local
// file or by downloading it from the configured URL.
func loadDelegation(ctx context.Context, cfg config.Config, input string) (string, int) {
	if input != "" {
		log.Info("Reading delegation data", "path", input)

		data, err := os.ReadFile(input)
		if err != nil {
			log.Error("Failed to read input file", "path", input, "error", err)
			return "", ExitSourceNotAccess
		}
		return string(data), ExitSuccess
	}

	log.Info("Fetching delegation data, this may take a few minutes", "url", cfg.URL)

	client := fetch.NewClient(fetch.Options{
		Timeout:   cfg.Timeout,
		UserAgent: "chnroutes/" + version,
	})

	var display io.Writer
	if cfg.Progress {
		display = os.Stderr
	}

	var buf bytes.Buffer
	if _, err := client.Download(ctx, cfg.URL, &buf, fetch.DownloadOptions{
		ChunkSize: int(cfg.ChunkSize),
		Progress:  display,
	}); err != nil {
		if ctx.Err() != nil {
			log.Warn("Download interrupted")
			return "", ExitGeneralError
		}
		log.Error("Download failed", "url", cfg.URL, "error", err)
		return "", ExitSourceNotAccess
	}

	return buf.String(), ExitSuccess
}

// publishArtifacts opens the configured bucket and uploads the rendered
// files under the configured prefix.
func publishArtifacts(ctx context.Context, cfg config.Config, files []script.File) int {
	bkt, err := blob.OpenBucket(ctx, cfg.Bucket)
	if err != nil {
		log.Error("Failed to open bucket", "bucket", cfg.Bucket, "error", err)
		return ExitArtifactError
	}
	defer bkt.Close()

	if err := artifact.Publish(ctx, bkt, cfg.Prefix, files); err != nil {
		log.Error("Failed to publish artifacts", "bucket", cfg.Bucket, "error", err)
		return ExitArtifactError
	}

	log.Info("Published artifacts", "bucket", cfg.Bucket, "files", len(files))
	return ExitSuccess
}
