package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/Clouded-Sabre/chnroutes/internal/config"
)

// Exit codes
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitInvalidArgs         = 2
	ExitSourceNotAccess     = 3
	ExitParseError          = 4
	ExitArtifactError       = 5
	ExitUnsupportedPlatform = 6
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment")
	}

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "generate":
		return runGenerate(cmdArgs)
	case "fetch":
		return runFetch(cmdArgs)
	case "routes":
		return runRoutes(cmdArgs)
	case "version", "-v", "--version":
		fmt.Printf("chnroutes %s\n", version)
		return ExitSuccess
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: chnroutes <command> [options]

Commands:
  generate  Fetch delegation data and write routing scripts for a platform
  fetch     Download the delegation file for later offline use
  routes    Print the extracted route list to stdout
  version   Print the version

Run 'chnroutes <command> -h' for command-specific help.`)
}

// loadConfig resolves the effective configuration: defaults, then the
// optional config file, then CHNROUTES_ environment variables, then
// flag overrides.
func loadConfig(path string, overrides config.Config, noProgress bool) (config.Config, int) {
	cfg := config.Default()

	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			log.Error("Failed to load config file", "path", path, "error", err)
			return config.Config{}, ExitInvalidArgs
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		log.Error("Invalid environment configuration", "error", err)
		return config.Config{}, ExitInvalidArgs
	}

	cfg = cfg.Merge(overrides)
	if noProgress {
		cfg.Progress = false
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		return config.Config{}, ExitInvalidArgs
	}

	return cfg, ExitSuccess
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, shutting down")
		cancel()
	}()

	return ctx, cancel
}
