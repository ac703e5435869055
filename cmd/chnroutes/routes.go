package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Clouded-Sabre/chnroutes/internal/config"
	"github.com/Clouded-Sabre/chnroutes/pkg/delegation"
)

func runRoutes(args []string) int {
	fs := flag.NewFlagSet("routes", flag.ExitOnError)

	url := fs.String("url", "", "Delegation file URL")
	registry := fs.String("registry", "", "Registry that publishes the delegation file")
	country := fs.String("country", "", "ISO 3166 country code to extract")
	input := fs.String("input", "", "Read delegation data from a local file instead of downloading")
	format := fs.String("format", "cidr", "Output format: cidr or mask")
	configPath := fs.String("config", "", "Path to a YAML config file")
	noProgress := fs.Bool("no-progress", false, "Disable the download progress display")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: chnroutes routes [options]

Extract the configured country's IPv4 allocations and print them to
stdout, one route per line, for piping into other tooling.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *format != "cidr" && *format != "mask" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (supported: cidr, mask)\n", *format)
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{
		URL:      *url,
		Registry: *registry,
		Country:  *country,
	}, *noProgress)
	if code != ExitSuccess {
		return code
	}

	ctx, cancel := signalContext()
	defer cancel()

	text, code := loadDelegation(ctx, cfg, *input)
	if code != ExitSuccess {
		return code
	}

	routes, err := delegation.Extract(text, delegation.Filter{
		Registry: cfg.Registry,
		Country:  cfg.Country,
	})
	if err != nil {
		log.Error("Extraction failed", "error", err)
		return ExitParseError
	}

	if err := writeRoutes(os.Stdout, routes, *format); err != nil {
		log.Error("Failed to write routes", "error", err)
		return ExitGeneralError
	}

	return ExitSuccess
}

// writeRoutes prints one route per line in the requested format:
// "cidr" for prefix notation, "mask" for network and dotted mask.
func writeRoutes(w io.Writer, routes []delegation.Route, format string) error {
	for _, r := range routes {
		var err error
		switch format {
		case "mask":
			_, err = fmt.Fprintf(w, "%s %s\n", r.Network, r.Mask)
		default:
			_, err = fmt.Fprintln(w, r.CIDR())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
