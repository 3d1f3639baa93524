// Command multikey replays a JSONC operation script against a multikey.Map
// and prints the result of every operation.
//
//	multikey --script ops.jsonc --hashes --algorithm sha256
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/tailored-agentic-units/multikey/multikey"
	"github.com/tailored-agentic-units/multikey/observability"
)

func main() {
	var (
		scriptFile = flag.String("script", "", "Path to operation script, JSON with comments (required)")
		configFile = flag.String("config", "", "Path to map config file")
		algorithm  = flag.String("algorithm", "", "Digest algorithm: sha1, sha256, xxhash64 (overrides config)")
		hashes     = flag.Bool("hashes", false, "Register content digests of stored items (overrides config)")
		logLevel   = flag.String("log-level", "info", "Lowest event severity logged: trace, debug, info, warn, error")
		verbose    = flag.BoolP("verbose", "v", false, "Log every map event (same as --log-level debug)")
	)
	flag.Parse()

	if *scriptFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: multikey --script <file> [--config <file>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := multikey.DefaultConfig()
	if *configFile != "" {
		loaded, err := multikey.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *algorithm != "" {
		cfg.Hashing.Algorithm = *algorithm
	}
	if *hashes {
		cfg.RegisterHashes = true
	}

	threshold, err := observability.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid --log-level: %v", err)
	}
	if *verbose {
		threshold = observability.LevelVerbose
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: threshold.SlogLevel()}))
	logger.Debug("logging configured", "threshold", threshold.String())
	rec := observability.NewRecorder()
	observability.RegisterObserver("cli", observability.NewMultiObserver(
		observability.NewSlogObserver(logger), rec,
	))
	cfg.Observer = "cli"

	m, err := multikey.NewFromConfig[string, any](&cfg)
	if err != nil {
		log.Fatalf("Failed to create map: %v", err)
	}

	data, err := os.ReadFile(*scriptFile)
	if err != nil {
		log.Fatalf("Failed to read script: %v", err)
	}

	ops, err := parseScript(data)
	if err != nil {
		log.Fatalf("Failed to parse script: %v", err)
	}

	failed := runScript(os.Stdout, m, ops)

	logger.Info("script complete",
		"operations", len(ops),
		"failed", failed,
		"appended", len(rec.OfType(multikey.EventSlotAppend)),
		"overwritten", len(rec.OfType(multikey.EventSlotOverwrite)),
		"rejected", len(rec.OfType(multikey.EventError)),
	)

	if failed > 0 {
		os.Exit(1)
	}
}
