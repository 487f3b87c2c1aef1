package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/config"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	brokerURL := flag.String("broker", "", "object-storage broker URL (overrides the config file)")
	configPath := flag.String("config", "config.yaml", "config file supplying upload.broker_url")
	dir := flag.String("path", "", "directory containing set videos (required)")
	dryRun := flag.Bool("dry-run", false, "scan and validate but don't upload")
	viewKey := flag.String("view", "", "print a playback URL for a stored key and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymroutine-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// The config file is optional here; the -broker flag wins when both
	// are present.
	if *brokerURL == "" {
		if cfg, err := config.Load(*configPath); err == nil {
			*brokerURL = cfg.Upload.BrokerURL
		}
	}

	if *viewKey != "" {
		if *brokerURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -broker is required with -view\n")
			os.Exit(1)
		}
		url, err := upload.NewClient(strings.TrimRight(*brokerURL, "/")).RequestViewURL(*viewKey)
		if err != nil {
			log.Error("view url request failed", "key", *viewKey, "error", err)
			os.Exit(1)
		}
		fmt.Println(url)
		return
	}

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymroutine-upload -broker <URL> -path <video dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *brokerURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -broker is required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("video directory not found", "path", *dir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".gymroutine-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(strings.TrimRight(*brokerURL, "/"))
	}

	if *dryRun {
		log.Info("DRY RUN mode: files will be scanned and validated but not sent")
	}

	uploader := upload.New(client, state, *dir, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded or rejected)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Printf("  Bytes sent:       %d\n", stats.BytesSent)

	if len(stats.Rejected) > 0 {
		fmt.Printf("\n  Rejected files (not accepted video formats or over the size cap):\n")
		for _, f := range stats.Rejected {
			fmt.Printf("    - %s\n", f)
		}
	}
	fmt.Println()
}
