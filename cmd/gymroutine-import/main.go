package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/config"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/routineio"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to routine JSON document (required)")
	userID := flag.Int("user", 1, "user ID to import the routine for")
	validateOnly := flag.Bool("validate-only", false, "parse and validate without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymroutine-import -config config.yaml -file routine.json [-user N] [-validate-only]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read routine file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	doc, err := routineio.Parse(data)
	if err != nil {
		log.Error("invalid routine document", "error", err)
		os.Exit(1)
	}

	if *validateOnly {
		if err := doc.Validate(); err != nil {
			log.Error("validation failed", "error", err)
			os.Exit(1)
		}
		log.Info("document is valid",
			"routine", doc.Routine.Name,
			"days", len(doc.Routine.Days),
			"exercise_defs", len(doc.Exercises),
		)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	imp := routineio.NewImporter(db, log)
	result, err := imp.Import(ctx, doc, *userID)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"routine", result.RoutineName,
		"routine_id", result.RoutineID,
		"days", result.Days,
		"blocks", result.Blocks,
		"exercises", result.Exercises,
		"exercises_created", result.ExercisesCreated,
	)
}
