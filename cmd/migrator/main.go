// Command migrator runs one Migrator.Run attempt for a single user and
// transition type. It is the worker process an external task launcher
// spawns in response to a TransitionRequestedEvent.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/google/uuid"

	"github.com/syncd-project/syncd/internal/clock"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/eventbus"
	"github.com/syncd-project/syncd/internal/logging"
	"github.com/syncd-project/syncd/internal/server/config"
	"github.com/syncd-project/syncd/internal/server/repositories/repomanager"
	"github.com/syncd-project/syncd/internal/transition"
)

func main() {
	correlation := clock.NowMicros()
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))).With("correlation", correlation)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "migration run failed", "error", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run(ctx context.Context, log logging.Logger) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: migrator <userId> <transitionType>")
	}

	userID, err := uuid.Parse(os.Args[1])
	if err != nil {
		return fmt.Errorf("parsing userId: %w", err)
	}

	transitionType := domain.TransitionType(os.Args[2])
	if transitionType != domain.TransitionItems && transitionType != domain.TransitionRevisions {
		return fmt.Errorf("unknown transition type %q", os.Args[2])
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.PrimaryDatabaseDSN)
	if err != nil {
		return fmt.Errorf("opening primary database: %w", err)
	}
	defer db.Close()

	manager, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return fmt.Errorf("constructing repository manager: %w", err)
	}

	secondary, err := repomanager.NewSecondaryRevisions(ctx, cfg.SecondaryRegion, cfg.SecondaryEndpoint, cfg.SecondaryTableName)
	if err != nil {
		return fmt.Errorf("constructing secondary revision store: %w", err)
	}

	publisher, err := eventbus.NewSNSPublisher(ctx, cfg.EventBusRegion, cfg.EventBusEndpoint)
	if err != nil {
		return fmt.Errorf("constructing event publisher: %w", err)
	}

	primary := manager.PrimaryRevisions(db)
	statuses := manager.TransitionStatuses(db)
	verifier := transition.NewVerifier(primary, secondary, statuses, cfg.MigrationPageSize, log)
	migrator := transition.NewMigrator(
		primary,
		secondary,
		statuses,
		publisher,
		verifier,
		cfg.TransitionStatusUpdatedTopicARN,
		cfg.MigrationPageSize,
		cfg.ReplicationLagSleep,
		log,
	)

	result, err := migrator.Run(ctx, userID, transitionType)
	if err != nil {
		return fmt.Errorf("migration run: %w", err)
	}

	log.Info(ctx, "migration run complete",
		"user", userID,
		"type", transitionType,
		"status", result.Status,
		"elapsedMicros", result.ElapsedMicros,
	)
	return nil
}
