// Command scheduler runs one pass of the Scheduler Driver over a window of
// user creation dates, requesting transitions for users whose revision or
// item migration is not yet Verified.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/syncd-project/syncd/internal/clock"
	"github.com/syncd-project/syncd/internal/eventbus"
	"github.com/syncd-project/syncd/internal/logging"
	"github.com/syncd-project/syncd/internal/server/config"
	"github.com/syncd-project/syncd/internal/server/repositories/repomanager"
	"github.com/syncd-project/syncd/internal/transition"
)

// dateLayouts are the accepted forms for the positional startDate/endDate
// arguments: RFC 3339 or a bare YYYY-MM-DD date. This list is separate from
// clock.ParseDate's layouts, which are not accepted here.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, lastErr)
}

func main() {
	correlation := clock.NowMicros()
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))).With("correlation", correlation)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "scheduler run failed", "error", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func run(ctx context.Context, log logging.Logger) error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: scheduler <startDate> <endDate> <forceRun>")
	}

	start, err := parseDate(os.Args[1])
	if err != nil {
		return fmt.Errorf("parsing startDate: %w", err)
	}
	end, err := parseDate(os.Args[2])
	if err != nil {
		return fmt.Errorf("parsing endDate: %w", err)
	}
	forceRun := os.Args[3] == "true"

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

	publisher, err := eventbus.NewSNSPublisher(ctx, cfg.EventBusRegion, cfg.EventBusEndpoint)
	if err != nil {
		return fmt.Errorf("constructing event publisher: %w", err)
	}

	scheduler := transition.NewScheduler(
		manager.Users(db),
		manager.TransitionStatuses(db),
		publisher,
		cfg.TransitionRequestedTopicARN,
		log,
	)

	result, err := scheduler.Run(ctx, start, end, forceRun)
	if err != nil {
		return fmt.Errorf("scheduler run: %w", err)
	}

	log.Info(ctx, "scheduler run complete",
		"usersScanned", result.UsersScanned,
		"transitionsRequested", result.TransitionsRequested,
	)
	return nil
}
