package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"go.uber.org/multierr"

	"github.com/seantiz/asyncdemo/internal/api"
	"github.com/seantiz/asyncdemo/internal/config"
	"github.com/seantiz/asyncdemo/internal/engine"
	"github.com/seantiz/asyncdemo/internal/fetch"
	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/scenario"
	"github.com/seantiz/asyncdemo/internal/schedule"
	"github.com/seantiz/asyncdemo/internal/store"
)

const usage = `usage: asyncdemo [serve]

With no arguments the comparison runs once and the program exits.
serve starts the HTTP API and, if configured, the scheduler.`

func main() {
	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if mode != "" && mode != "serve" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	reg := scenario.NewRegistry()
	scenario.RegisterDefaults(reg, scenario.Defaults{
		FanOut:      cfg.FanOut,
		FetchFanOut: cfg.FetchFanOut,
		Client:      fetch.NewClient(cfg.FetchURL, cfg.FetchTimeout),
		Store:       db,
	})

	opts := engine.Options{Delay: cfg.Delay, RunTimeout: cfg.RunTimeout}
	if mode == "" {
		opts.Console = os.Stdout
	}
	eng := engine.NewEngine(db, reg, logger, opts)

	if mode == "serve" {
		err = serve(cfg, db, reg, eng, logger)
	} else {
		compare(eng, logger)
	}

	if cerr := db.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("close database: %w", cerr))
	}
	if err != nil {
		log.Fatalf("asyncdemo: %v", err)
	}
}

// compare runs every scenario once, in order, echoing progress to stdout.
// Individual failures are logged and do not stop the comparison.
func compare(eng *engine.Engine, logger *slog.Logger) {
	fmt.Println("Starting comparison..")
	for _, name := range model.ComparisonOrder {
		r, err := eng.Run(context.Background(), engine.NewRun(name, nil, nil))
		if err != nil {
			logger.Error("run scenario", "scenario", name, "error", err)
			continue
		}
		if r.Status == model.StatusFailed {
			logger.Warn("scenario failed", "scenario", name, "run_id", r.ID, "error", r.Error)
		}
	}
	fmt.Println("Done!")
}

func serve(cfg config.Config, db store.Store, reg *scenario.Registry, eng *engine.Engine, logger *slog.Logger) error {
	logger.Info("asyncdemo: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	var sch *schedule.Scheduler
	if cfg.Schedule != "" {
		if !reg.Has(cfg.ScheduleScenario) {
			return fmt.Errorf("schedule: unknown scenario %q", cfg.ScheduleScenario)
		}
		var err error
		sch, err = schedule.New(cfg.Schedule, cfg.ScheduleScenario, eng, logger)
		if err != nil {
			return err
		}
		sch.Start()
		logger.Info("scheduler started", "schedule", cfg.Schedule, "scenario", cfg.ScheduleScenario)
	}

	srv := api.NewServer(cfg.ListenAddr, db, reg, eng, logger)
	err := srv.Run()

	// Stop scheduling before draining so no run is submitted after Wait.
	if sch != nil {
		<-sch.Stop().Done()
	}
	eng.Wait()
	return err
}
