package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/pkg/distlock"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
	"github.com/ignite/reminder-optimizer/internal/whatsapp"
	"github.com/ignite/reminder-optimizer/internal/workspace"
)

const dispatchLockTTL = 10 * time.Minute

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (defaults apply when empty)")
		dryRun     = flag.Bool("dry-run", false, "flag due clients without dispatching messages")
	)
	flag.Parse()

	// Credentials come from the environment even on config-less runs.
	cfg := config.DefaultFromEnv()
	if *configPath != "" {
		loaded, err := config.LoadFromEnv(*configPath)
		if err != nil {
			logger.Error("load config", "path", *configPath, "error", err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx := context.Background()

	// A Redis run lock keeps overlapping scheduled runs from double-texting
	// the same clients. Without Redis configured, runs are unguarded.
	if cfg.Storage.RedisAddr != "" && !*dryRun {
		lock := distlock.NewRedisLock(cfg.Storage.RedisAddr, "reminder-dispatch", dispatchLockTTL)
		ok, err := lock.Acquire(ctx)
		if err != nil {
			logger.Error("acquire dispatch lock", "error", err.Error())
			os.Exit(1)
		}
		if !ok {
			logger.Info("another dispatch run holds the lock, exiting")
			return
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				logger.Warn("release dispatch lock", "error", err.Error())
			}
		}()
	}

	store := workspace.NewClient(cfg.Workspace)
	sender := whatsapp.NewClient(cfg.WhatsApp)

	clients, err := store.Clients(ctx)
	if err != nil {
		logger.Error("fetch clients from workspace", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("fetched client records", "count", len(clients))

	now := time.Now()
	due, dispatched := 0, 0
	for _, rec := range clients {
		flagged, err := workspace.IsDue(rec.DueDate, now)
		if err != nil {
			logger.Warn("skipping client with invalid due date",
				"client_id", rec.ID, "due_date", rec.DueDate, "error", err.Error())
			continue
		}
		if !flagged {
			continue
		}
		due++

		logger.Info("client due for reminder",
			"client_id", rec.ID,
			"name", rec.Name,
			"phone", rec.PhoneNumber,
			"due_date", rec.DueDate,
			"pending_amount", rec.PendingAmount)

		if *dryRun {
			continue
		}
		sender.SendReminder(ctx, rec)
		dispatched++
	}

	logger.Info("reminder run complete", "due", due, "dispatched", dispatched, "total", len(clients))
}
