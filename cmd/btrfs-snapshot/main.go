// Command btrfs-snapshot maintains a rolling set of dated btrfs snapshots
// under a tiered daily/weekly/monthly retention policy. It runs once per
// invocation; an optional cron schedule keeps it resident for environments
// without an external timer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m4nue1X/backuptools/internal/config"
	"github.com/m4nue1X/backuptools/internal/engine"
	"github.com/m4nue1X/backuptools/internal/logging"
	"github.com/m4nue1X/backuptools/internal/provider"
	"github.com/m4nue1X/backuptools/internal/retention"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("btrfs-snapshot", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	mount := fs.String("mount", "", "btrfs mountpoint")
	subvol := fs.String("subvolume", "", "live subvolume name under the mountpoint")
	prefix := fs.String("prefix", "", "snapshot name prefix")
	daily := fs.Int("daily", 0, "daily snapshots to keep")
	weekly := fs.Int("weekly", 0, "weekly snapshots to keep")
	monthly := fs.Int("monthly", 0, "monthly snapshots to keep")
	anchor := fs.String("anchor", "", "week anchor weekday (name or 0..6, 0 = Sunday)")
	writable := fs.Bool("writable", false, "create writable snapshots instead of read-only")
	dryRun := fs.Bool("dry-run", false, "list and compute only, suppress create/delete")
	schedule := fs.String("schedule", "", "cron expression; empty runs once and exits")
	logLevel := fs.String("log-level", "", "log level: error, info or debug")
	logFormat := fs.String("log-format", "", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return 1
	}

	// Flags set on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mount":
			cfg.Mountpoint = *mount
		case "subvolume":
			cfg.Subvolume = *subvol
		case "prefix":
			cfg.Prefix = *prefix
		case "daily":
			cfg.Retention.Daily = *daily
		case "weekly":
			cfg.Retention.Weekly = *weekly
		case "monthly":
			cfg.Retention.Monthly = *monthly
		case "anchor":
			cfg.Retention.WeekAnchor = *anchor
		case "writable":
			cfg.Writable = *writable
		case "dry-run":
			cfg.DryRun = *dryRun
		case "schedule":
			cfg.Schedule = *schedule
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	anchorDay, _ := cfg.Retention.Anchor()

	logg := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	var prov provider.Provider = provider.NewBtrfs(
		cfg.Mountpoint,
		cfg.Subvolume,
		cfg.Prefix,
		cfg.Writable,
		logg,
		nil, // real command execution
	)
	if cfg.DryRun {
		logg.Info("dry-run mode: create/delete suppressed")
		prov = provider.DryRun{Inner: prov, Log: logg}
	}

	eng := engine.New(retention.Policy{
		Daily:      cfg.Retention.Daily,
		Weekly:     cfg.Retention.Weekly,
		Monthly:    cfg.Retention.Monthly,
		WeekAnchor: anchorDay,
	}, prov, logg)

	if cfg.Schedule == "" {
		return runOnce(eng, logg)
	}
	return runScheduled(cfg.Schedule, eng, logg)
}

func runOnce(eng *engine.Engine, logg logging.Logger) int {
	res, err := eng.Run(context.Background(), time.Now())
	report(res, logg)
	if err != nil {
		logg.Error("run failed", "error", err)
		return 1
	}
	return 0
}

// runScheduled keeps the process resident and triggers a run on each cron
// tick until SIGINT or SIGTERM. The engine itself stays one-shot; the
// schedule merely stands in for an external timer.
func runScheduled(expr string, eng *engine.Engine, logg logging.Logger) int {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		res, err := eng.Run(context.Background(), time.Now())
		report(res, logg)
		if err != nil {
			logg.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		logg.Error("invalid schedule", "schedule", expr, "error", err)
		return 1
	}

	c.Start()
	logg.Info("running on schedule", "schedule", expr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logg.Info("shutting down")
	<-c.Stop().Done()
	return 0
}

func report(res engine.RunResult, logg logging.Logger) {
	created := "none"
	if res.Created != nil {
		created = res.Created.Format("2006-01-02")
	}
	logg.Info("run complete", "created", created, "deleted", strconv.Itoa(len(res.Deleted)))
}
