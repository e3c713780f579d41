package provider

import (
	"context"
	"time"

	"github.com/m4nue1X/backuptools/internal/logging"
	"github.com/m4nue1X/backuptools/internal/snapshot"
)

// DryRun wraps a Provider so the engine can run its full decision flow
// without side effects: List passes through, Create and Delete are logged
// and suppressed.
type DryRun struct {
	Inner Provider
	Log   logging.Logger
}

func (d DryRun) List(ctx context.Context) ([]time.Time, error) {
	return d.Inner.List(ctx)
}

func (d DryRun) Create(ctx context.Context, date time.Time) error {
	d.Log.Info("dry-run: would create snapshot", "date", date.Format(snapshot.DateLayout))
	return nil
}

func (d DryRun) Delete(ctx context.Context, date time.Time) error {
	d.Log.Info("dry-run: would delete snapshot", "date", date.Format(snapshot.DateLayout))
	return nil
}
