// Package engine runs one snapshot-retention cycle: list what exists,
// ensure today's snapshot, compute the retained dates, and delete every
// snapshot no tier justifies.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/m4nue1X/backuptools/internal/logging"
	"github.com/m4nue1X/backuptools/internal/provider"
	"github.com/m4nue1X/backuptools/internal/retention"
	"github.com/m4nue1X/backuptools/internal/snapshot"
)

// Engine orchestrates one run against a provider. It holds no state
// between runs; the snapshot set on disk is the only durable record.
type Engine struct {
	policy   retention.Policy
	provider provider.Provider
	log      logging.Logger
}

func New(policy retention.Policy, p provider.Provider, log logging.Logger) *Engine {
	return &Engine{
		policy:   policy,
		provider: p,
		log:      log,
	}
}

// RunResult reports what one run changed.
type RunResult struct {
	Created *time.Time  // nil when today's snapshot already existed
	Deleted []time.Time // dates whose snapshots were removed, ascending
}

// Run executes one cycle for today's date. Listing and creation failures
// are fatal and abort the run; no deletion is attempted before today's
// snapshot is confirmed to exist. Deletion failures are collected into a
// DeletionError but never stop the remaining deletions.
//
// Today is not exempt from deletion: with all tier counts zero the
// just-created snapshot is removed again in the same run.
func (e *Engine) Run(ctx context.Context, today time.Time) (RunResult, error) {
	day := snapshot.Date(today)
	var res RunResult

	existing, err := e.provider.List(ctx)
	if err != nil {
		return res, fmt.Errorf("listing snapshots: %w", err)
	}
	set := snapshot.NewDateSet(existing...)
	e.log.Debug("listed snapshots", "count", len(set))

	if !set.Contains(day) {
		if err := e.provider.Create(ctx, day); err != nil {
			return res, fmt.Errorf("creating snapshot for %s: %w", day.Format(snapshot.DateLayout), err)
		}
		set.Add(day)
		created := day
		res.Created = &created
		e.log.Info("created snapshot", "date", day.Format(snapshot.DateLayout))
	}

	wanted := retention.Compute(day, e.policy).Union()
	e.log.Debug("computed retained dates", "count", len(wanted))

	var failures []deletionFailure
	for _, date := range set.Sorted() {
		if wanted.Contains(date) {
			continue
		}
		if err := e.provider.Delete(ctx, date); err != nil {
			e.log.Error("deleting snapshot failed", "date", date.Format(snapshot.DateLayout), "error", err)
			failures = append(failures, deletionFailure{date: date, err: err})
			continue
		}
		res.Deleted = append(res.Deleted, date)
		e.log.Info("deleted snapshot", "date", date.Format(snapshot.DateLayout))
	}

	if len(failures) > 0 {
		return res, &DeletionError{
			Attempted: len(failures) + len(res.Deleted),
			failures:  failures,
		}
	}
	return res, nil
}
