package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m4nue1X/backuptools/internal/snapshot"
)

type deletionFailure struct {
	date time.Time
	err  error
}

// DeletionError aggregates per-snapshot deletion failures from one run.
// The run itself completed and the remaining deletions were still
// attempted; callers decide whether partial failure is fatal at their
// boundary.
type DeletionError struct {
	Attempted int
	failures  []deletionFailure
}

// Failed returns how many deletions failed.
func (e *DeletionError) Failed() int {
	return len(e.failures)
}

// Dates returns the dates whose deletion failed, in attempt order.
func (e *DeletionError) Dates() []time.Time {
	out := make([]time.Time, len(e.failures))
	for i, f := range e.failures {
		out[i] = f.date
	}
	return out
}

func (e *DeletionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d deletions failed:", len(e.failures), e.Attempted)
	for _, f := range e.failures {
		fmt.Fprintf(&b, " %s: %v;", f.date.Format(snapshot.DateLayout), f.err)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (e *DeletionError) Unwrap() error {
	errs := make([]error, len(e.failures))
	for i, f := range e.failures {
		errs[i] = f.err
	}
	return errors.Join(errs...)
}
