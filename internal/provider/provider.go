// Package provider abstracts the snapshot tooling behind a capability
// interface and supplies the btrfs-backed implementation. The engine only
// sees dates; name derivation and command invocation live here.
package provider

import (
	"context"
	"time"
)

// Provider exposes the three snapshot operations the engine needs, keyed
// by calendar date.
type Provider interface {
	// List enumerates the dates of existing snapshots. It fails when the
	// snapshot location is invalid instead of silently reporting an empty
	// set.
	List(ctx context.Context) ([]time.Time, error)

	// Create makes the snapshot for date. It fails if a snapshot with that
	// name already exists or the live subvolume is missing.
	Create(ctx context.Context, date time.Time) error

	// Delete removes the snapshot for date. It fails if it does not exist.
	Delete(ctx context.Context, date time.Time) error
}
