package provider

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/m4nue1X/backuptools/internal/logging"
	"github.com/m4nue1X/backuptools/internal/snapshot"
)

// RunCommand executes one external command and returns its combined
// output. Injected so tests can fake the btrfs CLI.
type RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Btrfs drives the btrfs CLI to create and delete dated snapshots under a
// mountpoint. Snapshots live at "{mount}/{prefix}-{YYYY-MM-DD}" next to the
// live subvolume "{mount}/{subvolume}".
type Btrfs struct {
	mount    string
	subvol   string
	prefix   string
	writable bool
	run      RunCommand
	log      logging.Logger
}

// NewBtrfs creates the adapter. A nil run falls back to real command
// execution.
func NewBtrfs(mount, subvol, prefix string, writable bool, log logging.Logger, run RunCommand) *Btrfs {
	if run == nil {
		run = execCommand
	}
	return &Btrfs{
		mount:    mount,
		subvol:   subvol,
		prefix:   prefix,
		writable: writable,
		run:      run,
		log:      log,
	}
}

func (b *Btrfs) livePath() string {
	return filepath.Join(b.mount, b.subvol)
}

func (b *Btrfs) snapshotPath(date time.Time) string {
	return filepath.Join(b.mount, snapshot.Name(b.prefix, date))
}

// List scans the mountpoint for directories matching the snapshot name
// pattern. Entries with other names belong to someone else and are
// ignored.
func (b *Btrfs) List(ctx context.Context) ([]time.Time, error) {
	entries, err := os.ReadDir(b.mount)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, b.mount, err)
	}
	if _, err := os.Stat(b.livePath()); err != nil {
		return nil, fmt.Errorf("%w: live subvolume %s: %v", ErrUnavailable, b.livePath(), err)
	}

	var dates []time.Time
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		date, ok := snapshot.ParseName(b.prefix, ent.Name())
		if !ok {
			continue
		}
		b.log.Debug("found snapshot", "name", ent.Name())
		dates = append(dates, date)
	}
	return dates, nil
}

// Create runs "btrfs subvolume snapshot" for date, read-only unless the
// adapter was configured writable.
func (b *Btrfs) Create(ctx context.Context, date time.Time) error {
	target := b.snapshotPath(date)
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, target)
	}
	if _, err := os.Stat(b.livePath()); err != nil {
		return fmt.Errorf("live subvolume %s: %w", b.livePath(), err)
	}

	args := []string{"subvolume", "snapshot"}
	if !b.writable {
		args = append(args, "-r")
	}
	args = append(args, b.livePath(), target)

	b.log.Debug("creating snapshot", "target", target, "writable", b.writable)
	if out, err := b.run(ctx, "btrfs", args...); err != nil {
		return fmt.Errorf("btrfs snapshot %s: %w: %s", target, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Delete runs "btrfs subvolume delete" for date.
func (b *Btrfs) Delete(ctx context.Context, date time.Time) error {
	target := b.snapshotPath(date)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, target)
	}

	b.log.Debug("deleting snapshot", "target", target)
	if out, err := b.run(ctx, "btrfs", "subvolume", "delete", target); err != nil {
		return fmt.Errorf("btrfs delete %s: %w: %s", target, err, strings.TrimSpace(string(out)))
	}
	return nil
}
