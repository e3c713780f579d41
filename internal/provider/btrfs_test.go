package provider_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m4nue1X/backuptools/internal/logging"
	"github.com/m4nue1X/backuptools/internal/provider"
)

// fakeRunner records every command instead of executing it.
type fakeRunner struct {
	commands []string
	err      error
	output   string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))
	return []byte(f.output), f.err
}

func newMount(t *testing.T) string {
	t.Helper()
	mount := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(mount, "live"), 0o755))
	return mount
}

func addSnapshot(t *testing.T, mount, name string) {
	t.Helper()
	require.NoError(t, os.Mkdir(filepath.Join(mount, name), 0o755))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestListReturnsMatchingSnapshots(t *testing.T) {
	mount := newMount(t)
	addSnapshot(t, mount, "snapshot-2024-03-14")
	addSnapshot(t, mount, "snapshot-2024-03-15")

	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, (&fakeRunner{}).run)
	dates, err := b.List(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []time.Time{date(2024, time.March, 14), date(2024, time.March, 15)}, dates)
}

func TestListIgnoresForeignEntries(t *testing.T) {
	mount := newMount(t)
	addSnapshot(t, mount, "snapshot-2024-03-14")
	addSnapshot(t, mount, "other-2024-03-14")
	addSnapshot(t, mount, "snapshot-garbage")
	require.NoError(t, os.WriteFile(filepath.Join(mount, "snapshot-2024-03-15"), nil, 0o644)) // a file, not a subvolume

	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, (&fakeRunner{}).run)
	dates, err := b.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []time.Time{date(2024, time.March, 14)}, dates)
}

func TestListFailsOnMissingMountpoint(t *testing.T) {
	b := provider.NewBtrfs("/does/not/exist", "live", "snapshot", false, logging.Nop{}, (&fakeRunner{}).run)
	_, err := b.List(context.Background())
	require.ErrorIs(t, err, provider.ErrUnavailable)
}

func TestListFailsOnMissingLiveSubvolume(t *testing.T) {
	mount := t.TempDir() // no "live" inside
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, (&fakeRunner{}).run)
	_, err := b.List(context.Background())
	require.ErrorIs(t, err, provider.ErrUnavailable)
}

func TestCreateReadOnlyCommand(t *testing.T) {
	mount := newMount(t)
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	require.NoError(t, b.Create(context.Background(), date(2024, time.March, 15)))
	require.Len(t, runner.commands, 1)
	want := "btrfs subvolume snapshot -r " +
		filepath.Join(mount, "live") + " " +
		filepath.Join(mount, "snapshot-2024-03-15")
	require.Equal(t, want, runner.commands[0])
}

func TestCreateWritableOmitsReadOnlyFlag(t *testing.T) {
	mount := newMount(t)
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", true, logging.Nop{}, runner.run)

	require.NoError(t, b.Create(context.Background(), date(2024, time.March, 15)))
	require.Len(t, runner.commands, 1)
	require.NotContains(t, runner.commands[0], " -r ")
}

func TestCreateRefusesExistingSnapshot(t *testing.T) {
	mount := newMount(t)
	addSnapshot(t, mount, "snapshot-2024-03-15")
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	err := b.Create(context.Background(), date(2024, time.March, 15))
	require.ErrorIs(t, err, provider.ErrExists)
	require.Empty(t, runner.commands)
}

func TestCreateFailsOnMissingLiveSubvolume(t *testing.T) {
	mount := t.TempDir()
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	err := b.Create(context.Background(), date(2024, time.March, 15))
	require.Error(t, err)
	require.Empty(t, runner.commands)
}

func TestCreateWrapsCommandFailure(t *testing.T) {
	mount := newMount(t)
	runner := &fakeRunner{err: errors.New("exit status 1"), output: "ERROR: not a btrfs filesystem"}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	err := b.Create(context.Background(), date(2024, time.March, 15))
	require.ErrorContains(t, err, "not a btrfs filesystem")
}

func TestDeleteCommand(t *testing.T) {
	mount := newMount(t)
	addSnapshot(t, mount, "snapshot-2024-03-15")
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	require.NoError(t, b.Delete(context.Background(), date(2024, time.March, 15)))
	require.Len(t, runner.commands, 1)
	want := "btrfs subvolume delete " + filepath.Join(mount, "snapshot-2024-03-15")
	require.Equal(t, want, runner.commands[0])
}

func TestDeleteMissingSnapshot(t *testing.T) {
	mount := newMount(t)
	runner := &fakeRunner{}
	b := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)

	err := b.Delete(context.Background(), date(2024, time.March, 15))
	require.ErrorIs(t, err, provider.ErrNotFound)
	require.Empty(t, runner.commands)
}

func TestDryRunSuppressesWrites(t *testing.T) {
	mount := newMount(t)
	addSnapshot(t, mount, "snapshot-2024-03-14")
	runner := &fakeRunner{}
	inner := provider.NewBtrfs(mount, "live", "snapshot", false, logging.Nop{}, runner.run)
	dry := provider.DryRun{Inner: inner, Log: logging.Nop{}}

	dates, err := dry.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []time.Time{date(2024, time.March, 14)}, dates)

	require.NoError(t, dry.Create(context.Background(), date(2024, time.March, 15)))
	require.NoError(t, dry.Delete(context.Background(), date(2024, time.March, 14)))
	require.Empty(t, runner.commands)

	// Nothing changed on disk either.
	_, err = os.Stat(filepath.Join(mount, "snapshot-2024-03-14"))
	require.NoError(t, err)
}
