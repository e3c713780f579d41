package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid marks configuration errors. They are detected before any
// snapshot operation runs.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Mountpoint string          `yaml:"mountpoint" env:"MOUNTPOINT"`
	Subvolume  string          `yaml:"subvolume" env:"SUBVOLUME"`
	Prefix     string          `yaml:"prefix" env:"PREFIX"`
	Writable   bool            `yaml:"writable" env:"WRITABLE"`
	DryRun     bool            `yaml:"dryRun" env:"DRY_RUN"`
	Schedule   string          `yaml:"schedule" env:"SCHEDULE"` // cron expression; empty = single run
	Retention  RetentionConfig `yaml:"retention" envPrefix:"RETENTION_"`
	Logging    LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
}

type RetentionConfig struct {
	Daily      int    `yaml:"daily" env:"DAILY"`
	Weekly     int    `yaml:"weekly" env:"WEEKLY"`
	Monthly    int    `yaml:"monthly" env:"MONTHLY"`
	WeekAnchor string `yaml:"weekAnchor" env:"WEEK_ANCHOR"` // weekday name or 0..6 (0 = Sunday)
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // "error", "info", "debug"
	Format string `yaml:"format" env:"FORMAT"` // "text", "json"
}

// Default returns the configuration used when neither file, environment,
// nor flags say otherwise.
func Default() Config {
	return Config{
		Prefix: "snapshot",
		Retention: RetentionConfig{
			Daily:      7,
			Weekly:     4,
			Monthly:    12,
			WeekAnchor: "monday",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration before any provider call. All
// violations wrap ErrInvalid.
func (c *Config) Validate() error {
	switch {
	case c.Mountpoint == "":
		return fmt.Errorf("%w: mountpoint is required", ErrInvalid)
	case c.Subvolume == "":
		return fmt.Errorf("%w: subvolume is required", ErrInvalid)
	case c.Prefix == "":
		return fmt.Errorf("%w: prefix is required", ErrInvalid)
	case strings.Contains(c.Prefix, "/"):
		return fmt.Errorf("%w: prefix must not contain %q", ErrInvalid, "/")
	}
	if c.Retention.Daily < 0 || c.Retention.Weekly < 0 || c.Retention.Monthly < 0 {
		return fmt.Errorf("%w: tier counts must not be negative", ErrInvalid)
	}
	if _, err := c.Retention.Anchor(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "error", "info", "debug":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// Anchor resolves the configured week anchor into a weekday. It accepts a
// weekday name ("monday") or a number 0..6 with 0 meaning Sunday.
func (r RetentionConfig) Anchor() (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(r.WeekAnchor))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == s {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("%w: week anchor %q", ErrInvalid, r.WeekAnchor)
}
