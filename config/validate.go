package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFlatfile, BackendBadger:
	default:
		return fmt.Errorf("store.backend must be %s or %s (got %q)", BackendFlatfile, BackendBadger, c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}

	if err := c.AI.Provider().Validate(); err != nil {
		return err
	}

	if c.Analysis.Threshold < -1 || c.Analysis.Threshold > 1 {
		return fmt.Errorf("analysis.threshold must be within [-1, 1] (got %v)", c.Analysis.Threshold)
	}
	if c.Analysis.TopK <= 0 {
		return fmt.Errorf("analysis.top_k must be > 0 (got %d)", c.Analysis.TopK)
	}
	if c.Analysis.Pace < 0 {
		return fmt.Errorf("analysis.pace must be >= 0 (got %v)", c.Analysis.Pace)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}

// ParseLevel maps debug, info, warn and error to their slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
}
