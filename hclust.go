package hclust

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Config controls how the merge tree is built.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Linkage is the distance update rule applied after each merge.
	// Default: LinkageAverage.
	Linkage Linkage

	// Workers controls the number of goroutines used by the minimal-pair
	// scan and the matrix extension once enough nodes are active. Results do
	// not depend on it. 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Logger receives progress messages: start and finish at Info, one
	// message per merge at Debug. Default: slog.Default().
	Logger *slog.Logger

	// Metrics observes merges and build timing. Default: a no-op.
	Metrics Metrics
}

// Metrics observes a build. Implementations must be safe for concurrent use
// when several engines are built in parallel.
type Metrics interface {
	// MergeRecorded is called once per merge with its link length.
	MergeRecorded(distance float64)
	// BuildFinished is called after the last merge.
	BuildFinished(leaves int, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) MergeRecorded(float64)            {}
func (nopMetrics) BuildFinished(int, time.Duration) {}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Linkage: LinkageAverage,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Linkage == "" {
		cfg.Linkage = LinkageAverage
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if !cfg.Linkage.valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownLinkage, cfg.Linkage)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0 (0 means NumCPU), got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}
