package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/hclust"
	hclustprom "github.com/TrevorS/hclust/adapters/prometheus"
	"github.com/TrevorS/hclust/internal/cutoff"
)

// fileConfig is the optional TOML configuration. Flags given on the command
// line take precedence.
type fileConfig struct {
	Linkage           string    `toml:"linkage"`
	Workers           int       `toml:"workers"`
	Cutoffs           []float64 `toml:"cutoffs"`
	AnnotationPattern string    `toml:"annotation_pattern"`
	XMLCutoff         float64   `toml:"xml_cutoff"`
	Prefix            string    `toml:"prefix"`
	ImageURL          string    `toml:"image_url"`
	DetailsURL        string    `toml:"details_url"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Linkage:           string(hclust.LinkageAverage),
		Cutoffs:           cutoff.DefaultGrid(),
		AnnotationPattern: "KNOWN",
		XMLCutoff:         0.1,
		Prefix:            "clusters",
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// env is the per-invocation state shared by subcommands.
type env struct {
	file       fileConfig
	engine     hclust.Config
	logger     *slog.Logger
	registry   *prometheus.Registry
	metricsOut string
	logFile    io.Closer
}

func setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	file, err := loadFileConfig(configPath)
	if err != nil {
		return nil, err
	}
	if flags.Changed("linkage") {
		file.Linkage, _ = flags.GetString("linkage")
	}
	if flags.Changed("workers") {
		file.Workers, _ = flags.GetInt("workers")
	}

	linkage, err := hclust.ParseLinkage(file.Linkage)
	if err != nil {
		return nil, err
	}

	e := &env{file: file}

	logPath, _ := flags.GetString("log")
	verbose, _ := flags.GetBool("verbose")
	var w io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
		e.logFile = f
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	e.engine = hclust.DefaultConfig()
	e.engine.Linkage = linkage
	e.engine.Workers = file.Workers
	e.engine.Logger = e.logger

	e.metricsOut, _ = flags.GetString("metrics-out")
	if e.metricsOut != "" {
		e.registry = prometheus.NewRegistry()
		e.engine.Metrics = hclustprom.NewMetrics(e.registry)
	}
	return e, nil
}

// close flushes metrics and closes the log file.
func (e *env) close() error {
	var errs []error
	if e.registry != nil {
		if err := prometheus.WriteToTextfile(e.metricsOut, e.registry); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	if e.logFile != nil {
		errs = append(errs, e.logFile.Close())
	}
	return errors.Join(errs...)
}

// readNames reads leaf names: one per line for .txt files, otherwise a YAML
// list.
func readNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", hclust.ErrMissingInput, path)
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".txt") {
		var names []string
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				names = append(names, line)
			}
		}
		return names, nil
	}

	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML names: %w", path, err)
	}
	return names, nil
}

// loadOrBuild restores the engine from dumpPath when that file exists,
// otherwise builds it and, if dumpPath is set, saves it there.
func (e *env) loadOrBuild(m *hclust.DistanceMatrix, names []string, dumpPath string) (*hclust.Engine, error) {
	if dumpPath != "" {
		if _, err := os.Stat(dumpPath); err == nil {
			e.logger.Info("loading clustering dump", slog.String("path", dumpPath))
			return hclust.LoadFile(m, dumpPath, e.engine)
		}
	}

	eng, err := hclust.Build(m, names, e.engine)
	if err != nil {
		return nil, err
	}
	if dumpPath != "" {
		if err := os.MkdirAll(filepath.Dir(dumpPath), 0o755); err != nil {
			return nil, err
		}
		if err := eng.SaveFile(dumpPath); err != nil {
			return nil, fmt.Errorf("saving clustering dump: %w", err)
		}
	}
	return eng, nil
}
