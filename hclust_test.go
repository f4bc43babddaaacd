package hclust

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Linkage != LinkageAverage {
		t.Errorf("Linkage: got %q, want average", cfg.Linkage)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers: got %d, want 0", cfg.Workers)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	if cfg.Linkage != LinkageAverage {
		t.Errorf("Linkage: got %q, want average", cfg.Linkage)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.Logger == nil || cfg.Metrics == nil {
		t.Error("Logger and Metrics must be set")
	}
	if err := validateConfig(&cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []error
	}{
		{"unknown linkage", Config{Linkage: "median"}, []error{ErrInvalidConfig, ErrUnknownLinkage}},
		{"negative workers", Config{Linkage: LinkageSingle, Workers: -2}, []error{ErrInvalidConfig}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("got %v, want %v", err, want)
				}
			}
		})
	}
}
