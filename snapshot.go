package hclust

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Snapshot is the persisted form of an Engine. It deliberately has no field
// for the distance matrix; Load takes the matrix from the caller.
type Snapshot struct {
	Strategy         string          `yaml:"strategy" msgpack:"strategy" json:"strategy"`
	Names            []string        `yaml:"names" msgpack:"names" json:"names"`
	Tree             []SnapshotMerge `yaml:"tree" msgpack:"tree" json:"tree"`
	MaxDistanceCache map[int]float64 `yaml:"maxDistanceCache" msgpack:"maxDistanceCache" json:"maxDistanceCache"`
}

// SnapshotMerge is one persisted merge record.
type SnapshotMerge struct {
	Children [2]int  `yaml:"children,flow" msgpack:"children" json:"children"`
	Distance float64 `yaml:"distance" msgpack:"distance" json:"distance"`
}

// Format selects the snapshot encoding.
type Format string

const (
	// FormatYAML is a human-readable YAML document.
	FormatYAML Format = "yaml"
	// FormatMsgpack is a compact MessagePack document.
	FormatMsgpack Format = "msgpack"
)

// FormatForPath picks a format from a file extension: .msgpack and .mp select
// MessagePack, anything else YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatYAML
	}
}

// Snapshot captures the engine's linkage, names, tree and diameter cache.
func (e *Engine) Snapshot() Snapshot {
	tree := make([]SnapshotMerge, len(e.tree.merges))
	for k, m := range e.tree.merges {
		tree[k] = SnapshotMerge{Children: m.Children, Distance: m.Distance}
	}
	e.mu.Lock()
	cache := maps.Clone(e.maxDistance)
	e.mu.Unlock()
	return Snapshot{
		Strategy:         string(e.linkage),
		Names:            slices.Clone(e.names),
		Tree:             tree,
		MaxDistanceCache: cache,
	}
}

// Save writes the engine snapshot to w.
func (e *Engine) Save(w io.Writer, format Format) error {
	s := e.Snapshot()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(&s); err != nil {
			return fmt.Errorf("hclust: encoding snapshot: %w", err)
		}
		return enc.Close()
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(&s); err != nil {
			return fmt.Errorf("hclust: encoding snapshot: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("hclust: unknown snapshot format %q", format)
	}
}

// SaveFile writes the snapshot to path in the format implied by its
// extension. The file is written to a temporary sibling and renamed into
// place, so a failed save never leaves a partial snapshot behind.
func (e *Engine) SaveFile(path string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = e.Save(f, FormatForPath(path)); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return err
	}
	e.logger.Info("clustering saved", slog.String("path", path))
	return nil
}

// Load decodes a snapshot from r and attaches m. m must have as many leaves
// as the snapshot has names; a same-sized matrix with different content is
// not detected. The snapshot's strategy takes precedence over cfg.Linkage.
func Load(m *DistanceMatrix, r io.Reader, format Format, cfg Config) (*Engine, error) {
	var s Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("hclust: unknown snapshot format %q", format)
	}
	return s.Restore(m, cfg)
}

// LoadFile is Load from a file, with the format implied by its extension.
func LoadFile(m *DistanceMatrix, path string, cfg Config) (*Engine, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	e, err := Load(m, f, FormatForPath(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// Restore validates the snapshot and builds an Engine over m.
func (s Snapshot) Restore(m *DistanceMatrix, cfg Config) (*Engine, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	linkage, err := ParseLinkage(s.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	n := len(s.Names)
	if n == 0 {
		return nil, fmt.Errorf("%w: no names", ErrCorruptSnapshot)
	}
	if m == nil || m.Size() != n {
		size := 0
		if m != nil {
			size = m.Size()
		}
		return nil, fmt.Errorf("%w: matrix has %d leaves, snapshot has %d", ErrMismatchedLoad, size, n)
	}

	merges := make([]Merge, len(s.Tree))
	for k, sm := range s.Tree {
		merges[k] = Merge{Children: sm.Children, Distance: sm.Distance}
	}
	tree, err := newTree(n, merges)
	if err != nil {
		return nil, err
	}

	cache := make(map[int]float64, len(s.MaxDistanceCache))
	for node, d := range s.MaxDistanceCache {
		if node < 0 || node >= tree.NumNodes() {
			return nil, fmt.Errorf("%w: cached node %d out of range", ErrCorruptSnapshot, node)
		}
		cache[node] = d
	}

	cfg.Logger.Info("clustering restored",
		slog.Int("leaves", n),
		slog.String("linkage", string(linkage)),
		slog.Int("cached", len(cache)))
	return newEngine(m, slices.Clone(s.Names), linkage, tree, cache, cfg.Logger), nil
}
