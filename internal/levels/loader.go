// Package levels loads puzzle levels from disk and checks them.
// This package depends on model and sim; neither depends on levels.
package levels

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sideways/internal/geom"
	"github.com/vovakirdan/sideways/internal/levels/formats"
	"github.com/vovakirdan/sideways/internal/model"
)

// ErrLevelNotFound is returned by LoadByID for an unknown id.
var ErrLevelNotFound = errors.New("level not found")

// Level represents a complete level definition.
type Level struct {
	formats.Level
	FilePath string
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, Logger: log.New(io.Discard)}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering. A broken file fails
// the whole load: unknown vocabulary must never be played around.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[string]string)

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		if other, dup := seen[level.ID]; dup {
			return fmt.Errorf("duplicate level id %q in %s and %s", level.ID, other, path)
		}
		seen[level.ID] = path

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	l.Logger.Debug("levels loaded", "root", l.Root, "count", len(levels))
	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	l.Logger.Debug("level parsed", "id", parsed.ID, "path", path)
	return Level{Level: parsed, FilePath: path}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Bounds returns the smallest and largest cell used by tiles, entities,
// powerups and goals.
func (l *Level) Bounds() (lo, hi geom.Vec) {
	first := true
	add := func(c geom.Vec) {
		if first {
			lo, hi = c, c
			first = false
			return
		}
		lo = geom.V(min(lo.X, c.X), min(lo.Y, c.Y))
		hi = geom.V(max(hi.X, c.X), max(hi.Y, c.Y))
	}
	for c := range l.Tiles {
		add(c)
	}
	for _, e := range l.Entities {
		add(e.Pos.Cell)
	}
	for _, p := range l.Powerups {
		add(p.Pos.Cell)
	}
	for _, g := range l.Goals {
		add(g.Cell)
	}
	return lo, hi
}

// Inputs returns the parsed solution, nil if the level has none.
func (l *Level) Inputs() ([]model.Input, error) {
	if strings.TrimSpace(l.Solution) == "" {
		return nil, nil
	}
	return model.ParseInputs(l.Solution)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
