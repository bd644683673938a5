package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"rpgtrans/internal/parser"

	"github.com/rs/zerolog/log"
)

// FileEntry is one discovered data file with the document parser that
// handles its shape.
type FileEntry struct {
	Path   string
	Name   string
	Parser parser.DocumentParser
}

// Walker discovers translatable data files in a game's data directory.
type Walker struct {
	registry *parser.Registry
}

// NewWalker creates a walker dispatching to the given handler registry.
func NewWalker(registry *parser.Registry) *Walker {
	return &Walker{registry: registry}
}

// Walk lists the supported files directly under root, sorted by name so runs
// are deterministic. Engine data directories are flat; there is no recursion.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var entries []FileEntry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		p, ok := parser.ParserFor(de.Name(), w.registry)
		if !ok {
			continue
		}
		entries = append(entries, FileEntry{
			Path:   filepath.Join(root, de.Name()),
			Name:   de.Name(),
			Parser: p,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered data files")
	return entries, nil
}
