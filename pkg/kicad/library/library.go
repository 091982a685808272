// Package library indexes an existing KiCad symbol library and footprint
// directory so a converter can tell which parts are already present.
package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenTraceLab/ee2kicad/pkg/kicad/sexp"
)

const (
	SymbolLibExt    = ".kicad_sym"
	FootprintExt    = ".kicad_mod"
	FootprintDirExt = ".pretty"
)

// Index is a read-only view of the names in a library.
type Index struct {
	symbols    map[string]bool
	byLCSC     map[string]string // LCSC part number -> symbol name
	footprints map[string]bool
}

// Load indexes symbolLib (a .kicad_sym file) and footprintDir (a .pretty
// directory). Either may be empty or missing; that half of the index is then
// empty.
func Load(symbolLib, footprintDir string) (*Index, error) {
	idx := &Index{
		symbols:    make(map[string]bool),
		byLCSC:     make(map[string]string),
		footprints: make(map[string]bool),
	}
	if symbolLib != "" {
		if err := idx.loadSymbols(symbolLib); err != nil {
			return nil, err
		}
	}
	if footprintDir != "" {
		if err := idx.loadFootprints(footprintDir); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *Index) loadSymbols(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open symbol library: %w", err)
	}
	defer f.Close()

	err = sexp.Walk(f, "kicad_symbol_lib", func(l *sexp.List) error {
		if l.Name() != "symbol" {
			return nil
		}
		name, err := l.StringAt(1)
		if err != nil {
			return fmt.Errorf("line %d: symbol without name: %w", l.Line, err)
		}
		idx.symbols[name] = true
		if lcsc, ok := l.Property("LCSC Part"); ok && lcsc != "" {
			idx.byLCSC[lcsc] = name
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (idx *Index) loadFootprints(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read footprint directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != FootprintExt {
			continue
		}
		name, err := footprintName(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		idx.footprints[name] = true
	}
	return nil
}

// footprintName reads the name from (footprint "NAME" ...), falling back to
// the file name for empty files.
func footprintName(path string) (string, error) {
	fallback := strings.TrimSuffix(filepath.Base(path), FootprintExt)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open footprint: %w", err)
	}
	defer f.Close()

	node, err := sexp.NewParser(f).Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fallback, nil
		}
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	l, ok := node.(*sexp.List)
	// KiCad 5 wrote (module ...)
	if !ok || (l.Name() != "footprint" && l.Name() != "module") {
		return "", fmt.Errorf("%s: not a footprint file", path)
	}
	name, err := l.StringAt(1)
	if err != nil || name == "" {
		return fallback, nil
	}
	return name, nil
}

// HasSymbol reports whether the library has a symbol with this name.
func (idx *Index) HasSymbol(name string) bool {
	return idx.symbols[name]
}

// SymbolForLCSC returns the symbol carrying an "LCSC Part" property equal to
// id.
func (idx *Index) SymbolForLCSC(id string) (string, bool) {
	name, ok := idx.byLCSC[id]
	return name, ok
}

// HasFootprint reports whether the footprint directory has this footprint.
func (idx *Index) HasFootprint(name string) bool {
	return idx.footprints[name]
}

// Symbols returns the symbol names in sorted order.
func (idx *Index) Symbols() []string {
	return sortedKeys(idx.symbols)
}

// Footprints returns the footprint names in sorted order.
func (idx *Index) Footprints() []string {
	return sortedKeys(idx.footprints)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
