// Package registry resolves capability names and aliases to concrete
// tool definitions stored as YAML files in a definition store
// directory.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ToolForge/toolforge/pkg/tool"
)

// Store reads tool definitions from one directory. Each definition is a
// <name>.yaml (or .yml) file.
type Store struct {
	dir string
}

// NewStore creates a store over dir. The directory does not have to
// exist yet; an empty store resolves nothing.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Names lists the tool names present in the store, sorted.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read definition store: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load parses the definition for one tool name.
func (s *Store) Load(name string) (*tool.CommandDefinition, error) {
	var data []byte
	var err error
	for _, ext := range []string{".yaml", ".yml"} {
		data, err = os.ReadFile(filepath.Join(s.dir, name+ext))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tool %q not found in store: %w", name, err)
	}

	var def tool.CommandDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition for %q: %w", name, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Fingerprint is a cheap staleness signal for the store: the directory
// modification time plus a shallow definition-file count. Comparing
// fingerprints keeps repeated lookups close to O(1) without re-scanning
// on every call.
type Fingerprint struct {
	ModTime time.Time
	Count   int
}

// Fingerprint captures the store's current fingerprint. A missing
// directory yields the zero fingerprint.
func (s *Store) Fingerprint() Fingerprint {
	info, err := os.Stat(s.dir)
	if err != nil {
		return Fingerprint{}
	}
	count := 0
	if entries, err := os.ReadDir(s.dir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext == ".yaml" || ext == ".yml" {
				count++
			}
		}
	}
	return Fingerprint{ModTime: info.ModTime(), Count: count}
}
