package registry

import (
	"sync"

	"github.com/ToolForge/toolforge/internal/logging"
	"github.com/ToolForge/toolforge/pkg/cache"
	"github.com/ToolForge/toolforge/pkg/platform"
	"github.com/ToolForge/toolforge/pkg/tool"
)

// Index maps capability names (interfaces) and aliases to candidate
// tool names. The maps are built lazily on first use and rebuilt only
// when the store fingerprint changes; rebuilds are serialized behind
// the index lock so concurrent lookups cannot race a rebuild.
type Index struct {
	mu       sync.Mutex
	store    *Store
	platform *platform.Platform
	defs     *cache.Bounded[string, *tool.CommandDefinition]
	log      logging.Logger

	built       bool
	fingerprint Fingerprint
	byInterface map[string][]string
	byAlias     map[string][]string
}

// NewIndex creates an index over a store. defs memoizes resolved
// definitions between lookups; pass nil for a private default cache.
func NewIndex(store *Store, p *platform.Platform, defs *cache.Bounded[string, *tool.CommandDefinition]) *Index {
	if defs == nil {
		defs = cache.New[string, *tool.CommandDefinition](cache.Config{})
	}
	return &Index{
		store:    store,
		platform: p,
		defs:     defs,
		log:      logging.Component("registry"),
	}
}

// FindByInterface returns the definition of the first candidate tool
// (in index order) implementing the named capability whose definition
// loads successfully. Unparsable candidates are skipped, not fatal.
// Absence is reported with false, never an error.
func (ix *Index) FindByInterface(name string) (*tool.CommandDefinition, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.ensureFresh()
	for _, candidate := range ix.byInterface[name] {
		if def, ok := ix.loadDef(candidate); ok {
			return def, true
		}
	}
	return nil, false
}

// FindByAlias resolves an alias to a tool name. A uniquely owned alias
// resolves directly. When several tools share the alias, the first
// candidate whose execution profile is compatible with the current
// platform and shell wins (a profile with no restriction is universally
// compatible), falling back to the first candidate when none match.
func (ix *Index) FindByAlias(name string) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.ensureFresh()
	candidates := ix.byAlias[name]
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	for _, candidate := range candidates {
		def, ok := ix.loadDef(candidate)
		if ok && def.Profile.Compatible(ix.platform.OS, ix.platform.Shell) {
			return candidate, true
		}
	}
	return candidates[0], true
}

// Refresh forces a staleness check outside a lookup.
func (ix *Index) Refresh() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.ensureFresh()
}

// ensureFresh rebuilds the maps when the store fingerprint moved.
// Callers hold ix.mu.
func (ix *Index) ensureFresh() {
	fp := ix.store.Fingerprint()
	if ix.built && fp == ix.fingerprint {
		return
	}

	ix.byInterface = make(map[string][]string)
	ix.byAlias = make(map[string][]string)
	ix.defs.Clear()

	names, err := ix.store.Names()
	if err != nil {
		ix.log.Warn("definition store scan failed", "error", err)
	}
	for _, name := range names {
		def, err := ix.store.Load(name)
		if err != nil {
			// Index population only needs the top-level fields; a
			// broken definition just drops out of the candidate
			// lists.
			ix.log.Debug("skipping unparsable definition", "tool", name, "error", err)
			continue
		}
		ix.defs.Set(name, def)
		for _, iface := range def.Interfaces {
			ix.byInterface[iface] = append(ix.byInterface[iface], name)
		}
		for _, alias := range def.Aliases {
			ix.byAlias[alias] = append(ix.byAlias[alias], name)
		}
	}

	ix.fingerprint = fp
	ix.built = true
	ix.log.Debug("index rebuilt", "tools", len(names),
		"interfaces", len(ix.byInterface), "aliases", len(ix.byAlias))
}

func (ix *Index) loadDef(name string) (*tool.CommandDefinition, bool) {
	if def, ok := ix.defs.Get(name); ok {
		return def, true
	}
	def, err := ix.store.Load(name)
	if err != nil {
		return nil, false
	}
	ix.defs.Set(name, def)
	return def, true
}
