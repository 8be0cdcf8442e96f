package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ToolForge/toolforge/internal/executor"
	"github.com/ToolForge/toolforge/pkg/cache"
	"github.com/ToolForge/toolforge/pkg/config"
	"github.com/ToolForge/toolforge/pkg/platform"
	"github.com/ToolForge/toolforge/pkg/registry"
	"github.com/ToolForge/toolforge/pkg/tool"
)

// engine bundles the wired core components for one CLI invocation.
type engine struct {
	cfg      *config.Config
	platform *platform.Platform
	store    *registry.Store
	defs     *cache.Bounded[string, *tool.CommandDefinition]
	index    *registry.Index
	executor *executor.Executor
}

func newEngine(cmd *cobra.Command) (*engine, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	p := platform.Detect()
	if storeDir, _ := cmd.Flags().GetString("store"); storeDir != "" {
		p.StoreDir = storeDir
	} else if cfg.StoreDir != "" {
		p.StoreDir = cfg.StoreDir
	}
	if cfg.DefaultDialect != "" {
		p.Shell = cfg.DefaultDialect
	}

	store := registry.NewStore(p.StoreDir)
	defs := cache.New[string, *tool.CommandDefinition](cache.Config{
		MaxSize: cfg.CacheSize,
		TTL:     cfg.CacheTTL,
	})

	return &engine{
		cfg:      cfg,
		platform: p,
		store:    store,
		defs:     defs,
		index:    registry.NewIndex(store, p, defs),
		executor: executor.New(p),
	}, nil
}

// resolveDefinition looks up name as a concrete tool first, then as a
// capability interface, then as an alias.
func (e *engine) resolveDefinition(name string) (*tool.CommandDefinition, error) {
	if def, err := e.store.Load(name); err == nil {
		return def, nil
	}
	if def, ok := e.index.FindByInterface(name); ok {
		return def, nil
	}
	if toolName, ok := e.index.FindByAlias(name); ok {
		return e.store.Load(toolName)
	}
	return nil, fmt.Errorf("no tool, interface, or alias named %q in %s", name, e.store.Dir())
}

// parseKeyValues turns repeated k=v pairs into a parameter map. A key
// given more than once accumulates into a slice so array parameters can
// be passed naturally.
func parseKeyValues(pairs []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		idx := strings.IndexByte(pair, '=')
		if idx <= 0 {
			return nil, fmt.Errorf("invalid parameter %q: want key=value", pair)
		}
		key, value := pair[:idx], pair[idx+1:]
		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case []interface{}:
			params[key] = append(existing, value)
		default:
			params[key] = []interface{}{existing, value}
		}
	}
	return params, nil
}
