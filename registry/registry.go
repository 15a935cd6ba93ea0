// Package registry rebuilds codecs, including whole stacks, from their
// Config form. The core Stack never consults a registry: it only ever
// holds already-constructed codec instances. This package is for callers
// that persist stack configurations and want them back.
//
// Factories are looked up by the config's "id" entry. Every Registry
// knows how to rebuild a Stack; codec packages register their own
// factories (importing github.com/unkn0wn-root/codecstack/codecs
// registers the built-ins with Default).
package registry

import (
	"fmt"
	"sync"

	"github.com/unkn0wn-root/codecstack"
)

// Factory builds a codec from its config. The registry is passed through
// so composite codecs (stacks) can rebuild their members.
type Factory func(cfg codecstack.Config, r *Registry) (codecstack.Codec, error)

// Registry maps codec ids to factories. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Factory
}

// New returns a registry preloaded with the Stack factory.
func New() *Registry {
	r := &Registry{byID: make(map[string]Factory)}
	r.Register(codecstack.StackID, buildStack)
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = f
}

// Build constructs the codec described by cfg.
func (r *Registry) Build(cfg codecstack.Config) (codecstack.Codec, error) {
	id, ok := cfg["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("registry: config has no id")
	}
	r.mu.RLock()
	f, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown codec id %q", id)
	}
	c, err := f(cfg, r)
	if err != nil {
		return nil, fmt.Errorf("registry: build %q: %w", id, err)
	}
	return c, nil
}

func buildStack(cfg codecstack.Config, r *Registry) (codecstack.Codec, error) {
	members, err := memberConfigs(cfg["codecs"])
	if err != nil {
		return nil, err
	}
	codecs := make([]codecstack.Codec, len(members))
	for i, mc := range members {
		c, err := r.Build(mc)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		codecs[i] = c
	}
	return codecstack.New(codecs...), nil
}

// memberConfigs tolerates both []Config (in-process round trips) and
// []any of maps (configs that went through a serializer).
func memberConfigs(v any) ([]codecstack.Config, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []codecstack.Config:
		return list, nil
	case []any:
		out := make([]codecstack.Config, len(list))
		for i, e := range list {
			switch m := e.(type) {
			case codecstack.Config:
				out[i] = m
			case map[string]any:
				out[i] = codecstack.Config(m)
			default:
				return nil, fmt.Errorf("member %d: not a config (%T)", i, e)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("\"codecs\" is not a list (%T)", v)
	}
}

// Default is the process-wide registry.
var Default = New()

// Register adds a factory to Default.
func Register(id string, f Factory) { Default.Register(id, f) }

// Build constructs a codec from cfg using Default.
func Build(cfg codecstack.Config) (codecstack.Codec, error) { return Default.Build(cfg) }
