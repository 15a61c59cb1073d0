// Package systems registers the game systems an engine can be built for.
//
// Systems are keyed by ID and rules version. The first version registered
// for an ID becomes its default. Each system's pattern table is compiled
// when it is registered, so a broken table fails at startup rather than on
// the first roll.
package systems

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/dicetower/internal/dice"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

// Key identifies a specific version of a system.
type Key struct {
	ID      string
	Version string
}

// Registry manages registered game systems.
type Registry struct {
	mu       sync.RWMutex
	systems  map[Key]*dice.System
	defaults map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		systems:  make(map[Key]*dice.System),
		defaults: make(map[string]string),
	}
}

// Register compiles system and adds it to the registry.
// Panics if the system has no version or the version is already registered.
func (r *Registry) Register(system *dice.System) error {
	id := strings.ToLower(strings.TrimSpace(system.ID))
	version := strings.TrimSpace(system.Version)
	if version == "" {
		panic(fmt.Sprintf("dice system %s must define a version", id))
	}
	if err := system.Compile(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key{ID: id, Version: version}
	if _, exists := r.systems[key]; exists {
		panic(fmt.Sprintf("dice system %s version %s already registered", id, version))
	}
	if _, exists := r.defaults[id]; !exists {
		r.defaults[id] = version
	}
	r.systems[key] = system
	return nil
}

// Get returns the default version of the system, or nil if not found.
func (r *Registry) Get(id string) *dice.System {
	return r.GetVersion(id, "")
}

// GetVersion returns the system for the given ID and version.
// If version is empty, the default registered version is returned.
func (r *Registry) GetVersion(id, version string) *dice.System {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id = strings.ToLower(strings.TrimSpace(id))
	resolved := strings.TrimSpace(version)
	if resolved == "" {
		resolved = r.defaults[id]
	}
	if resolved == "" {
		return nil
	}
	return r.systems[Key{ID: id, Version: resolved}]
}

// Lookup is GetVersion with a coded error for unknown systems.
func (r *Registry) Lookup(id, version string) (*dice.System, error) {
	system := r.GetVersion(id, version)
	if system == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeSystemNotRegistered,
			fmt.Sprintf("dice system %q version %q not registered", id, version),
			map[string]string{"system": id, "version": version})
	}
	return system, nil
}

// MustGet returns the default version of the system, or panics if not found.
func (r *Registry) MustGet(id string) *dice.System {
	system := r.Get(id)
	if system == nil {
		panic(fmt.Sprintf("dice system %s not registered", id))
	}
	return system
}

// Keys returns every registered key sorted by ID then version.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.systems))
	for key := range r.systems {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ID != keys[j].ID {
			return keys[i].ID < keys[j].ID
		}
		return keys[i].Version < keys[j].Version
	})
	return keys
}

// List returns all registered systems in key order.
func (r *Registry) List() []*dice.System {
	keys := r.Keys()
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*dice.System, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.systems[key])
	}
	return result
}
