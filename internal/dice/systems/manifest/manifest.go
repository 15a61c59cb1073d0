// Package manifest lists the built-in dice systems.
package manifest

import (
	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/dice/systems"
	"github.com/louisbranch/dicetower/internal/dice/systems/essence20"
	"github.com/louisbranch/dicetower/internal/dice/systems/pf2e"
)

// DefaultSystemID is used when a caller does not name a system.
const DefaultSystemID = pf2e.ID

// Systems returns fresh copies of every built-in system.
func Systems() []*dice.System {
	return []*dice.System{
		pf2e.NewSystem(),
		essence20.NewSystem(),
	}
}

// Registry returns a registry populated with the built-in systems.
func Registry() (*systems.Registry, error) {
	registry := systems.NewRegistry()
	for _, system := range Systems() {
		if err := registry.Register(system); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
