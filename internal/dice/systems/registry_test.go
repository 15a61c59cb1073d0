package systems

import (
	"testing"

	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/dice/token"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

func newSystem(id, version string) *dice.System {
	return &dice.System{ID: id, Name: "Test", Version: version}
}

func mustRegister(t *testing.T, registry *Registry, system *dice.System) {
	t.Helper()
	if err := registry.Register(system); err != nil {
		t.Fatalf("register %s: %v", system.ID, err)
	}
}

func TestRegistryDefaultsToFirstVersion(t *testing.T) {
	registry := NewRegistry()
	primary := newSystem("pf2e", "1.0.0")
	secondary := newSystem("pf2e", "1.1.0")

	mustRegister(t, registry, primary)
	mustRegister(t, registry, secondary)

	if got := registry.Get("pf2e"); got != primary {
		t.Fatalf("Get default = %v, want primary", got)
	}
	if got := registry.GetVersion("PF2E", "1.1.0"); got != secondary {
		t.Fatalf("GetVersion = %v, want secondary", got)
	}
}

func TestRegistryRejectsEmptyVersion(t *testing.T) {
	registry := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty version")
		}
	}()

	_ = registry.Register(newSystem("pf2e", ""))
}

func TestRegistryRejectsDuplicateVersion(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, newSystem("pf2e", "1.0.0"))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate registration")
		}
	}()

	_ = registry.Register(newSystem("pf2e", "1.0.0"))
}

// TestRegistrySurfacesCompileErrors ensures broken pattern tables fail at
// registration rather than on the first roll.
func TestRegistrySurfacesCompileErrors(t *testing.T) {
	registry := NewRegistry()
	broken := newSystem("broken", "1.0.0")
	broken.Overlay = func(table *token.Table) {
		table.Override(token.KindDice, `(`)
	}
	err := registry.Register(broken)
	if got := apperrors.GetCode(err); got != apperrors.CodePatternCompileFailed {
		t.Fatalf("code = %v, want %v", got, apperrors.CodePatternCompileFailed)
	}
	if registry.Get("broken") != nil {
		t.Fatal("broken system should not be registered")
	}
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, newSystem("essence20", "1.0.0"))

	if _, err := registry.Lookup("essence20", ""); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	_, err := registry.Lookup("unknown", "")
	if got := apperrors.GetCode(err); got != apperrors.CodeSystemNotRegistered {
		t.Fatalf("code = %v, want %v", got, apperrors.CodeSystemNotRegistered)
	}
}

func TestRegistryMustGetPanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing system")
		}
	}()
	NewRegistry().MustGet("missing")
}

func TestRegistryListIsSorted(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, newSystem("pf2e", "1.1.0"))
	mustRegister(t, registry, newSystem("essence20", "1.0.0"))
	mustRegister(t, registry, newSystem("pf2e", "1.0.0"))

	want := []Key{{"essence20", "1.0.0"}, {"pf2e", "1.0.0"}, {"pf2e", "1.1.0"}}
	keys := registry.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if got := len(registry.List()); got != 3 {
		t.Fatalf("list = %d, want 3", got)
	}
}
