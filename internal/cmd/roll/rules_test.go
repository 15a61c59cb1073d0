package roll

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/dicetower/internal/dice"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte("crit_method: roll-twice\nfatal_default: 10\n"))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	if rules.Method != dice.CritRollTwice {
		t.Fatalf("method = %q, want %q", rules.Method, dice.CritRollTwice)
	}
	if rules.FatalSides != 10 {
		t.Fatalf("fatal sides = %d, want 10", rules.FatalSides)
	}
}

func TestParseRulesEmptyUsesDefaults(t *testing.T) {
	rules, err := ParseRules(nil)
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	if rules.Method != dice.DefaultCritMethod || rules.FatalSides != 0 {
		t.Fatalf("rules = %+v, want defaults", rules)
	}
}

// TestParseRulesRejectsInvalid ensures every bad file maps to RULES_INVALID.
func TestParseRulesRejectsInvalid(t *testing.T) {
	tcs := []struct {
		name string
		data string
	}{
		{name: "unknown method", data: "crit_method: triple\n"},
		{name: "unknown key", data: "crit: double-dice\n"},
		{name: "negative fatal", data: "fatal_default: -2\n"},
		{name: "bad yaml", data: "crit_method: [\n"},
	}
	for _, tc := range tcs {
		_, err := ParseRules([]byte(tc.data))
		if !errors.Is(err, apperrors.New(apperrors.CodeRulesInvalid, "")) {
			t.Fatalf("%s: error = %v, want RULES_INVALID", tc.name, err)
		}
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("crit_method: max-dice\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.Method != dice.CritMaxDice {
		t.Fatalf("method = %q, want %q", rules.Method, dice.CritMaxDice)
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if rules, err := LoadRules(""); err != nil || rules.Method != dice.DefaultCritMethod {
		t.Fatalf("LoadRules(\"\") = %+v, %v", rules, err)
	}
}
