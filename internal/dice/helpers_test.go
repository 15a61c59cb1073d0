package dice

import (
	"strings"
	"testing"

	"github.com/louisbranch/dicetower/internal/dice/token"
	"github.com/louisbranch/dicetower/internal/random"
)

// testSystem is a small d20 system with AC targets, flat-check gates and
// critical damage.
func testSystem() *System {
	return &System{
		ID:      "test",
		Name:    "Test",
		Version: "1.0.0",
		Overlay: func(table *token.Table) {
			table.InsertBefore(token.KindTarget,
				token.Pattern{Kind: "ac", Expr: `(?i)vs\s+(ac)\s*(\d+|\|\|\d+\|\|)`},
				token.Pattern{Kind: "gate", Expr: `(?i)vs\s+(hidden|undetected)`},
			)
		},
		Required: []token.Kind{"ac", "gate"},
		Handlers: map[token.Kind]TokenHandler{
			"ac":   (*Builder).AttachTarget,
			"gate": (*Builder).AttachTarget,
		},
		ResolveTarget: func(tok token.Token) Test {
			switch tok.Kind {
			case "ac":
				value, hidden := ParseTargetValue(tok.Capture(2))
				return Test{Value: value, Hidden: hidden, Alias: "ac"}
			case "gate":
				alias := strings.ToLower(tok.Capture(1))
				gate := GateSuppress
				if alias == "undetected" {
					gate = GateRedact
				}
				return Test{Value: 11, Alias: alias, Special: true, Gate: gate}
			default:
				return ComparisonTarget(tok)
			}
		},
		Grade: func(roll DiceRoll) Grade {
			test := roll.Test()
			switch {
			case test == nil:
				return GradeUnknown
			case test.Special || test.Comparison != CompareGTE:
				return GradeComparison(roll.Total(), *test)
			}
			var natural Natural
			if roll.Dice.IsD20() {
				natural, _ = roll.Natural()
			}
			return GradeDegrees(roll.Total(), test.Value, natural)
		},
		Manipulate: CriticalPairs,
	}
}

func plainSystem() *System {
	return &System{ID: "plain", Version: "1.0.0"}
}

func mustEngine(t testing.TB, system *System, faces ...int) *Engine {
	t.Helper()
	engine, err := NewEngine(system, WithSource(random.NewSequence(faces...)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func mustEvaluate(t testing.TB, engine *Engine, text string) DiceGroupRoll {
	t.Helper()
	roll, err := engine.Evaluate(text)
	if err != nil {
		t.Fatalf("evaluate %q: %v", text, err)
	}
	return roll
}

// outOfRange returns n, one past the largest valid value.
type outOfRange struct{}

func (outOfRange) Intn(n int) int { return n }

func randomFaces(faces ...int) *random.Sequence {
	return random.NewSequence(faces...)
}
