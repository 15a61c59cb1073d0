package pf2e

import (
	"testing"

	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/random"
)

func newEngine(t *testing.T, faces ...int) *dice.Engine {
	t.Helper()
	engine, err := dice.NewEngine(NewSystem(), dice.WithSource(random.NewSequence(faces...)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func evaluate(t *testing.T, engine *dice.Engine, text string) dice.DiceGroupRoll {
	t.Helper()
	roll, err := engine.Evaluate(text)
	if err != nil {
		t.Fatalf("evaluate %q: %v", text, err)
	}
	return roll
}

func TestSystemCompiles(t *testing.T) {
	if err := NewSystem().Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestParseTargets(t *testing.T) {
	tcs := []struct {
		text    string
		alias   string
		value   int
		hidden  bool
		special bool
		gate    dice.Gate
	}{
		{text: "1d20+8 vs AC 18", alias: "ac", value: 18},
		{text: "1d20+8 AC 18", alias: "ac", value: 18},
		{text: "1d20+5 DC ||20||", alias: "dc", value: 20, hidden: true},
		{text: "1d20+5 vs 15", alias: "vs", value: 15},
		{text: "1d20 vs hidden", alias: "hidden", value: 11, special: true, gate: dice.GateSuppress},
		{text: "1d20 vs concealed", alias: "concealed", value: 5, special: true, gate: dice.GateSuppress},
		{text: "1d20 vs deafened", alias: "deafened", value: 5, special: true, gate: dice.GateSuppress},
		{text: "1d20 vs Undetected", alias: "undetected", value: 11, special: true, gate: dice.GateRedact},
		{text: "1d20 vs stupefied 2", alias: "stupefied", value: 7, special: true, gate: dice.GateSuppress},
		{text: "1d20 vs stupefied", alias: "stupefied", value: 6, special: true, gate: dice.GateSuppress},
		{text: "1d20 >= 12", alias: "", value: 12},
	}
	for _, tc := range tcs {
		t.Run(tc.text, func(t *testing.T) {
			test := newEngine(t).Parse(tc.text).Dice[0].Test()
			if test == nil {
				t.Fatal("expected a test")
			}
			if test.Alias != tc.alias || test.Value != tc.value || test.Hidden != tc.hidden ||
				test.Special != tc.special || test.Gate != tc.gate {
				t.Fatalf("test = %+v, want alias %q value %d hidden %v special %v gate %v",
					test, tc.alias, tc.value, tc.hidden, tc.special, tc.gate)
			}
		})
	}
}

func TestParseTraits(t *testing.T) {
	tcs := []struct {
		text string
		want dice.Traits
	}{
		{text: "2d8+4 striking", want: dice.Traits{Striking: dice.StrikingStandard}},
		{text: "3d8+4 greater striking", want: dice.Traits{Striking: dice.StrikingGreater}},
		{text: "4d8 major striking", want: dice.Traits{Striking: dice.StrikingMajor}},
		{text: "1d8 deadly d10", want: dice.Traits{Deadly: true, DeadlySides: 10}},
		{text: "1d8 deadly", want: dice.Traits{Deadly: true}},
		{text: "1d8 fatal d12", want: dice.Traits{Fatal: true, FatalSides: 12}},
		{text: "1d8 fatal-d10 deadly-d6", want: dice.Traits{Fatal: true, FatalSides: 10, Deadly: true, DeadlySides: 6}},
	}
	for _, tc := range tcs {
		t.Run(tc.text, func(t *testing.T) {
			d := newEngine(t).Parse(tc.text).Dice[0]
			if got := d.Traits(); got != tc.want {
				t.Fatalf("traits = %+v, want %+v", got, tc.want)
			}
			if d.Description() != "" {
				t.Fatalf("traits leaked into description %q", d.Description())
			}
		})
	}
}

func TestGradeDegrees(t *testing.T) {
	tcs := []struct {
		name string
		text string
		face int
		want dice.Grade
	}{
		{name: "critical failure by 10", text: "1d20+5 vs DC 20", face: 5, want: dice.GradeCriticalFailure},
		{name: "failure", text: "1d20+5 vs DC 20", face: 10, want: dice.GradeFailure},
		{name: "success", text: "1d20+5 vs DC 20", face: 15, want: dice.GradeSuccess},
		{name: "natural 20 upgrades", text: "1d20+5 vs DC 20", face: 20, want: dice.GradeCriticalSuccess},
		{name: "natural 1 downgrades", text: "1d20+30 vs DC 20", face: 1, want: dice.GradeSuccess},
		{name: "critical success by 10", text: "1d20+15 vs AC 20", face: 16, want: dice.GradeCriticalSuccess},
		{name: "flat check passes", text: "1d20 vs hidden", face: 11, want: dice.GradeSuccess},
		{name: "flat check natural 20 upgrades", text: "1d20 vs hidden", face: 20, want: dice.GradeCriticalSuccess},
		{name: "stupefied natural 20 upgrades failure", text: "1d20 vs stupefied 20", face: 20, want: dice.GradeSuccess},
		{name: "flat check natural 1 downgrades", text: "1d20 vs concealed", face: 1, want: dice.GradeCriticalFailure},
		{name: "bare comparison", text: "1d20 >= 30", face: 20, want: dice.GradeFailure},
		{name: "no test", text: "1d20+5", face: 20, want: dice.GradeUnknown},
		{name: "non-d20 ignores naturals", text: "1d6+20 vs DC 20", face: 1, want: dice.GradeSuccess},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			roll := evaluate(t, newEngine(t, tc.face), tc.text)
			if got := roll.Grade(0); got != tc.want {
				t.Fatalf("grade = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFortuneKeepsNatural(t *testing.T) {
	roll := evaluate(t, newEngine(t, 3, 20), "+2d20+8 vs AC 18")
	if got := roll.Grade(0); got != dice.GradeCriticalSuccess {
		t.Fatalf("grade = %v, want critical success", got)
	}
}

func TestCriticalDamage(t *testing.T) {
	tcs := []struct {
		name  string
		text  string
		faces []int
		want  int
		out   string
	}{
		{
			name:  "double dice",
			text:  "1d20+8 vs AC 18; 1d6+4",
			faces: []int{20, 5},
			want:  2*5 + 4,
			out:   "⭐ 28 vs AC 18 ⟵ [20]1d20 + 8; 🎲 14 ⟵ [5]1d6 + 4 + [5]1d6 (crit)",
		},
		{
			name:  "striking",
			text:  "1d20+8 vs AC 18; 1d6+4 striking",
			faces: []int{20, 5, 3},
			want:  5 + 4 + 3 + 8,
			out:   "⭐ 28 vs AC 18 ⟵ [20]1d20 + 8; 🎲 20 ⟵ [5]1d6 + 4 + [3]1d6 (striking) + [5, 3]2d6 (crit)",
		},
		{
			name:  "deadly",
			text:  "1d20+8 vs AC 18; 1d8+4 deadly d10",
			faces: []int{20, 6, 7},
			want:  6 + 4 + 6 + 7,
		},
		{
			name:  "fatal",
			text:  "1d20+8 vs AC 18; 1d8+4 fatal d12",
			faces: []int{20, 6, 11, 9},
			want:  11 + 4 + 11 + 9,
		},
		{
			name:  "traits on the attack",
			text:  "1d20+8 vs AC 18 deadly d8; 1d6+4",
			faces: []int{20, 5, 7},
			want:  5 + 4 + 5 + 7,
		},
		{
			name:  "critical by degree",
			text:  "1d20+18 vs AC 18; 1d6+4",
			faces: []int{10, 5},
			want:  2*5 + 4,
		},
		{
			name:  "plain hit",
			text:  "1d20+8 vs AC 18; 1d6+4",
			faces: []int{12, 5},
			want:  5 + 4,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			engine := newEngine(t, tc.faces...)
			roll := evaluate(t, engine, tc.text)
			if got := roll.Rolls[1].Total(); got != tc.want {
				t.Fatalf("damage = %d, want %d", got, tc.want)
			}
			if tc.out == "" {
				return
			}
			if got := engine.Render(roll, dice.ModeCompact); got != tc.out {
				t.Fatalf("Render() = %q, want %q", got, tc.out)
			}
		})
	}
}

func TestCriticalMethodFromRules(t *testing.T) {
	engine, err := dice.NewEngine(NewSystem(),
		dice.WithSource(random.NewSequence(20, 5)),
		dice.WithCritRules(dice.CritRules{Method: dice.CritMaxDice}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	roll := evaluate(t, engine, "1d20+8 vs AC 18; 1d6+4")
	if got := roll.Rolls[1].Total(); got != 5+4+6 {
		t.Fatalf("damage = %d, want %d", got, 5+4+6)
	}
}

// TestFailedUndetectedRedactsAttack covers the undetected flat check that
// precedes an attack.
func TestFailedUndetectedRedactsAttack(t *testing.T) {
	engine := newEngine(t, 4, 19, 6)
	roll := evaluate(t, engine, "1d20 vs undetected; 1d20+8 vs AC 18; 1d6+4")
	want := "🎲 ?? vs undetected (11); ✘ ?? vs AC 18"
	if got := engine.Render(roll, dice.ModeCompact); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestFailedHiddenSuppressesAttack(t *testing.T) {
	engine := newEngine(t, 4, 19, 6)
	roll := evaluate(t, engine, "1d20 vs hidden; 1d20+8 vs AC 18; 1d6+4")
	want := "✘ 4 vs hidden (11) ⟵ [4]1d20"
	if got := engine.Render(roll, dice.ModeCompact); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestSpecialTarget(t *testing.T) {
	if got := SpecialTarget("stupefied", 3).Value; got != 8 {
		t.Fatalf("stupefied 3 = %d, want 8", got)
	}
	if got := SpecialTarget("unknown", -1).Value; got != 0 {
		t.Fatalf("unknown = %d, want 0", got)
	}
}
