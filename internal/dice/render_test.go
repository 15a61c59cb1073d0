package dice

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/louisbranch/dicetower/internal/dice/ladder"
)

func TestRenderCompact(t *testing.T) {
	tcs := []struct {
		name   string
		system func() *System
		text   string
		faces  []int
		want   string
	}{
		{name: "sum and modifier", system: plainSystem, text: "2d6+3", faces: []int{4, 3}, want: "🎲 10 ⟵ [4, 3]2d6 + 3"},
		{name: "keep highest", system: plainSystem, text: "2d20kh1", faces: []int{7, 15}, want: "🎲 15 ⟵ [~~7~~, 15]2d20kh1"},
		{name: "fortune", system: plainSystem, text: "+2d20", faces: []int{7, 15}, want: "🎲 15 ⟵ [~~7~~, 15]2d20kh1 Fortune"},
		{name: "negative die", system: plainSystem, text: "-1d4+2", faces: []int{3}, want: "🎲 -1 ⟵ -[3]1d4 + 2"},
		{name: "description", system: plainSystem, text: "1d20+8 Strike", faces: []int{11}, want: "🎲 19 Strike ⟵ [11]1d20 + 8"},
		{name: "hidden target", system: testSystem, text: "1d20 vs AC ||18||", faces: []int{11}, want: "✘ 11 vs AC ?? ⟵ [11]1d20"},
		{
			name:   "critical hit",
			system: testSystem,
			text:   "1d20+8 vs AC 18; 1d6+4",
			faces:  []int{20, 5},
			want:   "⭐ 28 vs AC 18 ⟵ [20]1d20 + 8; 🎲 14 ⟵ [5]1d6 + 4 + [5]1d6 (crit)",
		},
		{
			name:   "failed undetected",
			system: testSystem,
			text:   "1d20 vs undetected; 1d20+8 vs AC 18; 1d6+4",
			faces:  []int{5, 15, 3},
			want:   "🎲 ?? vs undetected (11); ✘ ?? vs AC 18",
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			engine := mustEngine(t, tc.system(), tc.faces...)
			roll := mustEvaluate(t, engine, tc.text)
			if got := engine.Render(roll, ModeCompact); got != tc.want {
				t.Fatalf("Render() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderVerbose(t *testing.T) {
	engine := mustEngine(t, testSystem(), 11, 4)
	roll := mustEvaluate(t, engine, "1d20+8 vs AC 18; 1d6+4")
	want := "✔ 19 (Success) vs AC 18 ⟵ [11]1d20 + 8\n🎲 8 ⟵ [4]1d6 + 4"
	if got := engine.Render(roll, ModeVerbose); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

var renderedTerm = regexp.MustCompile(`\[([^\]]*)\]\d+d\d+|[-+] (\d+)`)

// TestRenderValuesAddUpToTotal ensures the rendered faces and modifiers
// reproduce the rendered total.
func TestRenderValuesAddUpToTotal(t *testing.T) {
	engine := mustEngine(t, plainSystem(), 4, 3)
	out := engine.Render(mustEvaluate(t, engine, "2d6+3"), ModeCompact)
	head, values, ok := strings.Cut(out, " ⟵ ")
	if !ok {
		t.Fatalf("render = %q, want values", out)
	}
	total, err := strconv.Atoi(strings.Fields(head)[1])
	if err != nil {
		t.Fatalf("total in %q: %v", head, err)
	}
	sum := 0
	for _, match := range renderedTerm.FindAllStringSubmatch(values, -1) {
		if match[2] != "" {
			n, _ := strconv.Atoi(match[2])
			sum += n
			continue
		}
		for _, face := range strings.Split(match[1], ", ") {
			n, _ := strconv.Atoi(face)
			sum += n
		}
	}
	if sum != total {
		t.Fatalf("values %q add to %d, want %d", values, sum, total)
	}
}

func TestRenderLadderNonRollable(t *testing.T) {
	spec := LadderSpec{Category: ladder.Success}
	roll, err := RollDice(Dice{Parts: []DicePart{{Sign: Positive, Ladder: &spec}}}, nil)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	group := DiceGroupRoll{Rolls: []DiceRoll{roll}, System: plainSystem()}

	tcs := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "◆ Success"},
		{locale: "pt-BR", want: "◆ Sucesso"},
	}
	for _, tc := range tcs {
		if got := NewRenderer(ModeCompact, tc.locale).Render(group); got != tc.want {
			t.Fatalf("Render(%s) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestRenderLadderRoll(t *testing.T) {
	spec := LadderSpec{Category: ladder.D4, Shift: 2, Edge: true}
	roll, err := RollDice(Dice{Parts: []DicePart{{Sign: Positive, Ladder: &spec}}}, randomFaces(5, 17, 6))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	group := DiceGroupRoll{Rolls: []DiceRoll{roll}, System: plainSystem()}
	want := "🎲 23 ⟵ [~~5~~, 17]d20 + [6]d8 (d4↑2=d8)"
	if got := NewRenderer(ModeCompact, "en-US").Render(group); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLocalizedLabels(t *testing.T) {
	engine, err := NewEngine(plainSystem(), WithSource(randomFaces(7, 15)), WithLocale("pt-BR"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got := engine.Render(mustEvaluate(t, engine, "-2d20"), ModeCompact)
	if !strings.HasSuffix(got, "2d20kl1 Infortúnio") {
		t.Fatalf("Render() = %q, want localized misfortune label", got)
	}
}

func TestRenderStrikesExcludedParts(t *testing.T) {
	damage, src := damageRoll(t, Traits{Fatal: true, FatalSides: 10}, oneD6Plus4(), 5, 9, 6)
	got, err := ApplyCriticalManipulation(damage, CritRules{}, src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	group := DiceGroupRoll{Rolls: []DiceRoll{got}, System: plainSystem()}
	want := "🎲 28 ⟵ ~~[5]1d6~~ + [9]1d10 (fatal) + 4 + [9]1d10 (crit) + [6]1d10 (fatal)"
	if out := NewRenderer(ModeCompact, "en-US").Render(group); out != want {
		t.Fatalf("Render() = %q, want %q", out, want)
	}
}
