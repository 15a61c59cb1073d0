// Package essence20 implements a shift-ladder skill system.
//
// A skill roll is a d20 plus a skill die. Edge and snag roll the d20 twice
// and keep the higher or lower face; specialization rolls every skill die
// up to the trained one and keeps the best. Shifts move the skill die along
// the ladder, past d20 into automatic failure at the bottom or past 3d6
// into automatic success at the top.
package essence20

import (
	"fmt"
	"strings"

	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/dice/ladder"
	"github.com/louisbranch/dicetower/internal/dice/token"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

const (
	ID      = "essence20"
	Name    = "Essence20"
	Version = "1.0.0"
)

// KindSkill is a skill die with its compound suffix, e.g. "d6e↑2".
const KindSkill token.Kind = "skill"

const (
	skillExpr  = `(?i)(2d8|3d6|d20|d12|d10|d8|d6|d4|d2)((?:[es*]|[↑↓+-]\d*)*)`
	targetExpr = `(?i)(?:vs\s+)?dif{1,2}(?:\s*(\d+)|\b)|vs(?:\s*(\d+)|\b)`
)

func overlay(table *token.Table) {
	table.InsertBefore(token.KindDice, token.Pattern{Kind: KindSkill, Expr: skillExpr})
	table.Override(token.KindTarget, targetExpr)
}

// NewSystem returns the system's capability record.
func NewSystem() *dice.System {
	return &dice.System{
		ID:           ID,
		Name:         Name,
		Version:      Version,
		DefaultSides: 20,
		Overlay:      overlay,
		Required:     []token.Kind{KindSkill},
		Handlers: map[token.Kind]dice.TokenHandler{
			KindSkill: handleSkill,
		},
		ResolveTarget: ResolveTarget,
		Grade:         Grade,
		Ladder:        ladder.Categories(),
	}
}

func handleSkill(b *dice.Builder, tok token.Token) {
	spec, err := ParseSkill(tok.Capture(1), tok.Capture(2))
	if err != nil {
		b.Describe(tok.Raw)
		return
	}
	b.AddLadder(spec)
}

// ParseSkill decomposes a skill die and its suffix run: "e" for edge, "s"
// for snag, "*" for specialization, and "↑", "↓", "+" or "-" with an
// optional count for shifts. Shifts are summed.
func ParseSkill(category, suffix string) (dice.LadderSpec, error) {
	c, ok := ladder.Parse(category)
	if !ok {
		return dice.LadderSpec{}, apperrors.WithMetadata(apperrors.CodeRulesInvalid,
			fmt.Sprintf("unknown skill die %q", category),
			map[string]string{"reason": "unknown skill die " + category})
	}
	spec := dice.LadderSpec{Category: c}
	var shifts strings.Builder
	for _, r := range suffix {
		switch r {
		case 'e', 'E':
			spec.Edge = true
		case 's', 'S':
			spec.Snag = true
		case '*':
			spec.Specialization = true
		case '+':
			shifts.WriteRune('↑')
		case '-':
			shifts.WriteRune('↓')
		default:
			shifts.WriteRune(r)
		}
	}
	shift, err := ladder.ParseShift(shifts.String())
	if err != nil {
		return dice.LadderSpec{}, err
	}
	spec.Shift = shift
	return spec, nil
}

// ResolveTarget reads a DIF target, written "DIF 12", "vs DIF 12" or
// "vs 12". A DIF with no number is zero.
func ResolveTarget(tok token.Token) dice.Test {
	raw := tok.Capture(1)
	if raw == "" {
		raw = tok.Capture(2)
	}
	value, _ := dice.ParseTargetValue(raw)
	return dice.Test{Comparison: dice.CompareGTE, Value: value, Alias: "dif"}
}

// Grade maps automatic ladder outcomes directly and otherwise compares the
// total to the DIF. A natural 20 is a critical success and a natural 1 a
// critical failure.
func Grade(roll dice.DiceRoll) dice.Grade {
	if lr := roll.Ladder(); lr != nil && !lr.Result.Rollable {
		switch lr.Result.Shifted {
		case ladder.Fumble:
			return dice.GradeCriticalFailure
		case ladder.Fail:
			return dice.GradeFailure
		case ladder.Success:
			return dice.GradeSuccess
		case ladder.Critical:
			return dice.GradeCriticalSuccess
		}
		return dice.GradeUnknown
	}
	test := roll.Test()
	if test == nil {
		return dice.GradeUnknown
	}
	if natural, ok := roll.Natural(); ok && natural.Sides == 20 {
		switch {
		case natural.IsMax():
			return dice.GradeCriticalSuccess
		case natural.IsMin():
			return dice.GradeCriticalFailure
		}
	}
	return dice.GradeComparison(roll.Total(), *test)
}
