// Package pf2e implements a d20 degree-of-success system.
//
// Attacks and checks target AC or DC and grade in four degrees: beating the
// target by 10 is a critical success, missing it by 10 a critical failure,
// and a natural 20 or natural 1 moves the result one degree. A critical hit
// multiplies the damage roll that follows the attack, honoring the striking,
// deadly and fatal weapon traits. Flat checks against special conditions
// (hidden, undetected, ...) gate the attack that follows them.
package pf2e

import (
	"strconv"
	"strings"

	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/dice/token"
)

const (
	ID      = "pf2e"
	Name    = "Pathfinder Second Edition"
	Version = "1.0.0"
)

// Token kinds added to the base table.
const (
	KindTest     token.Kind = "test"
	KindSpecial  token.Kind = "special"
	KindStriking token.Kind = "striking"
	KindDeadly   token.Kind = "deadly"
	KindFatal    token.Kind = "fatal"
)

// Special-condition flat check DCs.
const (
	DCConcealed  = 5
	DCDeafened   = 5
	DCHidden     = 11
	DCUndetected = 11
	// DCStupefiedBase is added to the stupefied value.
	DCStupefiedBase = 5
)

func overlay(table *token.Table) {
	table.InsertBefore(token.KindDice,
		token.Pattern{Kind: KindStriking, Expr: `(?i)(?:(greater|major)\s+)?striking`},
		token.Pattern{Kind: KindDeadly, Expr: `(?i)deadly[\s-]*(?:d(\d+))?`},
		token.Pattern{Kind: KindFatal, Expr: `(?i)fatal[\s-]*(?:d(\d+))?`},
	)
	table.InsertBefore(token.KindTarget,
		token.Pattern{Kind: KindSpecial, Expr: `(?i)vs\s+(concealed|hidden|deafened|undetected|stupefied)(?:\s*(\d+))?`},
		token.Pattern{Kind: KindTest, Expr: `(?i)(?:vs\s+)?(ac|dc|vs)\s*(\d+|\|\|\d+\|\|)`},
	)
}

// NewSystem returns the system's capability record.
func NewSystem() *dice.System {
	return &dice.System{
		ID:           ID,
		Name:         Name,
		Version:      Version,
		DefaultSides: 20,
		Overlay:      overlay,
		Required:     []token.Kind{KindTest, KindSpecial, KindStriking, KindDeadly, KindFatal},
		Handlers: map[token.Kind]dice.TokenHandler{
			KindTest:     (*dice.Builder).AttachTarget,
			KindSpecial:  (*dice.Builder).AttachTarget,
			KindStriking: handleStriking,
			KindDeadly:   handleDeadly,
			KindFatal:    handleFatal,
		},
		ResolveTarget: ResolveTarget,
		Grade:         Grade,
		Manipulate:    dice.CriticalPairs,
	}
}

func handleStriking(b *dice.Builder, tok token.Token) {
	tier := dice.StrikingStandard
	switch strings.ToLower(tok.Capture(1)) {
	case "greater":
		tier = dice.StrikingGreater
	case "major":
		tier = dice.StrikingMajor
	}
	b.Part().Traits.Striking = tier
}

func handleDeadly(b *dice.Builder, tok token.Token) {
	traits := &b.Part().Traits
	traits.Deadly = true
	traits.DeadlySides = atoi(tok.Capture(1))
}

func handleFatal(b *dice.Builder, tok token.Token) {
	traits := &b.Part().Traits
	traits.Fatal = true
	traits.FatalSides = atoi(tok.Capture(1))
}

// ResolveTarget converts AC/DC targets, special conditions and bare
// comparisons into tests.
func ResolveTarget(tok token.Token) dice.Test {
	switch tok.Kind {
	case KindTest:
		value, hidden := dice.ParseTargetValue(tok.Capture(2))
		return dice.Test{Value: value, Hidden: hidden, Alias: strings.ToLower(tok.Capture(1))}
	case KindSpecial:
		value := -1
		if raw := tok.Capture(2); raw != "" {
			value = atoi(raw)
		}
		return SpecialTarget(tok.Capture(1), value)
	default:
		return dice.ComparisonTarget(tok)
	}
}

// SpecialTarget returns the flat check for a special condition. value is
// the condition value, or negative when none was given. An undetected check
// redacts the attack it gates; the others suppress it.
func SpecialTarget(condition string, value int) dice.Test {
	condition = strings.ToLower(condition)
	test := dice.Test{Alias: condition, Special: true, Gate: dice.GateSuppress}
	switch condition {
	case "concealed":
		test.Value = DCConcealed
	case "deafened":
		test.Value = DCDeafened
	case "hidden":
		test.Value = DCHidden
	case "undetected":
		test.Value = DCUndetected
		test.Gate = dice.GateRedact
	case "stupefied":
		if value < 0 {
			value = 1
		}
		test.Value = DCStupefiedBase + value
	}
	return test
}

// Grade grades AC/DC tests and special-condition flat checks by degrees of
// success. Bare comparisons pass or fail.
func Grade(roll dice.DiceRoll) dice.Grade {
	test := roll.Test()
	switch {
	case test == nil:
		return dice.GradeUnknown
	case test.Alias == "":
		return dice.GradeComparison(roll.Total(), *test)
	}
	var natural dice.Natural
	if roll.Dice.IsD20() {
		natural, _ = roll.Natural()
	}
	return dice.GradeDegrees(roll.Total(), test.Value, natural)
}

func atoi(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
