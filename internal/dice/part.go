package dice

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/dicetower/internal/dice/ladder"
)

// MaxCount caps the number of dice in one term.
const MaxCount = 1000

// Labels attached to parts created by the engine.
const (
	LabelFortune    = "Fortune"
	LabelMisfortune = "Misfortune"
	LabelCrit       = "(crit)"
	LabelStriking   = "(striking)"
	LabelDeadly     = "(deadly)"
	LabelFatal      = "(fatal)"
)

// Sign is the additive sign of a die term.
type Sign int

const (
	Positive Sign = 1
	Negative Sign = -1
)

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

func signOf(raw string) Sign {
	if raw == "-" {
		return Negative
	}
	return Positive
}

// DropKeepKind selects which rolled faces count toward a total.
type DropKeepKind int

const (
	DropKeepNone DropKeepKind = iota
	DropLowest
	DropHighest
	KeepLowest
	KeepHighest
)

var dropKeepCodes = map[DropKeepKind]string{
	DropLowest:  "dl",
	DropHighest: "dh",
	KeepLowest:  "kl",
	KeepHighest: "kh",
}

// ParseDropKeepKind resolves "dl", "dh", "kl" or "kh".
func ParseDropKeepKind(code string) DropKeepKind {
	code = strings.ToLower(code)
	for kind, candidate := range dropKeepCodes {
		if candidate == code {
			return kind
		}
	}
	return DropKeepNone
}

// DropKeep removes the lowest or highest N faces before summing.
type DropKeep struct {
	Kind  DropKeepKind
	Value int
}

func (dk DropKeep) String() string {
	if dk.Kind == DropKeepNone {
		return ""
	}
	return dropKeepCodes[dk.Kind] + strconv.Itoa(dk.Value)
}

// Kept reports, per face, whether the face counts toward the total.
// Ties are resolved by position: the earlier of two equal faces sorts lower.
func (dk DropKeep) Kept(faces []int) []bool {
	kept := make([]bool, len(faces))
	for i := range kept {
		kept[i] = true
	}
	if dk.Kind == DropKeepNone || len(faces) == 0 {
		return kept
	}
	n := len(faces)
	v := min(max(dk.Value, 0), n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return faces[a] - faces[b] })

	var drop []int
	switch dk.Kind {
	case DropLowest:
		drop = order[:v]
	case DropHighest:
		drop = order[n-v:]
	case KeepLowest:
		drop = order[v:]
	case KeepHighest:
		drop = order[:n-v]
	}
	for _, i := range drop {
		kept[i] = false
	}
	return kept
}

// Comparison is the operator of a test.
type Comparison int

const (
	CompareGTE Comparison = iota
	CompareGT
	CompareLTE
	CompareLT
	CompareEQ
)

// ParseComparison resolves textual operators such as "gte" or ">=".
func ParseComparison(op string) Comparison {
	switch strings.ToLower(op) {
	case "gt", ">":
		return CompareGT
	case "lte", "<=":
		return CompareLTE
	case "lt", "<":
		return CompareLT
	case "eq", "=":
		return CompareEQ
	default:
		return CompareGTE
	}
}

// Holds reports whether total satisfies the comparison against value.
func (c Comparison) Holds(total, value int) bool {
	switch c {
	case CompareGT:
		return total > value
	case CompareLTE:
		return total <= value
	case CompareLT:
		return total < value
	case CompareEQ:
		return total == value
	default:
		return total >= value
	}
}

func (c Comparison) String() string {
	switch c {
	case CompareGT:
		return ">"
	case CompareLTE:
		return "<="
	case CompareLT:
		return "<"
	case CompareEQ:
		return "="
	default:
		return ">="
	}
}

// Gate describes how a failed special-condition test affects the attack it
// precedes.
type Gate int

const (
	GateNone Gate = iota
	// GateSuppress hides the attack and its damage when the test fails.
	GateSuppress
	// GateRedact hides the attack total and discloses only success or failure.
	GateRedact
)

// Test is an evaluatable target attached to a part.
type Test struct {
	Comparison Comparison
	Value      int
	Hidden     bool
	// Alias is the lowercased target name: "ac", "dc", "vs", "dif", a
	// special condition, or "" for a bare comparison.
	Alias string
	// Special marks named special-condition targets (flat checks).
	Special bool
	Gate    Gate
}

// ACLike reports whether the test targets armor class.
func (t Test) ACLike() bool {
	return !t.Special && (t.Alias == "ac" || t.Alias == "vs")
}

// String renders the test, e.g. "vs AC 18" or ">= 15". Hidden values
// render as "??".
func (t Test) String() string {
	value := strconv.Itoa(t.Value)
	if t.Hidden {
		value = "??"
	}
	switch {
	case t.Special:
		return fmt.Sprintf("vs %s (%s)", t.Alias, value)
	case t.Alias == "vs":
		return "vs " + value
	case t.Alias == "dif":
		return "DIF " + value
	case t.Alias != "":
		return fmt.Sprintf("vs %s %s", strings.ToUpper(t.Alias), value)
	default:
		return t.Comparison.String() + " " + value
	}
}

// StrikingTier is the weapon's striking rune.
type StrikingTier int

const (
	StrikingNone StrikingTier = iota
	StrikingStandard
	StrikingGreater
	StrikingMajor
)

// DiceCount is the base damage dice count the tier grants.
func (s StrikingTier) DiceCount() int {
	switch s {
	case StrikingStandard:
		return 2
	case StrikingGreater:
		return 3
	case StrikingMajor:
		return 4
	default:
		return 1
	}
}

// DeadlyCount is the number of deadly dice added on a critical hit.
func (s StrikingTier) DeadlyCount() int {
	switch s {
	case StrikingGreater:
		return 2
	case StrikingMajor:
		return 3
	default:
		return 1
	}
}

// Traits are weapon traits that alter damage on a critical hit.
type Traits struct {
	Striking StrikingTier
	Deadly   bool
	// DeadlySides is the deadly die size; zero uses the base die size.
	DeadlySides int
	Fatal       bool
	// FatalSides is the fatal die size; zero uses the next larger standard die.
	FatalSides int
}

// Merge fills unset traits from fallback.
func (t Traits) Merge(fallback Traits) Traits {
	if t.Striking == StrikingNone {
		t.Striking = fallback.Striking
	}
	if !t.Deadly && fallback.Deadly {
		t.Deadly, t.DeadlySides = true, fallback.DeadlySides
	}
	if !t.Fatal && fallback.Fatal {
		t.Fatal, t.FatalSides = true, fallback.FatalSides
	}
	return t
}

// LadderSpec is a ladder-system skill die with its suffixes decomposed.
type LadderSpec struct {
	Category       ladder.Category
	Edge           bool
	Snag           bool
	Specialization bool
	// Shift is the summed signed shift.
	Shift int
}

func (l LadderSpec) String() string {
	var b strings.Builder
	b.WriteString(string(l.Category))
	if l.Edge {
		b.WriteString("e")
	}
	if l.Snag {
		b.WriteString("s")
	}
	if l.Specialization {
		b.WriteString("*")
	}
	switch {
	case l.Shift > 0:
		fmt.Fprintf(&b, "↑%d", l.Shift)
	case l.Shift < 0:
		fmt.Fprintf(&b, "↓%d", -l.Shift)
	}
	return b.String()
}

// DicePart is one additive die/modifier term.
type DicePart struct {
	Count    int
	Sides    int
	Sign     Sign
	Modifier int
	DropKeep DropKeep

	Description string
	// Label is an engine-assigned tag such as "Fortune" or "(crit)".
	Label string
	// Fixed supplies faces in order before the random source is consulted.
	Fixed []int

	Test   *Test
	Traits Traits
	Ladder *LadderSpec

	// Synthetic marks parts appended by manipulation.
	Synthetic bool
}

// HasDie reports whether the part rolls anything.
func (p DicePart) HasDie() bool {
	return p.Ladder != nil || (p.Count > 0 && p.Sides > 0)
}

// KeptCount is the number of faces that count after drop/keep.
func (p DicePart) KeptCount() int {
	n := p.Count
	v := min(max(p.DropKeep.Value, 0), n)
	switch p.DropKeep.Kind {
	case DropLowest, DropHighest:
		return n - v
	case KeepLowest, KeepHighest:
		return v
	default:
		return n
	}
}

// Max is the theoretical maximum of the part's kept dice.
func (p DicePart) Max() int {
	if p.Ladder != nil {
		return 0
	}
	return p.KeptCount() * p.Sides
}

// String renders the recipe, e.g. "2d20kh1+4".
func (p DicePart) String() string {
	var b strings.Builder
	switch {
	case p.Ladder != nil:
		b.WriteString(p.Ladder.String())
	case p.HasDie():
		if p.Sign == Negative {
			b.WriteString("-")
		}
		fmt.Fprintf(&b, "%dd%d%s", p.Count, p.Sides, p.DropKeep)
	}
	if p.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", p.Modifier)
	}
	return b.String()
}

func (p DicePart) clone() DicePart {
	p.Fixed = slices.Clone(p.Fixed)
	if p.Test != nil {
		test := *p.Test
		p.Test = &test
	}
	if p.Ladder != nil {
		spec := *p.Ladder
		p.Ladder = &spec
	}
	return p
}
