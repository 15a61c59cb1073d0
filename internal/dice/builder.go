package dice

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/dicetower/internal/dice/token"
)

// draft is a DicePart under construction.
type draft struct {
	part DicePart
	// signed records an explicit sign on the die term.
	signed bool
	target *token.Token
}

func (d *draft) hasDie() bool {
	return d.part.HasDie()
}

// Builder assembles tokens into a DiceGroup. System token handlers drive it
// through its exported methods.
type Builder struct {
	system *System
	group  DiceGroup
	drafts []*draft
}

func newBuilder(system *System) *Builder {
	return &Builder{system: system}
}

// Parse assembles text into a DiceGroup. It never fails: text the grammar
// does not recognize becomes description.
func Parse(system *System, text string) (DiceGroup, error) {
	tokens, err := system.Tokenize(text)
	if err != nil {
		return DiceGroup{}, err
	}
	b := newBuilder(system)
	for _, tok := range tokens {
		b.consume(tok)
	}
	return b.Finish(), nil
}

func (b *Builder) consume(tok token.Token) {
	if handler, ok := b.system.Handlers[tok.Kind]; ok {
		handler(b, tok)
		return
	}
	switch tok.Kind {
	case token.KindDice:
		count := 1
		if raw := tok.Capture(2); raw != "" {
			count = atoi(raw)
		}
		b.AddDie(tok.Capture(1), count, atoi(tok.Capture(3)))
	case token.KindDropKeep:
		b.SetDropKeep(tok)
	case token.KindMod:
		b.AddModifier(tok.Capture(1), atoi(tok.Capture(2)))
	case token.KindTarget:
		b.AttachTarget(tok)
	case token.KindSeparator:
		b.CloseDice()
	case token.KindQuotes:
		b.Describe(unquote(tok.Raw))
	default:
		b.Describe(tok.Raw)
	}
}

// Part returns the current part, opening one when none exists.
func (b *Builder) Part() *DicePart {
	return &b.current().part
}

func (b *Builder) current() *draft {
	if len(b.drafts) == 0 {
		return b.openPart()
	}
	return b.drafts[len(b.drafts)-1]
}

func (b *Builder) openPart() *draft {
	d := &draft{part: DicePart{Sign: Positive}}
	b.drafts = append(b.drafts, d)
	return d
}

func (b *Builder) hasDie() bool {
	for _, d := range b.drafts {
		if d.hasDie() {
			return true
		}
	}
	return false
}

func (b *Builder) hasTarget() bool {
	for _, d := range b.drafts {
		if d.target != nil {
			return true
		}
	}
	return false
}

// openDiePart returns the draft a new die term should fill. An unsigned
// term after an existing die starts a new Dice.
func (b *Builder) openDiePart(sign string) *draft {
	if sign == "" && b.hasDie() {
		b.CloseDice()
	}
	if len(b.drafts) == 0 {
		return b.openPart()
	}
	cur := b.current()
	if cur.hasDie() || cur.part.Description != "" || cur.part.Modifier != 0 {
		return b.openPart()
	}
	return cur
}

// AddDie adds a count×sides die term. sign is "+", "-" or "".
func (b *Builder) AddDie(sign string, count, sides int) *DicePart {
	d := b.openDiePart(sign)
	if sides <= 0 {
		sides = b.system.sides()
	}
	d.signed = sign != ""
	d.part.Sign = signOf(sign)
	d.part.Count = min(max(count, 0), MaxCount)
	d.part.Sides = sides
	return &d.part
}

// AddLadder adds a ladder skill die. Ladder dice are never signed.
func (b *Builder) AddLadder(spec LadderSpec) *DicePart {
	d := b.openDiePart("")
	d.part.Ladder = &spec
	return &d.part
}

// SetDropKeep applies a drop/keep token to the current die. Without a die to
// modify the token is kept as description.
func (b *Builder) SetDropKeep(tok token.Token) {
	if len(b.drafts) == 0 {
		b.Describe(tok.Raw)
		return
	}
	cur := b.current()
	if !cur.hasDie() || cur.part.Ladder != nil || cur.part.DropKeep.Kind != DropKeepNone {
		b.Describe(tok.Raw)
		return
	}
	value := 1
	if raw := tok.Capture(2); raw != "" {
		value = atoi(raw)
	}
	cur.part.DropKeep = DropKeep{Kind: ParseDropKeepKind(tok.Capture(1)), Value: value}
}

// AddModifier adds a signed flat value to the current part. After a test
// the modifier opens its own part.
func (b *Builder) AddModifier(sign string, value int) {
	if signOf(sign) == Negative {
		value = -value
	}
	if len(b.drafts) == 0 || b.current().target != nil {
		b.openPart()
	}
	b.current().part.Modifier += value
}

// AttachTarget records a target token for the current Dice. A second target
// starts a new Dice.
func (b *Builder) AttachTarget(tok token.Token) {
	if b.hasTarget() {
		b.CloseDice()
	}
	cur := b.current()
	pending := tok
	cur.target = &pending
}

// Describe appends free text to the current part.
func (b *Builder) Describe(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	cur := b.current()
	if cur.part.Description == "" {
		cur.part.Description = text
		return
	}
	cur.part.Description += " " + text
}

// CloseDice finishes the current Dice. Closing with no open parts is a
// no-op.
func (b *Builder) CloseDice() {
	if len(b.drafts) == 0 {
		return
	}
	if !b.hasDie() {
		first := b.drafts[0]
		if first.part.Modifier != 0 {
			// A bare modifier keeps its position after the implied d20.
			b.drafts = append([]*draft{{part: DicePart{Sign: Positive}}}, b.drafts...)
			first = b.drafts[0]
		}
		first.part.Count = 1
		first.part.Sides = b.system.sides()
	}

	parts := make([]DicePart, 0, len(b.drafts))
	opened := false
	for _, d := range b.drafts {
		part := d.part
		if part.HasDie() && !opened {
			opened = true
			if d.signed && part.Ladder == nil && part.Count == 2 && part.Sides == 20 && part.DropKeep.Kind == DropKeepNone {
				part = fortune(part)
			}
		}
		if d.target != nil {
			test := b.system.resolveTarget(*d.target)
			part.Test = &test
		}
		parts = append(parts, part)
	}
	b.group.Dice = append(b.group.Dice, Dice{Parts: parts})
	b.drafts = nil
}

func fortune(part DicePart) DicePart {
	if part.Sign == Negative {
		part.DropKeep = DropKeep{Kind: KeepLowest, Value: 1}
		part.Label = LabelMisfortune
	} else {
		part.DropKeep = DropKeep{Kind: KeepHighest, Value: 1}
		part.Label = LabelFortune
	}
	part.Sign = Positive
	return part
}

// Finish closes the open Dice and returns the group. An empty input yields a
// single flat d20.
func (b *Builder) Finish() DiceGroup {
	b.CloseDice()
	if len(b.group.Dice) == 0 {
		b.group.Dice = []Dice{{Parts: []DicePart{{Count: 1, Sides: b.system.sides(), Sign: Positive}}}}
	}
	group := b.group
	b.group = DiceGroup{}
	return group
}

// ComparisonTarget resolves the shared comparison grammar: capture 1 is the
// operator, capture 2 the value.
func ComparisonTarget(tok token.Token) Test {
	value, hidden := ParseTargetValue(tok.Capture(2))
	return Test{
		Comparison: ParseComparison(tok.Capture(1)),
		Value:      value,
		Hidden:     hidden,
	}
}

// ParseTargetValue parses "18" or the hidden form "||18||".
func ParseTargetValue(raw string) (value int, hidden bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "||") && strings.HasSuffix(raw, "||") && len(raw) > 4 {
		return atoi(raw[2 : len(raw)-2]), true
	}
	return atoi(raw), false
}

func unquote(raw string) string {
	runes := []rune(raw)
	if len(runes) < 2 {
		return raw
	}
	return string(runes[1 : len(runes)-1])
}

// maxLiteral bounds numeric literals so sums over a capped term count cannot
// overflow.
const maxLiteral = math.MaxInt32

// atoi parses an unsigned literal, saturating at maxLiteral. Unparseable
// input is zero.
func atoi(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case errors.Is(err, strconv.ErrRange):
		return maxLiteral
	case err != nil:
		return 0
	}
	return min(n, maxLiteral)
}
