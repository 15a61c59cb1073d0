package dice

import "strings"

// Dice is one independently rolled and graded expression.
type Dice struct {
	Parts []DicePart
}

// Test returns the first test attached to any part.
func (d Dice) Test() *Test {
	for _, part := range d.Parts {
		if part.Test != nil {
			return part.Test
		}
	}
	return nil
}

// HasTest reports whether the Dice carries a test.
func (d Dice) HasTest() bool {
	return d.Test() != nil
}

// HasSpecialTest reports whether the test is a named special condition.
func (d Dice) HasSpecialTest() bool {
	test := d.Test()
	return test != nil && test.Special
}

// HasDie reports whether any part rolls.
func (d Dice) HasDie() bool {
	for _, part := range d.Parts {
		if part.HasDie() {
			return true
		}
	}
	return false
}

// IsD20 reports whether the Dice has exactly one die term and that term
// contributes a single d20 face.
func (d Dice) IsD20() bool {
	var die *DicePart
	for i := range d.Parts {
		if !d.Parts[i].HasDie() {
			continue
		}
		if die != nil {
			return false
		}
		die = &d.Parts[i]
	}
	return die != nil && die.Ladder == nil && die.Sides == 20 && die.KeptCount() == 1
}

// IsAttack reports whether the Dice can open an attack/damage pair.
func (d Dice) IsAttack() bool {
	if !d.IsD20() {
		return false
	}
	test := d.Test()
	return test == nil || test.ACLike()
}

// IsDamage reports whether the Dice can close an attack/damage pair.
func (d Dice) IsDamage() bool {
	return d.HasDie() && !d.IsD20() && !d.HasTest()
}

// Traits merges the traits of every part, earlier parts first.
func (d Dice) Traits() Traits {
	var traits Traits
	for _, part := range d.Parts {
		traits = traits.Merge(part.Traits)
	}
	return traits
}

func (d Dice) HasStriking() bool { return d.Traits().Striking != StrikingNone }
func (d Dice) HasDeadly() bool   { return d.Traits().Deadly }
func (d Dice) HasFatal() bool    { return d.Traits().Fatal }

// Description joins the part descriptions.
func (d Dice) Description() string {
	var words []string
	for _, part := range d.Parts {
		if part.Description != "" {
			words = append(words, part.Description)
		}
	}
	return strings.Join(words, " ")
}

// String renders the recipe, e.g. "1d20+8 vs AC 18".
func (d Dice) String() string {
	var b strings.Builder
	for i, part := range d.Parts {
		recipe := part.String()
		if recipe == "" {
			continue
		}
		if i > 0 && b.Len() > 0 && !strings.HasPrefix(recipe, "-") && !strings.HasPrefix(recipe, "+") {
			b.WriteString("+")
		}
		b.WriteString(recipe)
	}
	if test := d.Test(); test != nil {
		b.WriteString(" ")
		b.WriteString(test.String())
	}
	return b.String()
}

func (d Dice) clone() Dice {
	parts := make([]DicePart, len(d.Parts))
	for i, part := range d.Parts {
		parts[i] = part.clone()
	}
	return Dice{Parts: parts}
}

// DiceGroup is an ordered collection of Dice rolled together.
type DiceGroup struct {
	Dice []Dice
}

// Pair links an attack Dice to the damage Dice that follows it.
type Pair struct {
	Attack int
	Damage int
}

// AttackDamagePairs returns index pairs where a d20 attack (AC-like or no
// test) is immediately followed by a test-free, non-d20 Dice.
func (g DiceGroup) AttackDamagePairs() []Pair {
	var pairs []Pair
	for i := 0; i+1 < len(g.Dice); i++ {
		if g.Dice[i].IsAttack() && g.Dice[i+1].IsDamage() {
			pairs = append(pairs, Pair{Attack: i, Damage: i + 1})
			i++
		}
	}
	return pairs
}

// String renders every Dice joined by "; ".
func (g DiceGroup) String() string {
	out := make([]string, len(g.Dice))
	for i, d := range g.Dice {
		out[i] = d.String()
	}
	return strings.Join(out, "; ")
}
