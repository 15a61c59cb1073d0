package dice

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
	"github.com/louisbranch/dicetower/internal/random"
)

// CritMethod selects how a critical hit multiplies damage.
type CritMethod string

const (
	// CritDoubleDice adds a copy of the rolled damage dice.
	CritDoubleDice CritMethod = "double-dice"
	// CritDoubleTotal adds the whole damage total again.
	CritDoubleTotal CritMethod = "double-total"
	// CritRollTwice rolls the damage dice again and doubles flat modifiers.
	CritRollTwice CritMethod = "roll-twice"
	// CritMaxDice adds the maximum value of the damage dice.
	CritMaxDice CritMethod = "max-dice"
)

// DefaultCritMethod is used when rules do not name one.
const DefaultCritMethod = CritDoubleDice

// CritMethods lists the supported methods.
func CritMethods() []CritMethod {
	return []CritMethod{CritDoubleDice, CritDoubleTotal, CritRollTwice, CritMaxDice}
}

// ParseCritMethod resolves a method name; empty means the default.
func ParseCritMethod(raw string) (CritMethod, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultCritMethod, nil
	}
	for _, method := range CritMethods() {
		if string(method) == raw {
			return method, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeRulesInvalid,
		fmt.Sprintf("unknown crit method %q", raw),
		map[string]string{"reason": "unknown crit method " + raw})
}

// CritRules configures critical manipulation.
type CritRules struct {
	Method CritMethod
	// FatalSides overrides the fatal die size when a trait gives none.
	FatalSides int
	// Traits fill traits the damage Dice does not set, e.g. traits written
	// on the attack.
	Traits Traits
}

func (r CritRules) method() CritMethod {
	if r.Method == "" {
		return DefaultCritMethod
	}
	return r.Method
}

// FatalSize returns the next standard die size above sides, clamped at 12.
func FatalSize(sides int) int {
	for _, size := range []int{4, 6, 8, 10, 12} {
		if size > sides {
			return size
		}
	}
	return max(sides, 12)
}

// ApplyCriticalManipulation returns damage with critical-hit parts appended.
// The input is not modified. Rules apply in order: striking dice count,
// fatal die size, exactly one "(crit)" part, deadly dice, the fatal bonus
// die. A roll with no damage die is returned unchanged.
func ApplyCriticalManipulation(damage DiceRoll, rules CritRules, src random.Source) (DiceRoll, error) {
	base := -1
	for i, part := range damage.Parts {
		if !part.Part.Synthetic && part.Part.Ladder == nil && part.Part.HasDie() && !damage.IsExcluded(i) {
			base = i
			break
		}
	}
	if base < 0 {
		return damage, nil
	}
	out := damage.clone()
	basePart := damage.Parts[base].Part
	traits := damage.Dice.Traits().Merge(rules.Traits)
	sides := basePart.Sides
	count := basePart.KeptCount()

	if target := traits.Striking.DiceCount(); traits.Striking != StrikingNone && count < target {
		extra, err := syntheticDice(target-count, sides, LabelStriking, src)
		if err != nil {
			return DiceRoll{}, err
		}
		out = out.Append(extra)
		count = target
	}

	if traits.Fatal {
		fatalSides := traits.FatalSides
		if fatalSides <= 0 {
			fatalSides = rules.FatalSides
		}
		if fatalSides <= 0 {
			fatalSides = FatalSize(sides)
		}
		replaced, err := syntheticDice(count, fatalSides, LabelFatal, src)
		if err != nil {
			return DiceRoll{}, err
		}
		replaced.Part.Modifier = basePart.Modifier
		for i, part := range out.Parts {
			if i == base || (part.Part.Synthetic && part.Part.Label == LabelStriking) {
				out = out.Exclude(i)
			}
		}
		out = out.Append(replaced)
		sides = fatalSides
	}

	crits, err := critParts(out, rules.method(), src)
	if err != nil {
		return DiceRoll{}, err
	}
	out = out.Append(crits...)

	if traits.Deadly {
		deadlySides := traits.DeadlySides
		if deadlySides <= 0 {
			deadlySides = basePart.Sides
		}
		deadly, err := syntheticDice(traits.Striking.DeadlyCount(), deadlySides, LabelDeadly, src)
		if err != nil {
			return DiceRoll{}, err
		}
		out = out.Append(deadly)
	}

	if traits.Fatal {
		bonus, err := syntheticDice(1, sides, LabelFatal, src)
		if err != nil {
			return DiceRoll{}, err
		}
		out = out.Append(bonus)
	}
	return out, nil
}

// critParts builds the critical contribution from the counted damage so
// far. Dice-based methods add one signed part per run of same-sized damage
// dice so subtracted dice stay subtracted; only the last part carries the
// "(crit)" label.
func critParts(roll DiceRoll, method CritMethod, src random.Source) ([]DicePartRoll, error) {
	var (
		terms     []DicePartRoll
		maxTotal  int
		modifiers int
	)
	for i, part := range roll.Parts {
		if roll.IsExcluded(i) || part.Part.Ladder != nil {
			continue
		}
		modifiers += part.Part.Modifier
		if !part.Part.HasDie() {
			continue
		}
		maxTotal += int(part.Part.Sign) * part.Part.Max()

		var faces []int
		kept := part.Kept()
		for j, face := range part.Faces {
			if kept[j] {
				faces = append(faces, face)
			}
		}
		if method == CritRollTwice {
			rolled, err := rollFaces(src, len(faces), part.Part.Sides, nil)
			if err != nil {
				return nil, err
			}
			faces = rolled
		}
		if n := len(terms); n > 0 && terms[n-1].Part.Sign == part.Part.Sign && terms[n-1].Part.Sides == part.Part.Sides {
			terms[n-1].Faces = append(terms[n-1].Faces, faces...)
			continue
		}
		terms = append(terms, DicePartRoll{
			Part:  DicePart{Sides: part.Part.Sides, Sign: part.Part.Sign},
			Faces: faces,
		})
	}

	switch method {
	case CritDoubleTotal:
		return []DicePartRoll{{Part: DicePart{Sign: Positive, Label: LabelCrit, Modifier: roll.Total()}}}, nil
	case CritMaxDice:
		return []DicePartRoll{{Part: DicePart{Sign: Positive, Label: LabelCrit, Modifier: maxTotal}}}, nil
	}
	for i := range terms {
		terms[i].Part.Count = len(terms[i].Faces)
		if method != CritRollTwice {
			terms[i].Part.Fixed = append([]int(nil), terms[i].Faces...)
		}
	}
	if len(terms) == 0 {
		return []DicePartRoll{{Part: DicePart{Sign: Positive, Label: LabelCrit}}}, nil
	}
	last := &terms[len(terms)-1].Part
	last.Label = LabelCrit
	if method == CritRollTwice {
		last.Modifier = modifiers
	}
	return terms, nil
}

func syntheticDice(count, sides int, label string, src random.Source) (DicePartRoll, error) {
	part := DicePart{Count: count, Sides: sides, Sign: Positive, Label: label}
	faces, err := rollFaces(src, count, sides, nil)
	if err != nil {
		return DicePartRoll{}, err
	}
	return DicePartRoll{Part: part, Faces: faces}, nil
}

// CriticalPairs is a ManipulateFunc that applies critical manipulation to
// the damage of every visible attack graded a critical success.
func CriticalPairs(roll DiceGroupRoll, env Environment) (DiceGroupRoll, error) {
	lines := roll.Lines()
	out := roll
	for _, pair := range roll.Group.AttackDamagePairs() {
		line := lines[pair.Attack]
		if line.Visibility != VisibilityShown || line.Grade != GradeCriticalSuccess {
			continue
		}
		rules := env.Rules
		rules.Traits = rules.Traits.Merge(roll.Rolls[pair.Attack].Dice.Traits())
		damage, err := ApplyCriticalManipulation(roll.Rolls[pair.Damage], rules, env.Source)
		if err != nil {
			return DiceGroupRoll{}, err
		}
		out = out.Replace(pair.Damage, damage)
	}
	return out, nil
}
