package dice

import (
	"fmt"
	"slices"

	"github.com/louisbranch/dicetower/internal/dice/ladder"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
	"github.com/louisbranch/dicetower/internal/random"
)

// Natural is the unmodified face of a graded die.
type Natural struct {
	Face  int
	Sides int
}

// IsMax reports a natural maximum, e.g. a natural 20.
func (n Natural) IsMax() bool { return n.Sides > 0 && n.Face == n.Sides }

// IsMin reports a natural 1.
func (n Natural) IsMin() bool { return n.Sides > 0 && n.Face == 1 }

// LadderRoll captures a ladder skill roll: the test d20 faces and the skill
// die faces of every category rolled.
type LadderRoll struct {
	Result   ladder.Result
	Tests    []int
	TestKeep DropKeep
	// Skills holds one face list per rolled category; Pick is the category
	// that counts.
	Skills     [][]int
	Categories []ladder.Category
	Pick       int
}

// TestKept reports which test faces count.
func (l LadderRoll) TestKept() []bool {
	return l.TestKeep.Kept(l.Tests)
}

// Natural returns the kept test face.
func (l LadderRoll) Natural() int {
	kept := l.TestKept()
	for i, face := range l.Tests {
		if kept[i] {
			return face
		}
	}
	return 0
}

// Skill returns the sum of the picked skill faces.
func (l LadderRoll) Skill() int {
	if l.Pick < 0 || l.Pick >= len(l.Skills) {
		return 0
	}
	return sum(l.Skills[l.Pick])
}

// Value is the kept test face plus the skill die.
func (l LadderRoll) Value() int {
	return l.Natural() + l.Skill()
}

// DicePartRoll is the rolled outcome of one DicePart.
type DicePartRoll struct {
	Part   DicePart
	Faces  []int
	Ladder *LadderRoll
}

// Kept reports which faces count toward the total.
func (r DicePartRoll) Kept() []bool {
	return r.Part.DropKeep.Kept(r.Faces)
}

// Sum adds the kept faces.
func (r DicePartRoll) Sum() int {
	if r.Ladder != nil {
		return r.Ladder.Value()
	}
	total := 0
	kept := r.Kept()
	for i, face := range r.Faces {
		if kept[i] {
			total += face
		}
	}
	return total
}

// Total is sign × sum(kept faces) + modifier.
func (r DicePartRoll) Total() int {
	return int(r.Part.Sign)*r.Sum() + r.Part.Modifier
}

// Rollable reports whether any face was drawn.
func (r DicePartRoll) Rollable() bool {
	if r.Ladder != nil {
		return r.Ladder.Result.Rollable
	}
	return len(r.Faces) > 0
}

// Natural returns the single kept d20 face of the part, if it has one.
func (r DicePartRoll) Natural() (Natural, bool) {
	if r.Ladder != nil {
		if !r.Ladder.Result.Rollable {
			return Natural{}, false
		}
		return Natural{Face: r.Ladder.Natural(), Sides: 20}, true
	}
	if r.Part.Sides != 20 || r.Part.KeptCount() != 1 {
		return Natural{}, false
	}
	kept := r.Kept()
	for i, face := range r.Faces {
		if kept[i] {
			return Natural{Face: face, Sides: r.Part.Sides}, true
		}
	}
	return Natural{}, false
}

// DiceRoll is the rolled outcome of one Dice. Parts may extend beyond the
// recipe with synthetic parts; Excluded lists parts that were replaced and
// no longer count.
type DiceRoll struct {
	Dice     Dice
	Parts    []DicePartRoll
	Excluded []int
}

// IsExcluded reports whether part i was replaced.
func (r DiceRoll) IsExcluded(i int) bool {
	return slices.Contains(r.Excluded, i)
}

// Total sums every counted part.
func (r DiceRoll) Total() int {
	total := 0
	for i, part := range r.Parts {
		if !r.IsExcluded(i) {
			total += part.Total()
		}
	}
	return total
}

// Rollable reports whether any part drew faces.
func (r DiceRoll) Rollable() bool {
	for _, part := range r.Parts {
		if part.Rollable() {
			return true
		}
	}
	return false
}

// Test returns the recipe's test.
func (r DiceRoll) Test() *Test {
	return r.Dice.Test()
}

// Natural returns the natural face of the first graded die.
func (r DiceRoll) Natural() (Natural, bool) {
	for i, part := range r.Parts {
		if part.Part.Synthetic || r.IsExcluded(i) || !part.Part.HasDie() {
			continue
		}
		return part.Natural()
	}
	return Natural{}, false
}

// Ladder returns the first ladder part roll.
func (r DiceRoll) Ladder() *LadderRoll {
	for _, part := range r.Parts {
		if part.Ladder != nil {
			return part.Ladder
		}
	}
	return nil
}

// Append returns a copy of the roll with synthetic parts added.
func (r DiceRoll) Append(parts ...DicePartRoll) DiceRoll {
	out := r.clone()
	for _, part := range parts {
		part.Part.Synthetic = true
		out.Parts = append(out.Parts, part)
	}
	return out
}

// Exclude returns a copy of the roll with part i no longer counted.
func (r DiceRoll) Exclude(i int) DiceRoll {
	out := r.clone()
	if i >= 0 && i < len(out.Parts) && !out.IsExcluded(i) {
		out.Excluded = append(out.Excluded, i)
	}
	return out
}

func (r DiceRoll) clone() DiceRoll {
	return DiceRoll{
		Dice:     r.Dice,
		Parts:    slices.Clone(r.Parts),
		Excluded: slices.Clone(r.Excluded),
	}
}

// DiceGroupRoll is the rolled outcome of a DiceGroup.
type DiceGroupRoll struct {
	Group  DiceGroup
	Rolls  []DiceRoll
	System *System
}

// Grade grades roll i with the system's grading function.
func (g DiceGroupRoll) Grade(i int) Grade {
	if i < 0 || i >= len(g.Rolls) {
		return GradeUnknown
	}
	if g.System == nil {
		return GradeComparisonRoll(g.Rolls[i])
	}
	return g.System.grade(g.Rolls[i])
}

// Replace returns a copy of the group with roll i swapped.
func (g DiceGroupRoll) Replace(i int, roll DiceRoll) DiceGroupRoll {
	out := g
	out.Rolls = slices.Clone(g.Rolls)
	if i >= 0 && i < len(out.Rolls) {
		out.Rolls[i] = roll
	}
	return out
}

// RollGroup rolls every Dice in declaration order.
func RollGroup(system *System, group DiceGroup, src random.Source) (DiceGroupRoll, error) {
	out := DiceGroupRoll{Group: group, System: system, Rolls: make([]DiceRoll, 0, len(group.Dice))}
	for _, d := range group.Dice {
		roll, err := RollDice(d, src)
		if err != nil {
			return DiceGroupRoll{}, err
		}
		out.Rolls = append(out.Rolls, roll)
	}
	return out, nil
}

// RollDice rolls every part of d left to right.
func RollDice(d Dice, src random.Source) (DiceRoll, error) {
	out := DiceRoll{Dice: d, Parts: make([]DicePartRoll, 0, len(d.Parts))}
	for _, part := range d.Parts {
		roll, err := RollPart(part, src)
		if err != nil {
			return DiceRoll{}, err
		}
		out.Parts = append(out.Parts, roll)
	}
	return out, nil
}

// RollPart rolls one part. Fixed faces are used before the source.
func RollPart(part DicePart, src random.Source) (DicePartRoll, error) {
	if part.Ladder != nil {
		lr, err := rollLadder(*part.Ladder, src)
		if err != nil {
			return DicePartRoll{}, err
		}
		return DicePartRoll{Part: part, Ladder: lr}, nil
	}
	if !part.HasDie() {
		return DicePartRoll{Part: part}, nil
	}
	faces, err := rollFaces(src, part.Count, part.Sides, part.Fixed)
	if err != nil {
		return DicePartRoll{}, err
	}
	return DicePartRoll{Part: part, Faces: faces}, nil
}

func rollLadder(spec LadderSpec, src random.Source) (*LadderRoll, error) {
	out := &LadderRoll{Result: ladder.Shift(spec.Category, spec.Shift), Pick: -1}
	if !out.Result.Rollable {
		return out, nil
	}

	tests := 1
	if spec.Edge != spec.Snag {
		tests = 2
		out.TestKeep = DropKeep{Kind: KeepLowest, Value: 1}
		if spec.Edge {
			out.TestKeep.Kind = KeepHighest
		}
	}
	faces, err := rollFaces(src, tests, 20, nil)
	if err != nil {
		return nil, err
	}
	out.Tests = faces

	if out.Result.Shifted == ladder.D20 {
		return out, nil
	}
	categories := []ladder.Category{out.Result.Shifted}
	if spec.Specialization {
		categories = out.Result.Shifted.Below()
	}
	best := 0
	for _, category := range categories {
		count, sides, _ := category.Die()
		skill, err := rollFaces(src, count, sides, nil)
		if err != nil {
			return nil, err
		}
		out.Skills = append(out.Skills, skill)
		out.Categories = append(out.Categories, category)
		if total := sum(skill); out.Pick < 0 || total > best {
			out.Pick, best = len(out.Skills)-1, total
		}
	}
	return out, nil
}

func rollFaces(src random.Source, count, sides int, fixed []int) ([]int, error) {
	faces := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if i < len(fixed) {
			faces = append(faces, fixed[i])
			continue
		}
		face, err := rollFace(src, sides)
		if err != nil {
			return nil, err
		}
		faces = append(faces, face)
	}
	return faces, nil
}

func rollFace(src random.Source, sides int) (int, error) {
	if src == nil {
		return 0, apperrors.New(apperrors.CodeRandomSourceFailed, "random source is required")
	}
	n := src.Intn(sides)
	if n < 0 || n >= sides {
		return 0, apperrors.WithMetadata(apperrors.CodeRandomSourceFailed,
			fmt.Sprintf("random source returned %d for %d sides", n, sides),
			map[string]string{"sides": fmt.Sprint(sides)})
	}
	return n + 1, nil
}

func sum(faces []int) int {
	total := 0
	for _, face := range faces {
		total += face
	}
	return total
}
