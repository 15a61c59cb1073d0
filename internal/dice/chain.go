package dice

// Visibility controls how much of a line is disclosed.
type Visibility int

const (
	VisibilityShown Visibility = iota
	// VisibilityRedacted hides the total and constituent values; only the
	// grade marker is disclosed.
	VisibilityRedacted
	// VisibilitySuppressed hides the line entirely.
	VisibilitySuppressed
)

// Line is the presentation outcome of one rolled Dice after special-test
// gates are applied.
type Line struct {
	Index      int
	Grade      Grade
	Visibility Visibility
}

// Lines resolves every roll's effective grade and visibility.
//
// Special-condition tests that precede an attack gate it. A failed
// suppressing gate hides the attack and its damage. A redacting gate always
// hides its own values; when it fails, or the attack behind it fails, the
// attack total is hidden and shown as a failure. Suppression takes
// precedence over redaction.
func (g DiceGroupRoll) Lines() []Line {
	lines := make([]Line, len(g.Rolls))
	for i := range g.Rolls {
		lines[i] = Line{Index: i, Grade: g.Grade(i)}
	}

	var gates []int
	for i, roll := range g.Rolls {
		test := roll.Test()
		if test != nil && test.Gate != GateNone {
			if test.Gate == GateRedact {
				lines[i].Visibility = VisibilityRedacted
			}
			gates = append(gates, i)
			continue
		}
		if len(gates) == 0 {
			continue
		}
		if !roll.Dice.IsAttack() {
			gates = nil
			continue
		}

		suppress, redact, redactFailed := false, false, false
		for _, gate := range gates {
			failed := !lines[gate].Grade.IsSuccess()
			switch g.Rolls[gate].Test().Gate {
			case GateRedact:
				redact = true
				redactFailed = redactFailed || failed
			case GateSuppress:
				suppress = suppress || failed
			}
		}
		gates = nil

		var hidden Visibility
		switch {
		case suppress:
			hidden = VisibilitySuppressed
		case redact && (redactFailed || !lines[i].Grade.IsSuccess()):
			hidden = VisibilityRedacted
			lines[i].Grade = GradeFailure
		default:
			continue
		}
		lines[i].Visibility = hidden
		if i+1 < len(g.Rolls) && g.Rolls[i+1].Dice.IsDamage() {
			lines[i+1].Visibility = VisibilitySuppressed
		}
	}

	for i := range lines {
		if test := g.Rolls[i].Test(); test != nil && test.Gate == GateRedact {
			lines[i].Grade = GradeUnknown
		}
	}
	return lines
}

// EffectiveGrade is the grade of roll i after gates are applied.
func (g DiceGroupRoll) EffectiveGrade(i int) Grade {
	lines := g.Lines()
	if i < 0 || i >= len(lines) {
		return GradeUnknown
	}
	return lines[i].Grade
}
