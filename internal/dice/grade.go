package dice

// Grade is the degree of success of a graded roll.
type Grade int

const (
	GradeUnknown Grade = iota
	GradeCriticalFailure
	GradeFailure
	GradeSuccess
	GradeCriticalSuccess
)

// Key returns the catalog key suffix for the grade.
func (g Grade) Key() string {
	switch g {
	case GradeCriticalFailure:
		return "critical_failure"
	case GradeFailure:
		return "failure"
	case GradeSuccess:
		return "success"
	case GradeCriticalSuccess:
		return "critical_success"
	default:
		return "unknown"
	}
}

func (g Grade) String() string { return g.Key() }

// IsSuccess reports success or critical success.
func (g Grade) IsSuccess() bool {
	return g == GradeSuccess || g == GradeCriticalSuccess
}

// Up raises the grade one degree, bounded at critical success.
func (g Grade) Up() Grade {
	if g == GradeUnknown || g == GradeCriticalSuccess {
		return g
	}
	return g + 1
}

// Down lowers the grade one degree, bounded at critical failure.
func (g Grade) Down() Grade {
	if g == GradeUnknown || g == GradeCriticalFailure {
		return g
	}
	return g - 1
}

// DegreeMargin is the distance from the target that makes a result critical.
const DegreeMargin = 10

// GradeDegrees grades total against target by degrees of success: at least
// target+10 is a critical success, at least target a success, at most
// target-10 a critical failure, otherwise a failure. A natural maximum then
// raises the result one degree and a natural 1 lowers it. A zero Natural
// applies no adjustment.
func GradeDegrees(total, target int, natural Natural) Grade {
	var grade Grade
	switch {
	case total >= target+DegreeMargin:
		grade = GradeCriticalSuccess
	case total >= target:
		grade = GradeSuccess
	case total <= target-DegreeMargin:
		grade = GradeCriticalFailure
	default:
		grade = GradeFailure
	}
	switch {
	case natural.IsMax():
		grade = grade.Up()
	case natural.IsMin():
		grade = grade.Down()
	}
	return grade
}

// GradeComparison grades a plain pass/fail test.
func GradeComparison(total int, test Test) Grade {
	if test.Comparison.Holds(total, test.Value) {
		return GradeSuccess
	}
	return GradeFailure
}

// GradeComparisonRoll is the default grading: pass/fail against the roll's
// test, unknown without one.
func GradeComparisonRoll(roll DiceRoll) Grade {
	test := roll.Test()
	if test == nil {
		return GradeUnknown
	}
	return GradeComparison(roll.Total(), *test)
}
