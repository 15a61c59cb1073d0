package dice

// ExplainStep is one deterministic step of a grading explanation.
type ExplainStep struct {
	Code    string
	Message string
	Data    map[string]any
}

// ExplainResult describes how a roll reached its grade.
type ExplainResult struct {
	System       string
	RulesVersion string
	Total        int
	Grade        Grade
	Steps        []ExplainStep
}

// Explain returns the steps that take roll from its faces to its grade
// under system. A nil system grades by plain comparison.
func Explain(roll DiceRoll, system *System) ExplainResult {
	var (
		rolled    []int
		kept      []int
		diceSum   int
		keptSum   int
		modifiers int
	)
	for i, part := range roll.Parts {
		if roll.IsExcluded(i) {
			continue
		}
		modifiers += part.Part.Modifier
		sign := int(part.Part.Sign)
		if part.Ladder != nil {
			rolled = append(rolled, part.Ladder.Tests...)
			value := part.Ladder.Value()
			kept = append(kept, value)
			diceSum += sign * (sum(part.Ladder.Tests) + part.Ladder.Skill())
			keptSum += sign * value
			continue
		}
		mask := part.Kept()
		for j, face := range part.Faces {
			rolled = append(rolled, face)
			diceSum += sign * face
			if mask[j] {
				kept = append(kept, face)
				keptSum += sign * face
			}
		}
	}
	total := roll.Total()

	var grade Grade
	if system == nil {
		grade = GradeComparisonRoll(roll)
	} else {
		grade = system.grade(roll)
	}

	targetData := map[string]any{"total": total, "has_target": false}
	if test := roll.Test(); test != nil {
		targetData["has_target"] = true
		targetData["target"] = test.Value
		targetData["comparison"] = test.Comparison.String()
		targetData["alias"] = test.Alias
		targetData["meets_target"] = test.Comparison.Holds(total, test.Value)
	}
	naturalData := map[string]any{"has_natural": false}
	if natural, ok := roll.Natural(); ok {
		naturalData = map[string]any{
			"has_natural": true,
			"face":        natural.Face,
			"sides":       natural.Sides,
			"is_max":      natural.IsMax(),
			"is_min":      natural.IsMin(),
		}
	}

	result := ExplainResult{
		Total: total,
		Grade: grade,
		Steps: []ExplainStep{
			{
				Code:    "SUM_DICE",
				Message: "Sum rolled dice",
				Data:    map[string]any{"faces": rolled, "dice_total": diceSum},
			},
			{
				Code:    "APPLY_DROP_KEEP",
				Message: "Drop or keep dice",
				Data:    map[string]any{"kept": kept, "kept_total": keptSum},
			},
			{
				Code:    "APPLY_MODIFIER",
				Message: "Apply modifiers to kept total",
				Data:    map[string]any{"kept_total": keptSum, "modifier": modifiers, "total": total},
			},
			{
				Code:    "CHECK_TARGET",
				Message: "Compare total to target",
				Data:    targetData,
			},
			{
				Code:    "CHECK_NATURAL",
				Message: "Check natural die result",
				Data:    naturalData,
			},
			{
				Code:    "SELECT_GRADE",
				Message: "Select grade",
				Data:    map[string]any{"grade_code": int(grade), "grade_label": grade.String()},
			},
		},
	}
	if system != nil {
		result.System = system.ID
		result.RulesVersion = system.Version
	}
	return result
}
