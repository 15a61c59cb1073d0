package dice

import "testing"

func TestExplainSteps(t *testing.T) {
	system := plainSystem()
	roll := mustEvaluate(t, mustEngine(t, system, 3, 3, 5, 6), "4d6dl1+1 >= 12")
	result := Explain(roll.Rolls[0], system)

	wantCodes := []string{"SUM_DICE", "APPLY_DROP_KEEP", "APPLY_MODIFIER", "CHECK_TARGET", "CHECK_NATURAL", "SELECT_GRADE"}
	if len(result.Steps) != len(wantCodes) {
		t.Fatalf("steps = %d, want %d", len(result.Steps), len(wantCodes))
	}
	for i, code := range wantCodes {
		if result.Steps[i].Code != code {
			t.Fatalf("step %d = %s, want %s", i, result.Steps[i].Code, code)
		}
	}
	if result.Total != 15 || result.Grade != GradeSuccess {
		t.Fatalf("result = %d %v, want 15 success", result.Total, result.Grade)
	}
	if got := result.Steps[0].Data["dice_total"]; got != 17 {
		t.Fatalf("dice_total = %v, want 17", got)
	}
	if got := result.Steps[1].Data["kept_total"]; got != 14 {
		t.Fatalf("kept_total = %v, want 14", got)
	}
	if got := result.Steps[3].Data["meets_target"]; got != true {
		t.Fatalf("meets_target = %v, want true", got)
	}
	if result.System != "plain" || result.RulesVersion != "1.0.0" {
		t.Fatalf("system = %s %s, want plain 1.0.0", result.System, result.RulesVersion)
	}
}

func TestExplainNatural(t *testing.T) {
	system := testSystem()
	roll := mustEvaluate(t, mustEngine(t, system, 20), "1d20+2 vs AC 25")
	result := Explain(roll.Rolls[0], system)
	natural := result.Steps[4].Data
	if natural["has_natural"] != true || natural["is_max"] != true {
		t.Fatalf("natural = %v, want natural max", natural)
	}
	if result.Grade != GradeSuccess {
		t.Fatalf("grade = %v, want success", result.Grade)
	}
}
