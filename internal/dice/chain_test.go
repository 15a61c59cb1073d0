package dice

import "testing"

func TestLinesGates(t *testing.T) {
	tcs := []struct {
		name  string
		text  string
		faces []int
		want  []Line
	}{
		{
			name:  "failed undetected redacts attack",
			text:  "1d20 vs undetected; 1d20+8 vs AC 18; 1d6+4",
			faces: []int{5, 15, 3},
			want: []Line{
				{Index: 0, Grade: GradeUnknown, Visibility: VisibilityRedacted},
				{Index: 1, Grade: GradeFailure, Visibility: VisibilityRedacted},
				{Index: 2, Grade: GradeUnknown, Visibility: VisibilitySuppressed},
			},
		},
		{
			name:  "failed attack behind undetected is redacted",
			text:  "1d20 vs undetected; 1d20+8 vs AC 18; 1d6+4",
			faces: []int{15, 2, 3},
			want: []Line{
				{Index: 0, Grade: GradeUnknown, Visibility: VisibilityRedacted},
				{Index: 1, Grade: GradeFailure, Visibility: VisibilityRedacted},
				{Index: 2, Grade: GradeUnknown, Visibility: VisibilitySuppressed},
			},
		},
		{
			name:  "passed undetected shows hit",
			text:  "1d20 vs undetected; 1d20+8 vs AC 18; 1d6+4",
			faces: []int{15, 12, 3},
			want: []Line{
				{Index: 0, Grade: GradeUnknown, Visibility: VisibilityRedacted},
				{Index: 1, Grade: GradeSuccess, Visibility: VisibilityShown},
				{Index: 2, Grade: GradeUnknown, Visibility: VisibilityShown},
			},
		},
		{
			name:  "failed hidden suppresses attack and damage",
			text:  "1d20 vs hidden; 1d20+8 vs AC 18; 1d6+4",
			faces: []int{5, 15, 3},
			want: []Line{
				{Index: 0, Grade: GradeFailure, Visibility: VisibilityShown},
				{Index: 1, Grade: GradeSuccess, Visibility: VisibilitySuppressed},
				{Index: 2, Grade: GradeUnknown, Visibility: VisibilitySuppressed},
			},
		},
		{
			name:  "suppression wins over redaction",
			text:  "1d20 vs hidden; 1d20 vs undetected; 1d20+8 vs AC 18",
			faces: []int{5, 3, 15},
			want: []Line{
				{Index: 0, Grade: GradeFailure, Visibility: VisibilityShown},
				{Index: 1, Grade: GradeUnknown, Visibility: VisibilityRedacted},
				{Index: 2, Grade: GradeSuccess, Visibility: VisibilitySuppressed},
			},
		},
		{
			name:  "non-attack clears gates",
			text:  "1d20 vs hidden; 2d6; 1d20+8 vs AC 18",
			faces: []int{5, 3, 3, 15},
			want: []Line{
				{Index: 0, Grade: GradeFailure, Visibility: VisibilityShown},
				{Index: 1, Grade: GradeUnknown, Visibility: VisibilityShown},
				{Index: 2, Grade: GradeSuccess, Visibility: VisibilityShown},
			},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			roll := mustEvaluate(t, mustEngine(t, testSystem(), tc.faces...), tc.text)
			got := roll.Lines()
			if len(got) != len(tc.want) {
				t.Fatalf("lines = %+v, want %+v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("line %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestGateBlocksCriticalDamage(t *testing.T) {
	roll := mustEvaluate(t, mustEngine(t, testSystem(), 5, 20, 3), "1d20 vs hidden; 1d20+8 vs AC 18; 1d6+4")
	if got := len(roll.Rolls[2].Parts); got != 1 {
		t.Fatalf("damage parts = %d, want 1", got)
	}
	if got := roll.EffectiveGrade(1); got != GradeCriticalSuccess {
		t.Fatalf("effective grade = %v, want critical success", got)
	}
}
