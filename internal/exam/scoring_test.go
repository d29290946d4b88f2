package exam

import "testing"

func TestVerdictManualSubmit(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    Status
	}{
		{"all correct", 20, 20, StatusPassed},
		{"exactly at threshold", 17, 20, StatusPassed}, // 85.00%
		{"just below threshold", 84, 100, StatusFailed},
		{"just above threshold", 85, 100, StatusPassed},
		{"far below", 1, 10, StatusFailed},
		{"zero correct", 0, 10, StatusFailed},
		{"below threshold after rounding", 84999, 100000, StatusFailed}, // 84.999%
		{"two of two", 2, 2, StatusPassed},
		{"no questions", 0, 0, StatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Verdict(tc.correct, tc.total, ReasonManualSubmit); got != tc.want {
				t.Fatalf("Verdict(%d, %d, manual) = %s, want %s", tc.correct, tc.total, got, tc.want)
			}
		})
	}
}

func TestVerdictTimeExpiredAlwaysFails(t *testing.T) {
	tests := []struct {
		correct int
		total   int
	}{
		{20, 20}, // perfect score still fails when time ran out
		{17, 20},
		{0, 20},
		{0, 0},
	}
	for _, tc := range tests {
		if got := Verdict(tc.correct, tc.total, ReasonTimeExpired); got != StatusFailed {
			t.Fatalf("Verdict(%d, %d, expired) = %s, want Failed", tc.correct, tc.total, got)
		}
	}
}

func TestVerdictMonotonicity(t *testing.T) {
	const total = 20
	prevPassed := false
	for correct := 0; correct <= total; correct++ {
		passed := Verdict(correct, total, ReasonManualSubmit) == StatusPassed
		if prevPassed && !passed {
			t.Fatalf("verdict regressed at correct=%d", correct)
		}
		prevPassed = passed
	}
	if !prevPassed {
		t.Fatal("full score did not pass")
	}
}

func TestCorrectCount(t *testing.T) {
	qs := []ShuffledQuestion{
		{Question: Question{ID: "q1", Correct: 2}},
		{Question: Question{ID: "q2", Correct: 4}},
		{Question: Question{ID: "q3", Correct: 1}},
	}
	two, four, one := 2, 4, 1
	details := []AnswerDetail{
		{QuestionID: "q1", Chosen: &two},  // correct
		{QuestionID: "q2", Chosen: &one},  // wrong
		{QuestionID: "q3", Chosen: &four}, // wrong
	}
	if got := CorrectCount(qs, details); got != 1 {
		t.Fatalf("CorrectCount = %d, want 1", got)
	}

	details[1].Chosen = &four
	details[2].Chosen = &one
	if got := CorrectCount(qs, details); got != 3 {
		t.Fatalf("CorrectCount = %d, want 3", got)
	}
}

func TestCorrectCountNilChosen(t *testing.T) {
	qs := []ShuffledQuestion{{Question: Question{ID: "q1", Correct: 1}}}
	details := []AnswerDetail{{QuestionID: "q1"}}
	if got := CorrectCount(qs, details); got != 0 {
		t.Fatalf("CorrectCount with nil chosen = %d, want 0", got)
	}
}
