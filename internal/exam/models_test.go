package exam

import (
	"encoding/json"
	"testing"
	"time"
)

// The attempt JSON shape is a persistence contract shared with the reviewer
// UI; renaming a key silently orphans stored records.
func TestAttemptJSONContract(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Minute)
	three := 3
	a := Attempt{
		ID:           "a1",
		ExamID:       "e1",
		ExamineeID:   "emp-1",
		AttemptDate:  "2025-03-10",
		StartTime:    &start,
		EndTime:      &end,
		CorrectCount: 1,
		TotalCount:   1,
		Status:       StatusPassed,
		Answers: []AnswerDetail{
			{QuestionID: "q1", Chosen: &three, AnswerOrder: Permutation{3, 1, 4, 2}},
		},
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, key := range []string{
		"id", "examId", "examineeId", "attemptDate", "startTime", "endTime",
		"correctCount", "totalCount", "status", "answers", "evaluation",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, raw)
		}
	}
	if got := string(m["status"]); got != `"Passed"` {
		t.Fatalf("status serialized as %s", got)
	}

	var answers []map[string]json.RawMessage
	if err := json.Unmarshal(m["answers"], &answers); err != nil {
		t.Fatalf("answers: %v", err)
	}
	for _, key := range []string{"questionId", "chosen", "answerOrder"} {
		if _, ok := answers[0][key]; !ok {
			t.Errorf("missing answer key %q in %s", key, m["answers"])
		}
	}
	if got := string(answers[0]["answerOrder"]); got != `[3,1,4,2]` {
		t.Fatalf("answerOrder serialized as %s", got)
	}

	var back Attempt
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Answers[0].Chosen == nil || *back.Answers[0].Chosen != 3 {
		t.Fatalf("chosen lost in round trip: %+v", back.Answers[0])
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusNotStarted.Terminal() || StatusInProgress.Terminal() {
		t.Fatal("live status reported terminal")
	}
	if !StatusPassed.Terminal() || !StatusFailed.Terminal() {
		t.Fatal("finished status not terminal")
	}
}
