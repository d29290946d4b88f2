package exam

import "testing"

func TestFilterAttemptsOwnAlwaysVisible(t *testing.T) {
	actor := Actor{EmployeeID: "emp-1"}
	list := []Attempt{
		{ID: "a1", ExamineeID: "emp-1"},
		{ID: "a2", ExamineeID: "emp-2"},
	}

	got := FilterAttempts(list, actor, nil)
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("nil predicate kept %v, want only own attempt", got)
	}
}

func TestFilterAttemptsDelegates(t *testing.T) {
	actor := Actor{EmployeeID: "mgr-1", Rank: 3}
	list := []Attempt{
		{ID: "a1", ExamineeID: "emp-1"},
		{ID: "a2", ExamineeID: "emp-2"},
		{ID: "a3", ExamineeID: "mgr-1"},
	}
	sameUnit := func(a Attempt, _ Actor) bool { return a.ExamineeID == "emp-2" }

	got := FilterAttempts(list, actor, sameUnit)
	if len(got) != 2 {
		t.Fatalf("kept %d attempts, want 2", len(got))
	}
	if got[0].ID != "a2" || got[1].ID != "a3" {
		t.Fatalf("kept %v, want a2 and a3", got)
	}
}

func TestFilterAttemptsEmpty(t *testing.T) {
	got := FilterAttempts(nil, Actor{EmployeeID: "emp-1"}, nil)
	if len(got) != 0 {
		t.Fatalf("kept %v from empty input", got)
	}
}
