package exam

import "time"

// Status is an attempt's lifecycle state. Transitions are monotonic:
// NotStarted -> InProgress -> Passed|Failed.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusPassed     Status = "Passed"
	StatusFailed     Status = "Failed"
)

// Terminal reports whether no further transitions are accepted.
func (s Status) Terminal() bool { return s == StatusPassed || s == StatusFailed }

// ExamStatus is the administrative open/closed flag on an exam definition.
type ExamStatus string

const (
	ExamOpen   ExamStatus = "Open"
	ExamClosed ExamStatus = "Closed"
)

// FinalizeReason says why an attempt is being completed.
type FinalizeReason string

const (
	ReasonManualSubmit FinalizeReason = "ManualSubmit"
	ReasonTimeExpired  FinalizeReason = "TimeExpired"
)

// Exam is a configured exam definition (kỳ thi): which topics questions are
// drawn from, how many, how long, and who may take it.
type Exam struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	TopicIDs        []string   `json:"topicIds"`
	QuestionCount   int        `json:"questionCount"`
	DurationMinutes int        `json:"durationMinutes"`
	RoleIDs         []string   `json:"roleIds"`
	Status          ExamStatus `json:"status"`
}

// Duration is the attempt time limit.
func (e Exam) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// Question is a four-answer multiple-choice question (câu hỏi). Answers are
// stored in canonical order, positions 1..4; Correct is the canonical
// position of the right answer. Read-only to the engine.
type Question struct {
	ID      string    `json:"id"`
	TopicID string    `json:"topicId"`
	Prompt  string    `json:"prompt"`
	Answers [4]string `json:"answers"`
	Correct int       `json:"correct"` // 1..4
}

// Permutation maps shown answer position (index) to canonical position
// (value, 1..4). It is persisted so the exact answer order an examinee saw
// can be reconstructed later without replaying the RNG.
type Permutation [4]int

// Valid reports whether the permutation is a bijection on {1,2,3,4}.
func (p Permutation) Valid() bool {
	var seen [5]bool
	for _, v := range p {
		if v < 1 || v > 4 || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// AnswerDetail is the per-question record inside an attempt (chi tiết bài
// làm). Chosen holds the canonical position the examinee picked, nil until
// answered.
type AnswerDetail struct {
	QuestionID  string      `json:"questionId"`
	Chosen      *int        `json:"chosen"` // 1..4
	AnswerOrder Permutation `json:"answerOrder"`
}

// Evaluation is a reviewer's comment on a completed attempt. It is written
// by the review service, never by the session engine.
type Evaluation struct {
	ReviewerID string    `json:"reviewerId"`
	Comment    string    `json:"comment"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// Attempt is one examinee's instance of taking an exam (bài thi làm). The
// JSON field names are a persistence contract: the review feature
// reconstructs the shuffled answer order from answers[].answerOrder.
type Attempt struct {
	ID           string         `json:"id"`
	ExamID       string         `json:"examId"`
	ExamineeID   string         `json:"examineeId"`
	AttemptDate  string         `json:"attemptDate"` // YYYY-MM-DD
	StartTime    *time.Time     `json:"startTime"`
	EndTime      *time.Time     `json:"endTime"`
	CorrectCount int            `json:"correctCount"`
	TotalCount   int            `json:"totalCount"`
	Status       Status         `json:"status"`
	Answers      []AnswerDetail `json:"answers"`
	Evaluation   *Evaluation    `json:"evaluation"`
}

// FirstUnanswered returns the index of the first AnswerDetail with no chosen
// answer, or -1 when every question is answered.
func (a Attempt) FirstUnanswered() int {
	for i, d := range a.Answers {
		if d.Chosen == nil {
			return i
		}
	}
	return -1
}

// Actor is the authenticated employee on whose behalf the engine acts.
// Rank and the org placement fields feed the visibility predicate; RoleID
// (chức vụ) feeds exam eligibility.
type Actor struct {
	EmployeeID   string `json:"employeeId"`
	Role         string `json:"role"` // rbac role: admin|manager|employee
	RoleID       string `json:"roleId"`
	Rank         int    `json:"rank"` // 1 (top) .. 6
	DepartmentID string `json:"departmentId"`
	UnitID       string `json:"unitId"`
	TeamID       string `json:"teamId"`
}

// EligibleFor reports whether the actor's role is on the exam's eligible
// list. An empty list means the exam is open to everyone; admins bypass.
func (ac Actor) EligibleFor(e Exam) bool {
	if ac.Role == "admin" || len(e.RoleIDs) == 0 {
		return true
	}
	for _, id := range e.RoleIDs {
		if id == ac.RoleID {
			return true
		}
	}
	return false
}
