package exam

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory AttemptStore + ExamStore + QuestionPool for
// offline mode and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	exams    map[string]Exam
	attempts map[string]Attempt
	pool     []Question
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		exams:    map[string]Exam{},
		attempts: map[string]Attempt{},
	}
}

func (m *MemoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.exams[e.ID] = e
	return nil
}

func (m *MemoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) ListExams(_ context.Context) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *MemoryStore) AddQuestions(qs ...Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		m.pool = append(m.pool, q)
	}
}

func (m *MemoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for i := range m.pool {
		if m.pool[i].ID == q.ID {
			m.pool[i] = q
			return nil
		}
	}
	m.pool = append(m.pool, q)
	return nil
}

func (m *MemoryStore) ByTopics(_ context.Context, topicIDs []string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics := make(map[string]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		topics[id] = struct{}{}
	}
	out := make([]Question, 0, len(m.pool))
	for _, q := range m.pool {
		if _, ok := topics[q.TopicID]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[a.ExamID]; !ok {
		return Attempt{}, ErrNotFound
	}
	a.ID = uuid.NewString()
	m.attempts[a.ID] = cloneAttempt(a)
	return a, nil
}

func (m *MemoryStore) Update(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.ID]; !ok {
		return Attempt{}, ErrNotFound
	}
	m.attempts[a.ID] = cloneAttempt(a)
	return a, nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return cloneAttempt(a), nil
}

func (m *MemoryStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Attempt, 0, len(m.attempts))
	for _, a := range m.attempts {
		if opts.ExamID != "" && a.ExamID != opts.ExamID {
			continue
		}
		if opts.ExamineeID != "" && a.ExamineeID != opts.ExamineeID {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		out = append(out, cloneAttempt(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptDate > out[j].AttemptDate })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Attempt{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func cloneAttempt(a Attempt) Attempt {
	out := a
	out.Answers = make([]AnswerDetail, len(a.Answers))
	copy(out.Answers, a.Answers)
	if a.Evaluation != nil {
		ev := *a.Evaluation
		out.Evaluation = &ev
	}
	return out
}
