package exam

import "math/rand"

// ShuffledAnswer is one answer as shown to the examinee, keeping its
// canonical position so the chosen value can be scored against Question.Correct.
type ShuffledAnswer struct {
	Text     string
	Original int // canonical position 1..4
}

// ShuffledQuestion is a drawn question with its answers in display order.
type ShuffledQuestion struct {
	Question
	Shuffled [4]ShuffledAnswer
}

// Order returns the permutation actually shown, suitable for persisting in
// an AnswerDetail.
func (q ShuffledQuestion) Order() Permutation {
	var p Permutation
	for i, a := range q.Shuffled {
		p[i] = a.Original
	}
	return p
}

// DrawResult is a freshly drawn question subset with the AnswerDetail
// skeleton to persist. The order of Questions is the official question order
// for the attempt; it is encoded only by the order of Details.
type DrawResult struct {
	Questions []ShuffledQuestion
	Details   []AnswerDetail
	Requested int
}

// Shortfall is how many questions fewer than configured were served. The
// observed product behavior is to proceed with a degraded count rather than
// refuse the attempt; callers should surface a warning when nonzero.
func (r *DrawResult) Shortfall() int { return r.Requested - len(r.Questions) }

// Draw selects and orders a randomized question subset for a new attempt:
// filter the pool by the exam's topics, shuffle uniformly, take the first
// QuestionCount, then independently shuffle each question's four answers.
// Only the per-question permutations need persisting; the subset order lives
// in the AnswerDetail list order.
func Draw(e Exam, pool []Question) (*DrawResult, error) {
	eligible := filterByTopics(pool, e.TopicIDs)
	if len(eligible) == 0 {
		return nil, ErrEmptyQuestionPool
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	requested := e.QuestionCount
	if requested <= 0 {
		requested = defaultQuestionCount
	}
	n := min(requested, len(eligible))
	selected := eligible[:n]

	res := &DrawResult{
		Questions: make([]ShuffledQuestion, 0, n),
		Details:   make([]AnswerDetail, 0, n),
		Requested: requested,
	}
	for _, q := range selected {
		sq := ShuffledQuestion{Question: q}
		order := [4]int{1, 2, 3, 4}
		rand.Shuffle(4, func(i, j int) { order[i], order[j] = order[j], order[i] })
		for i, pos := range order {
			sq.Shuffled[i] = ShuffledAnswer{Text: q.Answers[pos-1], Original: pos}
		}
		res.Questions = append(res.Questions, sq)
		res.Details = append(res.Details, AnswerDetail{QuestionID: q.ID, AnswerOrder: sq.Order()})
	}
	return res, nil
}

// defaultQuestionCount mirrors the fallback used when an exam definition has
// no question count configured.
const defaultQuestionCount = 10

// Restore rebuilds the exact question/answer order an examinee saw from a
// persisted attempt, independent of any reordering in the pool. A referenced
// question missing from the pool, or a corrupted permutation, is an
// IntegrityError: dropping the entry would desynchronize answer indices.
func Restore(a Attempt, pool []Question) ([]ShuffledQuestion, error) {
	byID := make(map[string]Question, len(pool))
	for _, q := range pool {
		byID[q.ID] = q
	}

	out := make([]ShuffledQuestion, 0, len(a.Answers))
	for _, d := range a.Answers {
		q, ok := byID[d.QuestionID]
		if !ok {
			return nil, &IntegrityError{AttemptID: a.ID, QuestionID: d.QuestionID, Reason: "question no longer in pool"}
		}
		if !d.AnswerOrder.Valid() {
			return nil, &IntegrityError{AttemptID: a.ID, QuestionID: d.QuestionID, Reason: "answer order is not a permutation"}
		}
		sq := ShuffledQuestion{Question: q}
		for i, pos := range d.AnswerOrder {
			sq.Shuffled[i] = ShuffledAnswer{Text: q.Answers[pos-1], Original: pos}
		}
		out = append(out, sq)
	}
	return out, nil
}

func filterByTopics(pool []Question, topicIDs []string) []Question {
	topics := make(map[string]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		topics[id] = struct{}{}
	}
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := topics[q.TopicID]; ok {
			out = append(out, q)
		}
	}
	return out
}
