package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore backs ExamStore, QuestionPool and AttemptStore with a relational
// database. Question subsets and permutations live in answers_json so the
// shuffled order is reconstructible from the row alone.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	topics, err := json.Marshal(e.TopicIDs)
	if err != nil {
		return err
	}
	roles, err := json.Marshal(e.RoleIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,title,topic_ids_json,question_count,duration_min,role_ids_json,status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, topic_ids_json=EXCLUDED.topic_ids_json,
			question_count=EXCLUDED.question_count, duration_min=EXCLUDED.duration_min,
			role_ids_json=EXCLUDED.role_ids_json, status=EXCLUDED.status`,
		e.ID, e.Title, string(topics), e.QuestionCount, e.DurationMinutes, string(roles), string(e.Status))
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,topic_ids_json,question_count,duration_min,role_ids_json,status FROM exams WHERE id=$1`, id)
	return scanExam(row)
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,topic_ids_json,question_count,duration_min,role_ids_json,status FROM exams ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanExam(row rowScanner) (Exam, error) {
	var e Exam
	var topics, roles, status string
	if err := row.Scan(&e.ID, &e.Title, &topics, &e.QuestionCount, &e.DurationMinutes, &roles, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	e.Status = ExamStatus(status)
	if err := json.Unmarshal([]byte(topics), &e.TopicIDs); err != nil {
		return Exam{}, fmt.Errorf("exam %s topic list: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(roles), &e.RoleIDs); err != nil {
		return Exam{}, fmt.Errorf("exam %s role list: %w", e.ID, err)
	}
	return e, nil
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,topic_id,prompt,answers_json,correct_pos)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET topic_id=EXCLUDED.topic_id, prompt=EXCLUDED.prompt,
			answers_json=EXCLUDED.answers_json, correct_pos=EXCLUDED.correct_pos`,
		q.ID, q.TopicID, q.Prompt, string(answers), q.Correct)
	return err
}

func (s *SQLStore) ByTopics(ctx context.Context, topicIDs []string) ([]Question, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	// Build a placeholder list; the pgx stdlib driver and modernc sqlite
	// both accept $n placeholders.
	query := `SELECT id,topic_id,prompt,answers_json,correct_pos FROM questions WHERE topic_id IN (`
	args := make([]any, len(topicIDs))
	for i, id := range topicIDs {
		if i > 0 {
			query += ","
		}
		query += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query += `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		var answers string
		if err := rows.Scan(&q.ID, &q.TopicID, &q.Prompt, &answers, &q.Correct); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
			return nil, fmt.Errorf("question %s answers: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) Create(ctx context.Context, a Attempt) (Attempt, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, a.ExamID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	a.ID = uuid.NewString()
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return Attempt{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,exam_id,examinee_id,attempt_date,start_time,end_time,correct_count,total_count,status,answers_json,evaluation_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NULL)`,
		a.ID, a.ExamID, a.ExamineeID, a.AttemptDate, unixOrNil(a.StartTime), unixOrNil(a.EndTime),
		a.CorrectCount, a.TotalCount, string(a.Status), string(answers))
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) Update(ctx context.Context, a Attempt) (Attempt, error) {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return Attempt{}, err
	}
	var eval any
	if a.Evaluation != nil {
		buf, err := json.Marshal(a.Evaluation)
		if err != nil {
			return Attempt{}, err
		}
		eval = string(buf)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts SET
		start_time=$1, end_time=$2, correct_count=$3, total_count=$4, status=$5, answers_json=$6, evaluation_json=$7
		WHERE id=$8`,
		unixOrNil(a.StartTime), unixOrNil(a.EndTime), a.CorrectCount, a.TotalCount,
		string(a.Status), string(answers), eval, a.ID)
	if err != nil {
		return Attempt{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,exam_id,examinee_id,attempt_date,start_time,end_time,correct_count,total_count,status,answers_json,evaluation_json
		FROM attempts WHERE id=$1`, id)
	return scanAttempt(row)
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	query := `SELECT id,exam_id,examinee_id,attempt_date,start_time,end_time,correct_count,total_count,status,answers_json,evaluation_json
		FROM attempts WHERE 1=1`
	args := []any{}
	n := 0
	add := func(cond string, v any) {
		n++
		query += fmt.Sprintf(" AND %s=$%d", cond, n)
		args = append(args, v)
	}
	if opts.ExamID != "" {
		add("exam_id", opts.ExamID)
	}
	if opts.ExamineeID != "" {
		add("examinee_id", opts.ExamineeID)
	}
	if opts.Status != "" {
		add("status", string(opts.Status))
	}
	switch opts.Sort {
	case "startTime":
		query += " ORDER BY start_time DESC"
	default:
		query += " ORDER BY attempt_date DESC, id"
	}
	if opts.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var start, end sql.NullInt64
	var status, answers string
	var eval sql.NullString
	if err := row.Scan(&a.ID, &a.ExamID, &a.ExamineeID, &a.AttemptDate, &start, &end,
		&a.CorrectCount, &a.TotalCount, &status, &answers, &eval); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	a.Status = Status(status)
	a.StartTime = timeFromUnix(start)
	a.EndTime = timeFromUnix(end)
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return Attempt{}, fmt.Errorf("attempt %s answers: %w", a.ID, err)
	}
	if eval.Valid && eval.String != "" {
		var ev Evaluation
		if err := json.Unmarshal([]byte(eval.String), &ev); err != nil {
			return Attempt{}, fmt.Errorf("attempt %s evaluation: %w", a.ID, err)
		}
		a.Evaluation = &ev
	}
	return a, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeFromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
