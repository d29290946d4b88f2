package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted over an attempt's lifecycle.
const (
	TypeAttemptCreated   = "AttemptCreated"
	TypeAttemptStarted   = "AttemptStarted"
	TypeAttemptFinalized = "AttemptFinalized"
	TypeAttemptReviewed  = "AttemptReviewed"
)

type Event struct {
	Offset    int64
	EventID   string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Recorder appends attempt lifecycle events. Implementations must be safe
// for concurrent use.
type Recorder interface {
	Append(ctx context.Context, typ, key string, data any) error
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (event_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), typ, key, string(buf), time.Now().Unix())
	return err
}

// Nop discards events; used when no database is attached.
type Nop struct{}

func (Nop) Append(context.Context, string, string, any) error { return nil }
