// Package audit appends learner activity to a durable event log:
// test submissions, course completions and certificate issuance.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventTestSubmitted     = "test.submitted"
	EventCourseCompleted   = "course.completed"
	EventCertificateIssued = "certificate.issued"
)

type Event struct {
	Seq       int64
	Type      string
	Key       string // natural key: userID|courseID
	DataJSON  string
	CreatedAt int64
}

type EventLog struct{ db *sql.DB }

func NewEventLog(db *sql.DB) *EventLog { return &EventLog{db: db} }

// Append records one event. Payloads are stored as JSON.
func (l *EventLog) Append(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}
