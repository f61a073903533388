package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const progressCols = `user_id,course_id,pre_test_completed,pre_test_score,video_watched,
	post_test_completed,post_test_score,completed,completed_at,certificate_generated`

func (s *SQLStore) Get(ctx context.Context, userID, courseID string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressCols+` FROM user_progress WHERE user_id=$1 AND course_id=$2`,
		userID, courseID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: progress %s/%s", fault.ErrNotFound, userID, courseID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: get progress: %v", fault.ErrUpstream, err)
	}
	return rec, nil
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+progressCols+` FROM user_progress WHERE user_id=$1 ORDER BY course_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list progress: %v", fault.ErrUpstream, err)
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Upsert(ctx context.Context, rec Record) (Record, error) {
	var completedAt sql.NullInt64
	if rec.CompletedAt != nil {
		completedAt.Valid = true
		completedAt.Int64 = rec.CompletedAt.Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_progress
		(user_id,course_id,pre_test_completed,pre_test_score,video_watched,
		 post_test_completed,post_test_score,completed,completed_at,certificate_generated,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (user_id,course_id) DO UPDATE SET
		  pre_test_completed=EXCLUDED.pre_test_completed,
		  pre_test_score=EXCLUDED.pre_test_score,
		  video_watched=EXCLUDED.video_watched,
		  post_test_completed=EXCLUDED.post_test_completed,
		  post_test_score=EXCLUDED.post_test_score,
		  completed=EXCLUDED.completed,
		  completed_at=EXCLUDED.completed_at,
		  certificate_generated=EXCLUDED.certificate_generated,
		  updated_at=EXCLUDED.updated_at`,
		rec.UserID, rec.CourseID, rec.PreTestCompleted, rec.PreTestScore, rec.VideoWatched,
		rec.PostTestCompleted, rec.PostTestScore, rec.Completed, completedAt,
		rec.CertificateGenerated, time.Now().Unix())
	if err != nil {
		return Record{}, fmt.Errorf("%w: upsert progress: %v", fault.ErrUpstream, err)
	}
	return s.Get(ctx, rec.UserID, rec.CourseID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var completedAt sql.NullInt64
	err := sc.Scan(&rec.UserID, &rec.CourseID, &rec.PreTestCompleted, &rec.PreTestScore,
		&rec.VideoWatched, &rec.PostTestCompleted, &rec.PostTestScore, &rec.Completed,
		&completedAt, &rec.CertificateGenerated)
	if err != nil {
		return Record{}, err
	}
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		rec.CompletedAt = &t
	}
	return rec, nil
}
