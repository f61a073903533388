package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

// SQLStore persists courses with the pre/post question sets as JSON
// blob columns, one row per course.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, c Course) error {
	pre, err := json.Marshal(c.PreTest)
	if err != nil {
		return err
	}
	post, err := json.Marshal(c.PostTest)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO courses
		(id,title,description,video_url,duration,category,passing_score,is_active,pre_test_json,post_test_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, description=EXCLUDED.description,
		  video_url=EXCLUDED.video_url, duration=EXCLUDED.duration,
		  category=EXCLUDED.category, passing_score=EXCLUDED.passing_score,
		  is_active=EXCLUDED.is_active, pre_test_json=EXCLUDED.pre_test_json,
		  post_test_json=EXCLUDED.post_test_json`,
		c.ID, c.Title, c.Description, c.VideoURL, c.Duration, c.Category,
		c.PassingScore, c.IsActive, string(pre), string(post), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: put course: %v", fault.ErrUpstream, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Course, error) {
	c, err := s.GetAdmin(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c.PreTest = Sanitize(c.PreTest)
	c.PostTest = Sanitize(c.PostTest)
	return c, nil
}

func (s *SQLStore) GetAdmin(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,video_url,duration,category,
		passing_score,is_active,pre_test_json,post_test_json,created_at
		FROM courses WHERE id=$1`, id)
	var c Course
	var pre, post string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.VideoURL, &c.Duration,
		&c.Category, &c.PassingScore, &c.IsActive, &pre, &post, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, fmt.Errorf("%w: course %s", fault.ErrNotFound, id)
	}
	if err != nil {
		return Course{}, fmt.Errorf("%w: get course: %v", fault.ErrUpstream, err)
	}
	if err := json.Unmarshal([]byte(pre), &c.PreTest); err != nil {
		return Course{}, err
	}
	if err := json.Unmarshal([]byte(post), &c.PostTest); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) List(ctx context.Context, includeInactive bool) ([]Course, error) {
	q := `SELECT id,title,description,video_url,duration,category,passing_score,is_active,created_at
		FROM courses`
	if !includeInactive {
		q += ` WHERE is_active=TRUE`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list courses: %v", fault.ErrUpstream, err)
	}
	defer rows.Close()
	out := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.VideoURL, &c.Duration,
			&c.Category, &c.PassingScore, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete course: %v", fault.ErrUpstream, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: course %s", fault.ErrNotFound, id)
	}
	return nil
}
