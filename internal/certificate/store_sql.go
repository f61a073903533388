package certificate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, c Certificate) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO certificates
		(id,user_id,course_id,course_name,student_name,completed_at,score,total_score,percentage,certificate_number,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.UserID, c.CourseID, c.CourseName, c.StudentName, c.CompletedAt.Unix(),
		c.Score, c.TotalScore, c.Percentage, c.CertificateNumber, time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", ErrExists, c.UserID, c.CourseID)
		}
		return fmt.Errorf("%w: insert certificate: %v", fault.ErrUpstream, err)
	}
	return nil
}

const certCols = `id,user_id,course_id,course_name,student_name,completed_at,score,total_score,percentage,certificate_number`

func (s *SQLStore) GetByCourse(ctx context.Context, userID, courseID string) (Certificate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+certCols+` FROM certificates WHERE user_id=$1 AND course_id=$2`,
		userID, courseID)
	c, err := scanCertificate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Certificate{}, fmt.Errorf("%w: certificate %s/%s", fault.ErrNotFound, userID, courseID)
	}
	if err != nil {
		return Certificate{}, fmt.Errorf("%w: get certificate: %v", fault.ErrUpstream, err)
	}
	return c, nil
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]Certificate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+certCols+` FROM certificates WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list certificates: %v", fault.ErrUpstream, err)
	}
	defer rows.Close()
	out := []Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(sc scanner) (Certificate, error) {
	var c Certificate
	var completedAt int64
	err := sc.Scan(&c.ID, &c.UserID, &c.CourseID, &c.CourseName, &c.StudentName,
		&completedAt, &c.Score, &c.TotalScore, &c.Percentage, &c.CertificateNumber)
	if err != nil {
		return Certificate{}, err
	}
	c.CompletedAt = time.Unix(completedAt, 0).UTC()
	return c, nil
}

// isUniqueViolation sniffs driver-specific constraint errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
