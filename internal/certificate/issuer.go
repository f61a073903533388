// Package certificate issues completion certificates: immutable records of
// a passed course, exactly one per (learner, course). Visual rendering is a
// downstream concern; a Certificate is plain data.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/fault"
	"github.com/heartwise-th/heartwise-lms/internal/progress"
)

type Certificate struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	CourseID          string    `json:"course_id"`
	CourseName        string    `json:"course_name"` // snapshot, not a live reference
	StudentName       string    `json:"student_name"`
	CompletedAt       time.Time `json:"completed_at"`
	Score             int       `json:"score"`
	TotalScore        int       `json:"total_score"` // post-test length at issuance
	Percentage        int       `json:"percentage"`
	CertificateNumber string    `json:"certificate_number"`
}

// ErrExists is returned by Store.Insert when the (userID, courseID)
// uniqueness constraint is violated.
var ErrExists = errors.New("certificate already exists")

type Store interface {
	// Insert fails with ErrExists on a duplicate (userID, courseID).
	Insert(ctx context.Context, c Certificate) error
	GetByCourse(ctx context.Context, userID, courseID string) (Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]Certificate, error)
}

// Issuer mints certificates for completed courses. Issue is idempotent:
// a second call returns the stored certificate unchanged.
type Issuer struct {
	certs    Store
	progress progress.Store
	courses  course.Store
	prefix   string
	now      func() time.Time
}

// NewIssuer wires the issuer. now may be nil (time.Now).
func NewIssuer(certs Store, prog progress.Store, courses course.Store, prefix string, now func() time.Time) *Issuer {
	if prefix == "" {
		prefix = "CPR"
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{certs: certs, progress: prog, courses: courses, prefix: prefix, now: now}
}

// Issue returns the learner's certificate for courseID, minting it on first
// call. Score, total and percentage are snapshots taken at issuance; later
// course edits do not alter issued certificates.
func (i *Issuer) Issue(ctx context.Context, userID, courseID, studentName string) (Certificate, error) {
	if userID == "" {
		return Certificate{}, fault.ErrUnauthenticated
	}

	prog, err := i.progress.Get(ctx, userID, courseID)
	if errors.Is(err, fault.ErrNotFound) {
		return Certificate{}, fmt.Errorf("%w: course %s not completed", fault.ErrNotEligible, courseID)
	}
	if err != nil {
		return Certificate{}, err
	}
	if !prog.Completed {
		return Certificate{}, fmt.Errorf("%w: course %s not completed", fault.ErrNotEligible, courseID)
	}

	name := strings.TrimSpace(studentName)
	if name == "" {
		return Certificate{}, fmt.Errorf("%w: student name required", fault.ErrInvalidInput)
	}

	existing, err := i.certs.GetByCourse(ctx, userID, courseID)
	switch {
	case err == nil:
		return i.ensureFlag(ctx, prog, existing)
	case !errors.Is(err, fault.ErrNotFound):
		return Certificate{}, err
	}

	c, err := i.courses.GetAdmin(ctx, courseID)
	if err != nil {
		return Certificate{}, err
	}

	total := len(c.PostTest)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(prog.PostTestScore) / float64(total) * 100))
	}
	completedAt := i.now()
	if prog.CompletedAt != nil {
		completedAt = *prog.CompletedAt
	}

	cert := Certificate{
		ID:                uuid.NewString(),
		UserID:            userID,
		CourseID:          courseID,
		CourseName:        c.Title,
		StudentName:       name,
		CompletedAt:       completedAt,
		Score:             prog.PostTestScore,
		TotalScore:        total,
		Percentage:        pct,
		CertificateNumber: NewNumber(i.prefix, i.now()),
	}

	if err := i.certs.Insert(ctx, cert); err != nil {
		if errors.Is(err, ErrExists) {
			// Lost a race; the stored certificate wins.
			stored, gerr := i.certs.GetByCourse(ctx, userID, courseID)
			if gerr != nil {
				return Certificate{}, gerr
			}
			return i.ensureFlag(ctx, prog, stored)
		}
		return Certificate{}, err
	}
	_, err = i.ensureFlag(ctx, prog, cert)
	return cert, err
}

// List returns the learner's issued certificates.
func (i *Issuer) List(ctx context.Context, userID string) ([]Certificate, error) {
	if userID == "" {
		return nil, fault.ErrUnauthenticated
	}
	return i.certs.ListByUser(ctx, userID)
}

// ensureFlag marks certificateGenerated on the progress record, so a
// failed flag write on a previous call heals on the next one.
func (i *Issuer) ensureFlag(ctx context.Context, prog progress.Record, cert Certificate) (Certificate, error) {
	if prog.CertificateGenerated {
		return cert, nil
	}
	prog.CertificateGenerated = true
	if _, err := i.progress.Upsert(ctx, prog); err != nil {
		return Certificate{}, err
	}
	return cert, nil
}
