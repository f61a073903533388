package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
	"github.com/heartwise-th/heartwise-lms/internal/grading"
)

// Tracker owns the per-course learner flow:
//
//	pre-test -> video -> post-test -> completed
//
// The stored flags are independent (a learner may watch the video before
// the pre-test); only the completion conjunction is ordered. Every
// operation writes through the Store before returning: there is no
// optimistic in-memory state.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker wires a tracker to its store. now may be nil (time.Now).
func NewTracker(store Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// RecordPreTest stores the learner's pre-test score. It never touches the
// completion flags.
func (t *Tracker) RecordPreTest(ctx context.Context, userID, courseID string, result grading.TestResult) (Record, error) {
	rec, err := t.load(ctx, userID, courseID)
	if err != nil {
		return Record{}, err
	}
	rec.PreTestCompleted = true
	rec.PreTestScore = result.Score
	return t.store.Upsert(ctx, rec)
}

// RecordVideoWatched accepts the player's watch-completion signal at face
// value; verifying genuine viewing is the player's problem.
func (t *Tracker) RecordVideoWatched(ctx context.Context, userID, courseID string) (Record, error) {
	rec, err := t.load(ctx, userID, courseID)
	if err != nil {
		return Record{}, err
	}
	rec.VideoWatched = true
	return t.store.Upsert(ctx, rec)
}

// RecordPostTest stores the post-test score and evaluates completion.
// completedNow reports whether this submission flipped Completed.
// A failing resubmission after completion rewrites only the score fields:
// Completed and CompletedAt are never reverted.
func (t *Tracker) RecordPostTest(ctx context.Context, userID, courseID string, result grading.TestResult) (rec Record, completedNow bool, err error) {
	rec, err = t.load(ctx, userID, courseID)
	if err != nil {
		return Record{}, false, err
	}
	rec.PostTestCompleted = true
	rec.PostTestScore = result.Score
	if !rec.Completed && rec.PreTestCompleted && rec.VideoWatched && result.Passed {
		rec.Completed = true
		at := t.now()
		rec.CompletedAt = &at
		completedNow = true
	}
	rec, err = t.store.Upsert(ctx, rec)
	if err != nil {
		return Record{}, false, err
	}
	return rec, completedNow, nil
}

// Get returns the learner's progress for one course.
func (t *Tracker) Get(ctx context.Context, userID, courseID string) (Record, error) {
	if err := guard(userID, courseID); err != nil {
		return Record{}, err
	}
	return t.store.Get(ctx, userID, courseID)
}

// List returns all of the learner's progress records.
func (t *Tracker) List(ctx context.Context, userID string) ([]Record, error) {
	if userID == "" {
		return nil, fault.ErrUnauthenticated
	}
	return t.store.List(ctx, userID)
}

// load fetches the current record or initializes a zero one on first
// interaction with the course.
func (t *Tracker) load(ctx context.Context, userID, courseID string) (Record, error) {
	if err := guard(userID, courseID); err != nil {
		return Record{}, err
	}
	rec, err := t.store.Get(ctx, userID, courseID)
	if errors.Is(err, fault.ErrNotFound) {
		return Record{UserID: userID, CourseID: courseID}, nil
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func guard(userID, courseID string) error {
	if userID == "" {
		return fault.ErrUnauthenticated
	}
	if courseID == "" {
		return fmt.Errorf("%w: course id required", fault.ErrInvalidInput)
	}
	return nil
}
