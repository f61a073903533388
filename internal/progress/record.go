package progress

import (
	"context"
	"time"
)

// Record is the durable per-learner-per-course state. The four step flags
// are independent in the stored model; Completed is derived once, at the
// post-test submission that satisfies the completion conjunction, and is
// never unset afterwards.
type Record struct {
	UserID               string     `json:"user_id"`
	CourseID             string     `json:"course_id"`
	PreTestCompleted     bool       `json:"pre_test_completed"`
	PreTestScore         int        `json:"pre_test_score"`
	VideoWatched         bool       `json:"video_watched"`
	PostTestCompleted    bool       `json:"post_test_completed"`
	PostTestScore        int        `json:"post_test_score"`
	Completed            bool       `json:"completed"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CertificateGenerated bool       `json:"certificate_generated"`
}

// Store is the persistence-service boundary for progress records,
// keyed by (userID, courseID).
type Store interface {
	// Get returns fault.ErrNotFound when the learner has not touched the
	// course yet.
	Get(ctx context.Context, userID, courseID string) (Record, error)
	List(ctx context.Context, userID string) ([]Record, error)
	// Upsert inserts or updates by (userID, courseID) with no duplicate-key
	// failure, and returns the stored record.
	Upsert(ctx context.Context, rec Record) (Record, error)
}
