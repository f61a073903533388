package course

import "context"

// Store is the content-store boundary. Courses are immutable from the
// learner flow's perspective; only admin surfaces write through Put/Delete.
type Store interface {
	Put(ctx context.Context, c Course) error
	// Get is student-safe: answer keys and explanations are stripped.
	Get(ctx context.Context, id string) (Course, error)
	// GetAdmin returns the full course including answer keys.
	GetAdmin(ctx context.Context, id string) (Course, error)
	// List returns course summaries without question bodies.
	// includeInactive is an admin-only view.
	List(ctx context.Context, includeInactive bool) ([]Course, error)
	Delete(ctx context.Context, id string) error
}
