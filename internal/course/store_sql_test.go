package course_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/db"
	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

func openStore(t *testing.T) *course.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return course.NewSQLStore(h)
}

func sampleCourse(id string, active bool) course.Course {
	return course.Course{
		ID:           id,
		Title:        "CPR Basics",
		Description:  "Hands-only CPR",
		VideoURL:     "https://example.com/v.mp4",
		PassingScore: 70,
		IsActive:     active,
		PreTest: []course.Question{
			{ID: "p1", Prompt: "First step?", Options: []string{"Call", "Run"}, CorrectAnswer: 0, Explanation: "Call for help first."},
		},
		PostTest: []course.Question{
			{ID: "q1", Prompt: "Rate?", Options: []string{"60", "110"}, CorrectAnswer: 1},
			{ID: "q2", Prompt: "Depth?", Options: []string{"2cm", "5cm"}, CorrectAnswer: 1},
		},
	}
}

func TestSQLStore_PutGetAdminRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, sampleCourse("c1", true)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := st.GetAdmin(ctx, "c1")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if got.Title != "CPR Basics" || got.PassingScore != 70 {
		t.Fatalf("unexpected course: %+v", got)
	}
	if len(got.PreTest) != 1 || len(got.PostTest) != 2 {
		t.Fatalf("question sets lost: pre=%d post=%d", len(got.PreTest), len(got.PostTest))
	}
	if got.PreTest[0].CorrectAnswer != 0 || got.PreTest[0].Explanation == "" {
		t.Fatalf("admin view must keep answer keys: %+v", got.PreTest[0])
	}
}

func TestSQLStore_GetStripsAnswerKeys(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, sampleCourse("c1", true)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := st.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, q := range append(got.PreTest, got.PostTest...) {
		if q.CorrectAnswer != -1 || q.Explanation != "" {
			t.Fatalf("answer key leaked to learner view: %+v", q)
		}
		if q.Prompt == "" || len(q.Options) < 2 {
			t.Fatalf("sanitize removed question content: %+v", q)
		}
	}
}

func TestSQLStore_PutIsUpsert(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, sampleCourse("c1", true)); err != nil {
		t.Fatalf("put: %v", err)
	}
	changed := sampleCourse("c1", true)
	changed.Title = "CPR Basics v2"
	changed.PassingScore = 80
	if err := st.Put(ctx, changed); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err := st.GetAdmin(ctx, "c1")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if got.Title != "CPR Basics v2" || got.PassingScore != 80 {
		t.Fatalf("upsert did not update: %+v", got)
	}
}

func TestSQLStore_ListFiltersInactive(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, sampleCourse("active", true)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, sampleCourse("retired", false)); err != nil {
		t.Fatalf("put: %v", err)
	}

	visible, err := st.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != "active" {
		t.Fatalf("learner listing wrong: %+v", visible)
	}
	all, err := st.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin listing wrong: %+v", all)
	}
	for _, c := range all {
		if c.PreTest != nil || c.PostTest != nil {
			t.Fatalf("listing must not carry question bodies: %+v", c)
		}
	}
}

func TestSQLStore_MissesWithNotFound(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if _, err := st.Get(ctx, "nope"); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if err := st.Delete(ctx, "nope"); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestSQLStore_Delete(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if err := st.Put(ctx, sampleCourse("c1", true)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Delete(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, "c1"); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
