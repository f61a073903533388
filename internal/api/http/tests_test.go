package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/heartwise-th/heartwise-lms/internal/api/http"
	"github.com/heartwise-th/heartwise-lms/internal/audit"
	auth "github.com/heartwise-th/heartwise-lms/internal/auth/middleware"
	"github.com/heartwise-th/heartwise-lms/internal/certificate"
	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/db"
	"github.com/heartwise-th/heartwise-lms/internal/grading"
	"github.com/heartwise-th/heartwise-lms/internal/progress"
	"github.com/heartwise-th/heartwise-lms/internal/rbac"
)

// asUser stands in for the JWT middleware in handler tests.
func asUser(sub, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithSubject(r.Context(), sub)
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type testEnv struct {
	router  chi.Router
	courses course.Store
}

func newTestEnv(t *testing.T, sub, role string) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })

	courses := course.NewInMemoryStore()
	progressStore := progress.NewInMemoryStore()
	certStore := certificate.NewInMemoryStore()
	events := audit.NewEventLog(h)
	tracker := progress.NewTracker(progressStore, nil)
	issuer := certificate.NewIssuer(certStore, progressStore, courses, "CPR", nil)

	r := chi.NewRouter()
	r.Use(asUser(sub, role))
	r.With(rbac.Require("course:view")).
		Get("/courses/{courseID}/tests/{phase}", api.GetTestHandler(courses))
	r.With(rbac.Require("test:submit")).
		Post("/courses/{courseID}/tests/{phase}/submit", api.SubmitTestHandler(courses, tracker, events))
	r.With(rbac.Require("video:mark")).
		Post("/courses/{courseID}/video", api.MarkVideoWatchedHandler(tracker))
	r.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
		Get("/progress/{courseID}", api.GetProgressHandler(tracker))
	r.With(rbac.Require("certificate:issue")).
		Post("/courses/{courseID}/certificate", api.IssueCertificateHandler(issuer, events))
	r.With(rbac.Require("course:manage")).
		Post("/courses", api.CreateCourseHandler(courses))

	return &testEnv{router: r, courses: courses}
}

func (e *testEnv) seedCourse(t *testing.T) {
	t.Helper()
	err := e.courses.Put(context.Background(), course.Course{
		ID:           "cpr-basic",
		Title:        "CPR Basics",
		PassingScore: 70,
		IsActive:     true,
		PreTest: []course.Question{
			{ID: "p1", Prompt: "First step?", Options: []string{"Check response", "Run"}, CorrectAnswer: 0},
		},
		PostTest: []course.Question{
			{ID: "q1", Prompt: "Rate?", Options: []string{"60", "110"}, CorrectAnswer: 1, Explanation: "100-120/min."},
			{ID: "q2", Prompt: "Depth?", Options: []string{"2cm", "5cm"}, CorrectAnswer: 1},
			{ID: "q3", Prompt: "AED first?", Options: []string{"yes", "no"}, CorrectAnswer: 0},
		},
	})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type submitResponse struct {
	Result    grading.TestResult `json:"result"`
	Progress  progress.Record    `json:"progress"`
	Questions []course.Question  `json:"questions"`
}

func TestGetTest_HidesAnswerKeys(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	e.seedCourse(t)

	w := e.do(t, "GET", "/courses/cpr-basic/tests/post", nil)
	if w.Code != 200 {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		PassingScore int               `json:"passing_score"`
		Questions    []course.Question `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PassingScore != 70 || len(resp.Questions) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	for _, q := range resp.Questions {
		if q.CorrectAnswer != -1 || q.Explanation != "" {
			t.Fatalf("answer key leaked: %+v", q)
		}
	}
}

func TestGetTest_BadPhase(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	e.seedCourse(t)
	if w := e.do(t, "GET", "/courses/cpr-basic/tests/midterm", nil); w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLearnerFlow_EndToEnd(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	e.seedCourse(t)

	// pre-test
	w := e.do(t, "POST", "/courses/cpr-basic/tests/pre/submit", map[string]any{
		"answers": []grading.Answer{{QuestionID: "p1", SelectedAnswer: 0}},
	})
	if w.Code != 200 {
		t.Fatalf("pre submit status = %d: %s", w.Code, w.Body.String())
	}
	var pre submitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &pre); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !pre.Progress.PreTestCompleted || pre.Progress.Completed {
		t.Fatalf("unexpected progress after pre-test: %+v", pre.Progress)
	}
	// answer keys are revealed after submission
	if len(pre.Questions) != 1 || pre.Questions[0].CorrectAnswer != 0 {
		t.Fatalf("submit response must reveal the answer key: %+v", pre.Questions)
	}

	// post-test before watching the video does not complete
	w = e.do(t, "POST", "/courses/cpr-basic/tests/post/submit", map[string]any{
		"answers": []grading.Answer{
			{QuestionID: "q1", SelectedAnswer: 1},
			{QuestionID: "q2", SelectedAnswer: 1},
			{QuestionID: "q3", SelectedAnswer: 0},
		},
	})
	if w.Code != 200 {
		t.Fatalf("post submit status = %d: %s", w.Code, w.Body.String())
	}
	var early submitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &early); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if early.Progress.Completed {
		t.Fatalf("completed without the video step: %+v", early.Progress)
	}

	// certificate refused while incomplete
	if w := e.do(t, "POST", "/courses/cpr-basic/certificate", map[string]string{"student_name": "Ada"}); w.Code != 409 {
		t.Fatalf("certificate status = %d, want 409: %s", w.Code, w.Body.String())
	}

	// video, then a passing post-test completes the course
	if w := e.do(t, "POST", "/courses/cpr-basic/video", nil); w.Code != 200 {
		t.Fatalf("video status = %d: %s", w.Code, w.Body.String())
	}
	w = e.do(t, "POST", "/courses/cpr-basic/tests/post/submit", map[string]any{
		"answers": []grading.Answer{
			{QuestionID: "q1", SelectedAnswer: 1},
			{QuestionID: "q2", SelectedAnswer: 1},
			{QuestionID: "q3", SelectedAnswer: 0},
		},
	})
	var done submitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !done.Result.Passed || done.Result.Percentage != 100 {
		t.Fatalf("unexpected result: %+v", done.Result)
	}
	if !done.Progress.Completed || done.Progress.CompletedAt == nil {
		t.Fatalf("course not completed: %+v", done.Progress)
	}

	// certificate now issues, and issuance is idempotent
	w = e.do(t, "POST", "/courses/cpr-basic/certificate", map[string]string{"student_name": "Ada"})
	if w.Code != 200 {
		t.Fatalf("certificate status = %d: %s", w.Code, w.Body.String())
	}
	var first certificate.Certificate
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok, _ := regexp.MatchString(`^CPR-\d{6}-[A-Z0-9]{6}$`, first.CertificateNumber); !ok {
		t.Fatalf("malformed certificate number %q", first.CertificateNumber)
	}
	w = e.do(t, "POST", "/courses/cpr-basic/certificate", map[string]string{"student_name": "Ada"})
	var second certificate.Certificate
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.CertificateNumber != first.CertificateNumber {
		t.Fatalf("re-issue changed the number: %q vs %q", first.CertificateNumber, second.CertificateNumber)
	}
}

func TestSubmitTest_BlankNameCertificateRejected(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	e.seedCourse(t)

	e.do(t, "POST", "/courses/cpr-basic/video", nil)
	e.do(t, "POST", "/courses/cpr-basic/tests/pre/submit", map[string]any{
		"answers": []grading.Answer{{QuestionID: "p1", SelectedAnswer: 0}},
	})
	e.do(t, "POST", "/courses/cpr-basic/tests/post/submit", map[string]any{
		"answers": []grading.Answer{
			{QuestionID: "q1", SelectedAnswer: 1},
			{QuestionID: "q2", SelectedAnswer: 1},
			{QuestionID: "q3", SelectedAnswer: 0},
		},
	})

	if w := e.do(t, "POST", "/courses/cpr-basic/certificate", map[string]string{"student_name": "   "}); w.Code != 400 {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestRBAC_StudentCannotManageCourses(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	if w := e.do(t, "POST", "/courses", map[string]any{"title": "x"}); w.Code != 403 {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestSubmitTest_UnknownCourse(t *testing.T) {
	e := newTestEnv(t, "u1", "student")
	w := e.do(t, "POST", "/courses/missing/tests/pre/submit", map[string]any{
		"answers": []grading.Answer{},
	})
	if w.Code != 404 {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
}
