package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartwise-th/heartwise-lms/internal/audit"
	authmw "github.com/heartwise-th/heartwise-lms/internal/auth/middleware"
	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/grading"
	"github.com/heartwise-th/heartwise-lms/internal/progress"
)

// GET /courses/{courseID}/tests/{phase} — student-safe question set.
func GetTestHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phase, ok := course.ParsePhase(chi.URLParam(r, "phase"))
		if !ok {
			http.Error(w, "phase must be pre or post", http.StatusBadRequest)
			return
		}
		c, err := courses.Get(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"course_id":     c.ID,
			"phase":         phase,
			"passing_score": c.PassingScore,
			"questions":     c.Test(phase),
		})
	}
}

// POST /courses/{courseID}/tests/{phase}/submit — grade and record.
// The response carries the graded result, the updated progress record and
// the full question set: answer keys and explanations are revealed only
// here, after submission.
func SubmitTestHandler(courses course.Store, tracker *progress.Tracker, events *audit.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		phase, ok := course.ParsePhase(chi.URLParam(r, "phase"))
		if !ok {
			http.Error(w, "phase must be pre or post", http.StatusBadRequest)
			return
		}
		var req struct {
			Answers []grading.Answer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		c, err := courses.GetAdmin(r.Context(), courseID)
		if err != nil {
			writeErr(w, err)
			return
		}
		result, err := grading.Grade(course.GradingView(c.Test(phase)), req.Answers, c.PassingScore)
		if err != nil {
			writeErr(w, err)
			return
		}

		var rec progress.Record
		completedNow := false
		if phase == course.PhasePre {
			rec, err = tracker.RecordPreTest(r.Context(), userID, courseID, result)
		} else {
			rec, completedNow, err = tracker.RecordPostTest(r.Context(), userID, courseID, result)
		}
		if err != nil {
			writeErr(w, err)
			return
		}

		key := userID + "|" + courseID
		if err := events.Append(r.Context(), audit.EventTestSubmitted, key, map[string]any{
			"phase": phase, "score": result.Score, "percentage": result.Percentage, "passed": result.Passed,
		}); err != nil {
			log.Printf("event log: %v", err)
		}
		if completedNow {
			if err := events.Append(r.Context(), audit.EventCourseCompleted, key, map[string]any{
				"score": result.Score, "percentage": result.Percentage,
			}); err != nil {
				log.Printf("event log: %v", err)
			}
		}

		writeJSON(w, map[string]any{"result": result, "progress": rec, "questions": c.Test(phase)})
	}
}

// POST /courses/{courseID}/video — the player reports watch completion.
func MarkVideoWatchedHandler(tracker *progress.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		rec, err := tracker.RecordVideoWatched(r.Context(), userID, chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rec)
	}
}
