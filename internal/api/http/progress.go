package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/heartwise-th/heartwise-lms/internal/auth/middleware"
	"github.com/heartwise-th/heartwise-lms/internal/progress"
)

// GET /progress — all of the learner's progress records.
func ListProgressHandler(tracker *progress.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		recs, err := tracker.List(r.Context(), userID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, recs)
	}
}

// GET /progress/{courseID}
func GetProgressHandler(tracker *progress.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		rec, err := tracker.Get(r.Context(), userID, chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rec)
	}
}
