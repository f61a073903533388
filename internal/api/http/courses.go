package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartwise-th/heartwise-lms/internal/course"
	"github.com/heartwise-th/heartwise-lms/internal/fault"
	"github.com/heartwise-th/heartwise-lms/internal/rbac"
)

// Handlers only — routes remain in main.go

func ListCoursesHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// ?all=1 shows inactive courses, admin only
		all := r.URL.Query().Get("all") == "1" && rbac.RoleFromContext(r.Context()) == "admin"
		out, err := courses.List(r.Context(), all)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func GetCourseHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		c, err := courses.Get(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, c)
	}
}

// GetCourseAdminHandler returns the full course including answer keys.
func GetCourseAdminHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		c, err := courses.GetAdmin(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func CreateCourseHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c course.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := validateCourse(c); err != nil {
			writeErr(w, err)
			return
		}
		if err := courses.Put(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"id": c.ID})
	}
}

func UpdateCourseHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		var c course.Course
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c.ID = id
		if err := validateCourse(c); err != nil {
			writeErr(w, err)
			return
		}
		// Put upserts; require an existing row so PUT on a typo'd id 404s.
		if _, err := courses.GetAdmin(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		if err := courses.Put(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"id": c.ID})
	}
}

func DeleteCourseHandler(courses course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "courseID")
		if err := courses.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func validateCourse(c course.Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title required", fault.ErrInvalidInput)
	}
	if c.PassingScore < 0 || c.PassingScore > 100 {
		return fmt.Errorf("%w: passing_score must be 0-100", fault.ErrInvalidInput)
	}
	for _, qs := range [][]course.Question{c.PreTest, c.PostTest} {
		for _, q := range qs {
			if len(q.Options) < 2 {
				return fmt.Errorf("%w: question %s needs at least 2 options", fault.ErrInvalidInput, q.ID)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("%w: question %s correct_answer out of range", fault.ErrInvalidInput, q.ID)
			}
		}
	}
	return nil
}
