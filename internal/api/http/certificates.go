package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartwise-th/heartwise-lms/internal/audit"
	authmw "github.com/heartwise-th/heartwise-lms/internal/auth/middleware"
	"github.com/heartwise-th/heartwise-lms/internal/certificate"
)

// POST /courses/{courseID}/certificate  { "student_name": "..." }
// Idempotent: repeat calls return the stored certificate.
func IssueCertificateHandler(issuer *certificate.Issuer, events *audit.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		var req struct {
			StudentName string `json:"student_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cert, err := issuer.Issue(r.Context(), userID, courseID, req.StudentName)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := events.Append(r.Context(), audit.EventCertificateIssued, userID+"|"+courseID, map[string]any{
			"certificate_number": cert.CertificateNumber,
		}); err != nil {
			log.Printf("event log: %v", err)
		}
		writeJSON(w, cert)
	}
}

// GET /certificates — the learner's issued certificates.
func ListCertificatesHandler(issuer *certificate.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		certs, err := issuer.List(r.Context(), userID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, certs)
	}
}
