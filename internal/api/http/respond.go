package http

import (
	"encoding/json"
	"net/http"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), fault.HTTPStatus(err))
}
