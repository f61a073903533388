package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartwise-th/heartwise-lms/internal/article"
	"github.com/heartwise-th/heartwise-lms/internal/fault"
	"github.com/heartwise-th/heartwise-lms/internal/rbac"
)

func ListArticlesHandler(articles article.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// admins see drafts with ?all=1
		publishedOnly := !(r.URL.Query().Get("all") == "1" && rbac.RoleFromContext(r.Context()) == "admin")
		out, err := articles.List(r.Context(), publishedOnly)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func GetArticleHandler(articles article.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := articles.Get(r.Context(), chi.URLParam(r, "articleID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if !a.IsPublished && rbac.RoleFromContext(r.Context()) != "admin" {
			writeErr(w, fmt.Errorf("%w: article %s", fault.ErrNotFound, a.ID))
			return
		}
		writeJSON(w, a)
	}
}

func CreateArticleHandler(articles article.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a article.Article
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(a.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if err := articles.Put(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"id": a.ID})
	}
}

func UpdateArticleHandler(articles article.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "articleID")
		var a article.Article
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a.ID = id
		if _, err := articles.Get(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		if err := articles.Put(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"id": a.ID})
	}
}

func DeleteArticleHandler(articles article.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := articles.Delete(r.Context(), chi.URLParam(r, "articleID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
