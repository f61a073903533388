// Package article holds the first-aid article library.
package article

import "context"

type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt,omitempty"`
	Content     string `json:"content,omitempty"`
	Category    string `json:"category,omitempty"`
	Author      string `json:"author,omitempty"`
	ReadTime    string `json:"read_time,omitempty"`
	Image       string `json:"image,omitempty"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type Store interface {
	Put(ctx context.Context, a Article) error
	Get(ctx context.Context, id string) (Article, error)
	// List returns article summaries (no content body).
	// publishedOnly hides drafts from learners.
	List(ctx context.Context, publishedOnly bool) ([]Article, error)
	Delete(ctx context.Context, id string) error
}
