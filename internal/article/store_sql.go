package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/heartwise-th/heartwise-lms/internal/fault"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, a Article) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO articles
		(id,title,excerpt,content,category,author,read_time,image,is_published,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, excerpt=EXCLUDED.excerpt, content=EXCLUDED.content,
		  category=EXCLUDED.category, author=EXCLUDED.author, read_time=EXCLUDED.read_time,
		  image=EXCLUDED.image, is_published=EXCLUDED.is_published`,
		a.ID, a.Title, a.Excerpt, a.Content, a.Category, a.Author, a.ReadTime,
		a.Image, a.IsPublished, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: put article: %v", fault.ErrUpstream, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,excerpt,content,category,author,
		read_time,image,is_published,created_at FROM articles WHERE id=$1`, id)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Category, &a.Author,
		&a.ReadTime, &a.Image, &a.IsPublished, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, fmt.Errorf("%w: article %s", fault.ErrNotFound, id)
	}
	if err != nil {
		return Article{}, fmt.Errorf("%w: get article: %v", fault.ErrUpstream, err)
	}
	return a, nil
}

func (s *SQLStore) List(ctx context.Context, publishedOnly bool) ([]Article, error) {
	q := `SELECT id,title,excerpt,category,author,read_time,image,is_published,created_at
		FROM articles`
	if publishedOnly {
		q += ` WHERE is_published=TRUE`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list articles: %v", fault.ErrUpstream, err)
	}
	defer rows.Close()
	out := []Article{}
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Category, &a.Author,
			&a.ReadTime, &a.Image, &a.IsPublished, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete article: %v", fault.ErrUpstream, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: article %s", fault.ErrNotFound, id)
	}
	return nil
}
