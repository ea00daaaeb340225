// Package content holds the reading material: library articles, the
// contemplation journal, the rotating verse, historical sites and links.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-qamar/internal/store"
)

// AllCategories selects every article.
const AllCategories = "all"

// Article is an articles row.
type Article struct {
	ID          string        `json:"id,omitempty" db:"id"`
	Title       string        `json:"title" db:"title"`
	Slug        string        `json:"slug" db:"slug"`
	Category    string        `json:"category" db:"category"`
	Content     string        `json:"content" db:"content"`
	Excerpt     *string       `json:"excerpt,omitempty" db:"excerpt"`
	ImageURL    *string       `json:"image_url,omitempty" db:"image_url"`
	Tags        store.Strings `json:"tags" db:"tags"`
	IsPublished bool          `json:"is_published" db:"is_published"`
	CreatedAt   time.Time     `json:"created_at,omitzero" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at,omitzero" db:"updated_at"`
}

// Summary returns the excerpt, or the start of the content.
func (a Article) Summary(max int) string {
	if a.Excerpt != nil && *a.Excerpt != "" {
		return *a.Excerpt
	}
	r := []rune(a.Content)
	if max <= 0 || len(r) <= max {
		return a.Content
	}
	return string(r[:max-1]) + "…"
}

// Categories returns "all" followed by each category in first-seen order.
func Categories(articles []Article) []string {
	out := []string{AllCategories}
	seen := map[string]bool{AllCategories: true}
	for _, a := range articles {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Filter keeps articles in category; "all" or "" keeps everything.
func Filter(articles []Article, category string) []Article {
	if category == "" || category == AllCategories {
		return articles
	}
	var out []Article
	for _, a := range articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Library reads articles from a DataStore.
type Library struct {
	ds store.DataStore
}

// NewLibrary creates a library over ds.
func NewLibrary(ds store.DataStore) *Library {
	return &Library{ds: ds}
}

// Published lists published articles, newest first.
func (l *Library) Published(ctx context.Context) ([]Article, error) {
	var out []Article
	q := store.From(store.TableArticles).Eq("is_published", true).Order("created_at", false)
	if err := l.ds.Query(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return out, nil
}
