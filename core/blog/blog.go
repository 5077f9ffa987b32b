package blog

import (
	"time"

	"github.com/irsalhamdi/learnportal/store"
	"github.com/lib/pq"
)

// Table is the store table holding blog posts.
const Table = "blog_posts"

type Post struct {
	ID                 string         `json:"id" db:"id"`
	Title              string         `json:"title" db:"title"`
	Slug               string         `json:"slug" db:"slug"`
	Excerpt            *string        `json:"excerpt" db:"excerpt"`
	Content            string         `json:"content" db:"content"`
	CoverImageURL      *string        `json:"cover_image_url" db:"cover_image_url"`
	AuthorID           *string        `json:"author_id" db:"author_id"`
	CategoryID         *string        `json:"category_id" db:"category_id"`
	Tags               pq.StringArray `json:"tags" db:"tags"`
	IsPublished        bool           `json:"is_published" db:"is_published"`
	PublishedAt        *time.Time     `json:"published_at" db:"published_at"`
	ReadingTimeMinutes int            `json:"reading_time_minutes" db:"reading_time_minutes"`
	ViewsCount         int            `json:"views_count" db:"views_count"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// PublishedQuery lists published posts, newest first.
func PublishedQuery() store.Query {
	return store.From(Table).Eq("is_published", true).OrderBy("published_at", false)
}
