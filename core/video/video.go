package video

import (
	"time"

	"github.com/irsalhamdi/learnportal/store"
)

// Table is the store table holding videos.
const Table = "videos"

type Video struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Slug            string    `json:"slug" db:"slug"`
	Description     *string   `json:"description" db:"description"`
	VideoURL        string    `json:"video_url" db:"video_url"`
	ThumbnailURL    *string   `json:"thumbnail_url" db:"thumbnail_url"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	CategoryID      *string   `json:"category_id" db:"category_id"`
	CourseID        *string   `json:"course_id" db:"course_id"`
	IsPublished     bool      `json:"is_published" db:"is_published"`
	ViewsCount      int       `json:"views_count" db:"views_count"`
	OrderIndex      int       `json:"order_index" db:"order_index"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// PublishedQuery lists published videos in playlist order.
func PublishedQuery() store.Query {
	return store.From(Table).Eq("is_published", true).OrderBy("order_index", true)
}
