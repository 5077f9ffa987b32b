package course

import (
	"time"

	"github.com/irsalhamdi/learnportal/store"
)

// Table is the store table holding courses.
const Table = "courses"

const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// Difficulties lists the levels in the order they are offered as filters.
var Difficulties = []string{Beginner, Intermediate, Advanced}

type Course struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Description   *string   `json:"description" db:"description"`
	ThumbnailURL  *string   `json:"thumbnail_url" db:"thumbnail_url"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	DurationHours int       `json:"duration_hours" db:"duration_hours"`
	CategoryID    *string   `json:"category_id" db:"category_id"`
	InstructorID  *string   `json:"instructor_id" db:"instructor_id"`
	IsPublished   bool      `json:"is_published" db:"is_published"`
	IsFree        bool      `json:"is_free" db:"is_free"`
	OrderIndex    int       `json:"order_index" db:"order_index"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PublishedQuery lists published courses in curriculum order.
func PublishedQuery() store.Query {
	return store.From(Table).Eq("is_published", true).OrderBy("order_index", true)
}

// ByIDsQuery fetches the courses with the given ids.
func ByIDsQuery(ids []string) store.Query {
	return store.From(Table).In("id", ids)
}
