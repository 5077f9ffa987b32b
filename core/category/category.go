package category

import (
	"time"

	"github.com/irsalhamdi/learnportal/store"
)

// Table is the store table holding categories.
const Table = "categories"

type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description" db:"description"`
	Icon        *string   `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Query lists every category by name.
func Query() store.Query {
	return store.From(Table).OrderBy("name", true)
}
