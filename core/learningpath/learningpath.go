// Package learningpath serves the catalogue of guided learning paths.
package learningpath

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/learnportal/api/middleware"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/core/listing"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/sirupsen/logrus"
)

// Table is the store table holding learning paths.
const Table = "learning_paths"

type LearningPath struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Slug               string    `json:"slug" db:"slug"`
	Description        string    `json:"description" db:"description"`
	Difficulty         string    `json:"difficulty" db:"difficulty"`
	ThumbnailURL       *string   `json:"thumbnail_url" db:"thumbnail_url"`
	TotalDurationHours int       `json:"total_duration_hours" db:"total_duration_hours"`
	OrderIndex         int       `json:"order_index" db:"order_index"`
	IsPublished        bool      `json:"is_published" db:"is_published"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

func PublishedQuery() store.Query {
	return store.From(Table).Eq("is_published", true).OrderBy("order_index", true)
}

type Card struct {
	LearningPath
	DurationLabel string `json:"durationLabel"`
}

type View struct {
	listing.Outcome
	Paths []Card `json:"paths"`
	Total int    `json:"total"`
}

// Present keeps the store order; learning paths are never filtered.
func Present(paths []LearningPath) View {
	v := View{
		Outcome: listing.Outcome{State: listing.Ready},
		Paths:   make([]Card, 0, len(paths)),
		Total:   len(paths),
	}
	for _, p := range paths {
		v.Paths = append(v.Paths, Card{
			LearningPath:  p,
			DurationLabel: fmt.Sprintf("%d+ hours", p.TotalDurationHours),
		})
	}
	return v
}

func HandleList(st store.Reader, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		paths := listing.NewSource[LearningPath]("paths", PublishedQuery())

		l := listing.Loader{Store: st, Log: log.WithField("req_id", middleware.ContextRequestID(ctx))}
		out := l.Load(ctx, paths)

		v := Present(paths.Records())
		v.Outcome = out

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}
