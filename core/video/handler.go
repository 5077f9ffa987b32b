package video

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/learnportal/api/middleware"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
	"github.com/irsalhamdi/learnportal/core/category"
	"github.com/irsalhamdi/learnportal/core/listing"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/validate"
	"github.com/sirupsen/logrus"
)

func HandleList(st store.Reader, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filters{
			Category: web.Query(r, "category"),
			Search:   web.Query(r, "q"),
		}
		if err := validate.Check(f); err != nil {
			return weberr.Invalid(err)
		}

		videos := listing.NewSource[Video]("videos", PublishedQuery())
		cats := listing.NewSource[category.Category]("categories", category.Query())

		l := listing.Loader{Store: st, Log: log.WithField("req_id", middleware.ContextRequestID(ctx))}
		out := l.Load(ctx, videos, cats)

		v := Present(videos.Records(), cats.Records(), f)
		v.Outcome = out

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}
