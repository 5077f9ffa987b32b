package curriculum

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
)

const expandedKey = "curriculum.expanded"

// expanded reads the session's set, falling back to the initial one.
func expanded(ctx context.Context, sm *scs.SessionManager, ms []Module) Expanded {
	if !sm.Exists(ctx, expandedKey) {
		return Initial(ms)
	}
	ids, _ := sm.Get(ctx, expandedKey).([]string)
	e := make(Expanded, len(ids))
	for _, id := range ids {
		e[id] = true
	}
	return e
}

func HandleShow(sm *scs.SessionManager, ms []Module) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, Present(ms, expanded(ctx, sm, ms)), http.StatusOK)
	}
}

func HandleToggle(sm *scs.SessionManager, ms []Module) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		found := false
		for _, m := range ms {
			if m.ID == id {
				found = true
				break
			}
		}
		if !found {
			return weberr.NotFound(fmt.Errorf("module %q does not exist", id))
		}

		e := expanded(ctx, sm, ms).Toggle(id)
		sm.Put(ctx, expandedKey, e.IDs(ms))

		return web.Respond(ctx, w, Present(ms, e), http.StatusOK)
	}
}
