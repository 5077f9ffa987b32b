package dashboard

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/learnportal/api/middleware"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
	"github.com/irsalhamdi/learnportal/core/claims"
	"github.com/irsalhamdi/learnportal/core/course"
	"github.com/irsalhamdi/learnportal/core/listing"
	"github.com/irsalhamdi/learnportal/core/profile"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/validate"
	"github.com/sirupsen/logrus"
)

const editorKey = "dashboard.editor"

const saveFailed = "could not save profile, please try again"

func init() {
	gob.Register(profile.Editor{})
}

// Handlers serves the dashboard. Only one profile save per user runs at a
// time, across every session of that user.
type Handlers struct {
	store   store.Store
	session *scs.SessionManager
	log     logrus.FieldLogger

	mu     sync.Mutex
	saving map[string]bool
}

func New(st store.Store, sm *scs.SessionManager, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		store:   st,
		session: sm,
		log:     log,
		saving:  make(map[string]bool),
	}
}

type editorResponse struct {
	Editor  profile.Editor   `json:"editor"`
	Profile *profile.Profile `json:"profile,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (h *Handlers) editor(ctx context.Context) profile.Editor {
	ed, _ := h.session.Get(ctx, editorKey).(profile.Editor)
	if ed.Mode == "" {
		ed.Mode = profile.Viewing
	}
	return ed
}

func (h *Handlers) loader(ctx context.Context) listing.Loader {
	return listing.Loader{Store: h.store, Log: h.log.WithField("req_id", middleware.ContextRequestID(ctx))}
}

func (h *Handlers) HandleShow() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := claims.Get(ctx)
		if err != nil || c.UserID == "" {
			return web.Respond(ctx, w, Anonymous(), http.StatusOK)
		}

		enrollments := listing.NewSource[Enrollment]("enrollments", ForUserQuery(c.UserID))
		profiles := listing.NewSource[profile.Profile]("profile", profile.ByIDQuery(c.UserID))

		l := h.loader(ctx)
		out := l.Load(ctx, enrollments, profiles)

		es := enrollments.Records()
		if ids := CourseIDs(es); len(ids) > 0 {
			courses := listing.NewSource[course.Course]("courses", course.ByIDsQuery(ids))
			out = out.Merge(l.Load(ctx, courses))
			es = Join(es, courses.Records())
		}

		var p *profile.Profile
		if ps := profiles.Records(); len(ps) > 0 {
			p = &ps[0]
		}

		v := Present(es, p, h.editor(ctx))
		v.Outcome = out

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

func (h *Handlers) HandleEdit() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		p, err := profile.Fetch(ctx, h.store, c.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return weberr.BadGateway(err)
		}

		ed, err := h.editor(ctx).Edit(p)
		if err != nil {
			return weberr.Conflict(err)
		}
		h.session.Put(ctx, editorKey, ed)

		return web.Respond(ctx, w, editorResponse{Editor: ed, Profile: &p}, http.StatusOK)
	}
}

func (h *Handlers) HandleDraft() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var d profile.Draft
		if err := web.Decode(w, r, &d); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode draft: %w", err))
		}
		if err := validate.Check(d); err != nil {
			return weberr.Invalid(err)
		}

		ed, err := h.editor(ctx).SetDraft(d)
		if err != nil {
			return weberr.Conflict(err)
		}
		h.session.Put(ctx, editorKey, ed)

		return web.Respond(ctx, w, editorResponse{Editor: ed}, http.StatusOK)
	}
}

func (h *Handlers) HandleSave() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		ed, err := h.editor(ctx).BeginSave()
		if err != nil {
			return weberr.Conflict(err)
		}
		if err := validate.Check(ed.Draft); err != nil {
			return weberr.Invalid(err)
		}
		if !h.acquire(c.UserID) {
			return weberr.Conflict(profile.ErrSaveInFlight)
		}
		defer h.release(c.UserID)

		// The session keeps the editing state until the update settles.
		p, err := profile.Update(ctx, h.store, c.UserID, ed.Draft)
		if err != nil {
			ed = ed.SaveFailed(saveFailed)
			h.session.Put(ctx, editorKey, ed)

			body := editorResponse{Editor: ed, Error: saveFailed}
			return weberr.Wrap(&weberr.RequestError{Err: err},
				weberr.WithResponse(body, http.StatusBadGateway),
				weberr.WithFields(map[string]interface{}{"user_id": c.UserID}),
			)
		}

		ed = ed.Saved()
		h.session.Put(ctx, editorKey, ed)

		return web.Respond(ctx, w, editorResponse{Editor: ed, Profile: &p}, http.StatusOK)
	}
}

func (h *Handlers) acquire(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.saving[userID] {
		return false
	}
	h.saving[userID] = true
	return true
}

func (h *Handlers) release(userID string) {
	h.mu.Lock()
	delete(h.saving, userID)
	h.mu.Unlock()
}
