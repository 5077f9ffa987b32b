package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/learnportal/api/middleware"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/core/auth"
	"github.com/irsalhamdi/learnportal/core/blog"
	"github.com/irsalhamdi/learnportal/core/course"
	"github.com/irsalhamdi/learnportal/core/curriculum"
	"github.com/irsalhamdi/learnportal/core/dashboard"
	"github.com/irsalhamdi/learnportal/core/learningpath"
	"github.com/irsalhamdi/learnportal/core/resource"
	"github.com/irsalhamdi/learnportal/core/video"
	"github.com/irsalhamdi/learnportal/rate"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	Store            store.Store
	Session          *scs.SessionManager
	Auth             auth.Authenticator
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	Limiter          *rate.Limiter
	Resources        resource.Catalogue
	Curriculum       []curriculum.Module
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.Compress())
	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate()
	dash := dashboard.New(cfg.Store, cfg.Session, cfg.Log)

	a.Handle(http.MethodGet, "/health", handleHealth)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Auth, cfg.Session, cfg.Store, cfg.Log))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Auth, cfg.Session, cfg.Log))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.Auth, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))
	a.Handle(http.MethodGet, "/session", auth.HandleSession(cfg.Session, cfg.Store, cfg.Log))

	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.Store, cfg.Log))
	a.Handle(http.MethodGet, "/blog", blog.HandleList(cfg.Store, cfg.Log))
	a.Handle(http.MethodGet, "/videos", video.HandleList(cfg.Store, cfg.Log))
	a.Handle(http.MethodGet, "/learning-paths", learningpath.HandleList(cfg.Store, cfg.Log))
	a.Handle(http.MethodGet, "/resources", resource.HandleList(cfg.Resources))

	a.Handle(http.MethodGet, "/curriculum", curriculum.HandleShow(cfg.Session, cfg.Curriculum))
	a.Handle(http.MethodPost, "/curriculum/modules/{id}/toggle", curriculum.HandleToggle(cfg.Session, cfg.Curriculum))

	a.Handle(http.MethodGet, "/dashboard", dash.HandleShow())
	a.Handle(http.MethodPost, "/dashboard/profile/edit", dash.HandleEdit(), authen)
	a.Handle(http.MethodPut, "/dashboard/profile/draft", dash.HandleDraft(), authen)
	a.Handle(http.MethodPost, "/dashboard/profile/save", dash.HandleSave(), authen)

	return a.Router
}

func handleHealth(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {
	handler = web.WrapMiddleware(mw, handler)
	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {
			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("unhandled error")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
