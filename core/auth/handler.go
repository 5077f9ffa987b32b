package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/irsalhamdi/learnportal/api/middleware"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
	"github.com/irsalhamdi/learnportal/core/claims"
	"github.com/irsalhamdi/learnportal/core/profile"
	"github.com/irsalhamdi/learnportal/httpx"
	"github.com/irsalhamdi/learnportal/random"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/validate"
	"github.com/sirupsen/logrus"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity is the answer to "who is signed in".
type Identity struct {
	User    *CurrentUser     `json:"user"`
	Profile *profile.Profile `json:"profile,omitempty"`
}

type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func HandleLogin(authn Authenticator, sm *scs.SessionManager, st store.Reader, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds Credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode credentials: %w", err))
		}
		if err := validate.Check(creds); err != nil {
			return weberr.Invalid(err)
		}

		s, err := authn.SignIn(ctx, creds.Email, creds.Password)
		if err != nil {
			switch httpx.StatusCode(err) {
			case http.StatusBadRequest, http.StatusUnauthorized:
				return weberr.NotAuthorized(err, weberr.WithFields(map[string]interface{}{"email": creds.Email}))
			default:
				return weberr.BadGateway(err)
			}
		}

		if err := validate.CheckID(s.User.ID); err != nil {
			return weberr.BadGateway(fmt.Errorf("auth returned user %q: %w", s.User.ID, err))
		}
		if err := signIn(ctx, sm, s); err != nil {
			return weberr.InternalError(fmt.Errorf("renewing session: %w", err))
		}

		ctx = store.WithAccessToken(ctx, s.AccessToken)
		return web.Respond(ctx, w, identity(ctx, st, log, s.User.ID, s.User.Email, sm.GetString(ctx, roleKey)), http.StatusOK)
	}
}

func HandleLogout(authn Authenticator, sm *scs.SessionManager, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if token := sm.GetString(ctx, accessTokenKey); token != "" {
			if err := authn.SignOut(ctx, token); err != nil {
				log.WithFields(logrus.Fields{
					"req_id": middleware.ContextRequestID(ctx),
					"error":  err,
				}).Warn("remote sign out failed")
			}
		}

		if err := sm.Destroy(ctx); err != nil {
			return weberr.InternalError(fmt.Errorf("destroying session: %w", err))
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleSession(sm *scs.SessionManager, st store.Reader, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := claims.Get(ctx)
		if err != nil {
			return web.Respond(ctx, w, Identity{}, http.StatusOK)
		}
		return web.Respond(ctx, w, identity(ctx, st, log, c.UserID, c.Email, c.Role), http.StatusOK)
	}
}

// identity pairs the user with their profile. A profile that cannot be read
// is left out.
func identity(ctx context.Context, st store.Reader, log logrus.FieldLogger, id, email, role string) Identity {
	out := Identity{User: &CurrentUser{ID: id, Email: email, Role: role}}

	p, err := profile.Fetch(ctx, st, id)
	switch {
	case err == nil:
		out.Profile = &p
	case !errors.Is(err, store.ErrNotFound):
		log.WithFields(logrus.Fields{
			"req_id":  middleware.ContextRequestID(ctx),
			"user_id": id,
			"error":   err,
		}).Error("loading profile")
	}
	return out
}

func HandleOauthLogin(sm *scs.SessionManager, provs map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		prov, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state, err := random.StringSecure(32)
		if err != nil {
			return weberr.InternalError(err)
		}
		nonce, err := random.StringSecure(32)
		if err != nil {
			return weberr.InternalError(err)
		}
		sm.Put(ctx, oauthStateKey, state)
		sm.Put(ctx, oauthNonceKey, nonce)

		http.Redirect(w, r, prov.OAuth.AuthCodeURL(state, oidc.Nonce(nonce)), http.StatusFound)
		return nil
	}
}

func HandleOauthCallback(authn Authenticator, sm *scs.SessionManager, provs map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		prov, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("unknown oauth provider %q", name))
		}

		state := sm.PopString(ctx, oauthStateKey)
		nonce := sm.PopString(ctx, oauthNonceKey)
		if state == "" || web.Query(r, "state") != state {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}
		code := web.Query(r, "code")
		if code == "" {
			return weberr.BadRequest(errors.New("missing authorization code"))
		}

		raw, err := prov.IDToken(ctx, code, nonce)
		if err != nil {
			return weberr.NotAuthorized(err, weberr.WithFields(map[string]interface{}{"provider": name}))
		}

		s, err := authn.ExchangeIDToken(ctx, name, raw)
		if err != nil {
			return weberr.BadGateway(err)
		}
		if err := validate.CheckID(s.User.ID); err != nil {
			return weberr.BadGateway(fmt.Errorf("auth returned user %q: %w", s.User.ID, err))
		}
		if err := signIn(ctx, sm, s); err != nil {
			return weberr.InternalError(fmt.Errorf("renewing session: %w", err))
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}
