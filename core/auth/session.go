package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
	"github.com/irsalhamdi/learnportal/core/claims"
	"github.com/irsalhamdi/learnportal/store"
)

const (
	userIDKey      = "auth.user_id"
	emailKey       = "auth.email"
	roleKey        = "auth.role"
	accessTokenKey = "auth.access_token"

	oauthStateKey = "auth.oauth_state"
	oauthNonceKey = "auth.oauth_nonce"
)

// LoadAndSave loads the caller's session, exposes the signed-in identity
// as claims and the user's access token to the store, and saves the
// session once the handler returns.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var herr error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := identify(r.Context(), sm)
				herr = handler(ctx, w, r.WithContext(ctx))
			})
			sm.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return herr
		}
		return h
	}
	return m
}

func identify(ctx context.Context, sm *scs.SessionManager) context.Context {
	id := sm.GetString(ctx, userIDKey)
	if id == "" {
		return ctx
	}
	c := claims.Claims{
		UserID:      id,
		Email:       sm.GetString(ctx, emailKey),
		Role:        sm.GetString(ctx, roleKey),
		AccessToken: sm.GetString(ctx, accessTokenKey),
	}
	ctx = claims.Set(ctx, c)
	if c.AccessToken != "" {
		ctx = store.WithAccessToken(ctx, c.AccessToken)
	}
	return ctx
}

// Authenticate rejects requests without a signed-in user.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.SignedIn(ctx) {
				return weberr.NotAuthorized(errors.New("user not signed in"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// signIn replaces the session with one for s.
func signIn(ctx context.Context, sm *scs.SessionManager, s Session) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	role := s.User.Role
	if role == "" || role == "authenticated" {
		role = claims.RoleStudent
	}
	sm.Put(ctx, userIDKey, s.User.ID)
	sm.Put(ctx, emailKey, s.User.Email)
	sm.Put(ctx, roleKey, role)
	sm.Put(ctx, accessTokenKey, s.AccessToken)
	return nil
}
