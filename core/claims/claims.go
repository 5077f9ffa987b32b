// Package claims carries the identity of the signed-in user through a
// request context.
package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type Claims struct {
	UserID      string
	Email       string
	Role        string
	AccessToken string
}

type ctxKey int

const claimsKey ctxKey = 1

var ErrMissing = errors.New("claim value missing from context")

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, ErrMissing
	}
	return v, nil
}

// SignedIn reports whether ctx belongs to an authenticated user.
func SignedIn(ctx context.Context) bool {
	c, err := Get(ctx)
	return err == nil && c.UserID != ""
}
