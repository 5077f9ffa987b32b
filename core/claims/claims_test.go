package claims

import (
	"context"
	"errors"
	"testing"
)

func TestClaims(t *testing.T) {
	ctx := context.Background()
	if SignedIn(ctx) {
		t.Fatal("empty context reported as signed in")
	}
	if _, err := Get(ctx); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}

	ctx = Set(ctx, Claims{UserID: "u1", Role: RoleStudent})
	if c, err := Get(ctx); err != nil || !SignedIn(ctx) || c.UserID != "u1" {
		t.Fatalf("claims not applied: %+v", ctx.Value(claimsKey))
	}

	if SignedIn(Set(ctx, Claims{})) {
		t.Fatal("claims without a user reported as signed in")
	}
}
