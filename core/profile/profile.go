// Package profile reads and updates the profile of a signed-in user.
package profile

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/irsalhamdi/learnportal/store"
)

// Table is the store table holding profiles.
const Table = "profiles"

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  *string   `json:"full_name" db:"full_name"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	Bio       *string   `json:"bio" db:"bio"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ByIDQuery selects the profile with the given id.
func ByIDQuery(id string) store.Query {
	return store.From(Table).Eq("id", id)
}

// Fetch returns the profile of user id, or store.ErrNotFound.
func Fetch(ctx context.Context, st store.Reader, id string) (Profile, error) {
	var ps []Profile
	if err := st.Select(ctx, ByIDQuery(id), &ps); err != nil {
		return Profile{}, fmt.Errorf("fetching profile[%s]: %w", id, err)
	}
	if len(ps) == 0 {
		return Profile{}, fmt.Errorf("fetching profile[%s]: %w", id, store.ErrNotFound)
	}
	return ps[0], nil
}

// Draft holds the editable fields of a profile.
type Draft struct {
	FullName string `json:"full_name" validate:"max=120"`
	Bio      string `json:"bio" validate:"max=1000"`
}

// DraftOf seeds a draft from p; missing values become empty strings.
func DraftOf(p Profile) Draft {
	var d Draft
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Bio != nil {
		d.Bio = *p.Bio
	}
	return d
}

// Update writes d to the profile of user id and returns the stored result.
func Update(ctx context.Context, st store.Store, id string, d Draft) (Profile, error) {
	fields := map[string]any{
		"full_name":  d.FullName,
		"bio":        d.Bio,
		"updated_at": time.Now().UTC(),
	}
	if err := st.Update(ctx, Table, id, fields); err != nil {
		return Profile{}, fmt.Errorf("updating profile[%s]: %w", id, err)
	}
	return Fetch(ctx, st, id)
}

// WelcomeName is the name used to greet the user.
func WelcomeName(p *Profile) string {
	if p == nil || p.FullName == nil || *p.FullName == "" {
		return "Student"
	}
	return *p.FullName
}

// Initial is the avatar letter: the upper-cased first letter of the full
// name, or "U".
func Initial(p *Profile) string {
	name := "U"
	if p != nil && p.FullName != nil && *p.FullName != "" {
		name = *p.FullName
	}
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "U"
}
