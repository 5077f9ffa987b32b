package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/store/storetest"
)

func str(s string) *string { return &s }

func TestEditorTransitions(t *testing.T) {
	p := Profile{ID: "u1", FullName: str("Ada Lovelace")}

	var e Editor
	if _, err := e.BeginSave(); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("save while viewing: %v", err)
	}
	if _, err := e.SetDraft(Draft{}); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("draft while viewing: %v", err)
	}

	e, err := e.Edit(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Editor{Mode: Editing, Draft: Draft{FullName: "Ada Lovelace"}}, e); diff != "" {
		t.Fatalf("edit (-want +got):\n%s", diff)
	}

	e, _ = e.SetDraft(Draft{FullName: "Ada", Bio: "Analyst"})
	e, err = e.BeginSave()
	if err != nil || e.Mode != Saving {
		t.Fatalf("begin save: %v %+v", err, e)
	}
	if _, err := e.BeginSave(); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("second save: %v", err)
	}
	if _, err := e.Edit(p); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("edit while saving: %v", err)
	}

	failed := e.SaveFailed("could not save profile")
	want := Editor{Mode: Editing, Draft: Draft{FullName: "Ada", Bio: "Analyst"}, Error: "could not save profile"}
	if diff := cmp.Diff(want, failed); diff != "" {
		t.Fatalf("failure (-want +got):\n%s", diff)
	}

	if got := e.Saved(); got.Mode != Viewing || got.Error != "" {
		t.Fatalf("saved: %+v", got)
	}
}

func TestDraftOfNullFields(t *testing.T) {
	if diff := cmp.Diff(Draft{}, DraftOf(Profile{ID: "u1"})); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWelcomeAndInitial(t *testing.T) {
	tests := []struct {
		p       *Profile
		welcome string
		initial string
	}{
		{nil, "Student", "U"},
		{&Profile{}, "Student", "U"},
		{&Profile{FullName: str("")}, "Student", "U"},
		{&Profile{FullName: str("grace hopper")}, "grace hopper", "G"},
		{&Profile{FullName: str("élodie")}, "élodie", "É"},
	}
	for _, tt := range tests {
		if got := WelcomeName(tt.p); got != tt.welcome {
			t.Errorf("WelcomeName = %q, want %q", got, tt.welcome)
		}
		if got := Initial(tt.p); got != tt.initial {
			t.Errorf("Initial = %q, want %q", got, tt.initial)
		}
	}
}

func TestFetchAndUpdate(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Put(Table, Profile{ID: "u1", Email: "ada@example.com", Role: RoleStudent})
	ctx := context.Background()

	if _, err := Fetch(ctx, mem, "u2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := Update(ctx, mem, "u1", Draft{FullName: "Ada", Bio: "Analyst"})
	if err != nil {
		t.Fatal(err)
	}
	if p.FullName == nil || *p.FullName != "Ada" || p.Bio == nil || *p.Bio != "Analyst" {
		t.Fatalf("update not applied: %+v", p)
	}

	ups := mem.UpdateLog()
	if len(ups) != 1 || ups[0].Table != Table || ups[0].ID != "u1" {
		t.Fatalf("unexpected updates %+v", ups)
	}
}
