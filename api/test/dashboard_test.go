package test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/learnportal/core/auth"
	"github.com/irsalhamdi/learnportal/core/course"
	"github.com/irsalhamdi/learnportal/core/curriculum"
	"github.com/irsalhamdi/learnportal/core/dashboard"
	"github.com/irsalhamdi/learnportal/core/profile"
)

type editorBody struct {
	Editor  profile.Editor   `json:"editor"`
	Profile *profile.Profile `json:"profile"`
	Error   string           `json:"error"`
}

func seedDashboard(env *TestEnv) {
	env.Backend.Put(profile.Table, profile.Profile{ID: env.UserID, Email: env.UserEmail, FullName: str("ada lovelace"), Role: profile.RoleStudent})
	env.Backend.Put(course.Table,
		course.Course{ID: "c1", Title: "Docker Deep Dive", IsPublished: true},
		course.Course{ID: "c2", Title: "Terraform", IsPublished: true},
		course.Course{ID: "c3", Title: "Kubernetes", IsPublished: true},
	)

	enrolled := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	done := enrolled.Add(72 * time.Hour)
	env.Backend.Put(dashboard.Table,
		dashboard.Enrollment{ID: "e1", UserID: env.UserID, CourseID: "c1", EnrolledAt: enrolled.Add(2 * time.Hour), CompletedAt: &done, ProgressPercentage: 100},
		dashboard.Enrollment{ID: "e2", UserID: env.UserID, CourseID: "c2", EnrolledAt: enrolled.Add(time.Hour), ProgressPercentage: 50},
		dashboard.Enrollment{ID: "e3", UserID: env.UserID, CourseID: "c3", EnrolledAt: enrolled, ProgressPercentage: 0},
		dashboard.Enrollment{ID: "other", UserID: "someone-else", CourseID: "c1", EnrolledAt: enrolled, ProgressPercentage: 10},
	)
}

func TestDashboard(t *testing.T) {
	env, err := NewTestEnv(t)
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	seedDashboard(env)

	var anon dashboard.View
	env.get(t, "/dashboard", &anon)
	if anon.SignedIn || anon.Prompt != "Please sign in to view your dashboard" {
		t.Fatalf("anonymous dashboard %+v", anon)
	}

	if err := Login(env.Server, env.UserEmail, env.UserPass); err != nil {
		t.Fatal(err)
	}
	defer Logout(env.Server)

	var v dashboard.View
	if code := env.get(t, "/dashboard", &v); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}

	want := dashboard.Stats{Enrolled: 3, Completed: 1, InProgress: 1, Average: 50, AverageLabel: "50%"}
	if diff := cmp.Diff(&want, v.Stats); diff != "" {
		t.Fatalf("stats (-want +got):\n%s", diff)
	}

	var titles []string
	for _, e := range v.Enrollments {
		titles = append(titles, e.Title)
	}
	if diff := cmp.Diff([]string{"Docker Deep Dive", "Terraform", "Kubernetes"}, titles); diff != "" {
		t.Fatalf("enrollments (-want +got):\n%s", diff)
	}
	if !v.Enrollments[0].Completed || v.Enrollments[0].EnrolledLabel != "2/1/2024" {
		t.Fatalf("unexpected first card %+v", v.Enrollments[0])
	}
	if v.Welcome != "ada lovelace" || v.Initial != "A" {
		t.Fatalf("welcome %q initial %q", v.Welcome, v.Initial)
	}

	var id auth.Identity
	env.get(t, "/session", &id)
	if id.User == nil || id.User.ID != env.UserID || id.Profile == nil {
		t.Fatalf("session identity %+v", id)
	}
}

func TestProfileEditor(t *testing.T) {
	env, err := NewTestEnv(t)
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}
	seedDashboard(env)

	if code := env.do(t, http.MethodPost, "/dashboard/profile/edit", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous edit: expected 401, got %d", code)
	}

	if err := Login(env.Server, env.UserEmail, env.UserPass); err != nil {
		t.Fatal(err)
	}
	defer Logout(env.Server)

	var body editorBody
	if code := env.do(t, http.MethodPost, "/dashboard/profile/save", nil, nil); code != http.StatusConflict {
		t.Fatalf("save while viewing: expected 409, got %d", code)
	}

	env.do(t, http.MethodPost, "/dashboard/profile/edit", nil, &body)
	if body.Editor.Mode != profile.Editing || body.Editor.Draft.FullName != "ada lovelace" || body.Editor.Draft.Bio != "" {
		t.Fatalf("unexpected editor %+v", body.Editor)
	}

	draft := profile.Draft{FullName: "Ada Lovelace", Bio: "Analyst"}
	if code := env.do(t, http.MethodPut, "/dashboard/profile/draft", draft, &body); code != http.StatusOK {
		t.Fatalf("draft: status %d", code)
	}

	t.Run("failed save returns to editing", func(t *testing.T) {
		env.Backend.Fail(profile.Table, errors.New("write rejected"))
		defer env.Backend.Fail(profile.Table, nil)

		var failed editorBody
		if code := env.do(t, http.MethodPost, "/dashboard/profile/save", nil, &failed); code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", code)
		}
		if failed.Editor.Mode != profile.Editing || failed.Error == "" {
			t.Fatalf("unexpected editor after failure %+v", failed)
		}
		if failed.Editor.Draft != draft {
			t.Fatalf("draft lost: %+v", failed.Editor.Draft)
		}
	})

	var saved editorBody
	if code := env.do(t, http.MethodPost, "/dashboard/profile/save", nil, &saved); code != http.StatusOK {
		t.Fatalf("save: status %d", code)
	}
	if saved.Editor.Mode != profile.Viewing || saved.Profile == nil || *saved.Profile.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected save result %+v", saved)
	}

	var v dashboard.View
	env.get(t, "/dashboard", &v)
	if v.Welcome != "Ada Lovelace" || v.Profile.Bio == nil || *v.Profile.Bio != "Analyst" {
		t.Fatalf("profile not updated: %+v", v.Profile)
	}
}

func TestCurriculumToggle(t *testing.T) {
	env, err := NewTestEnv(t)
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	var v curriculum.View
	env.get(t, "/curriculum", &v)
	if diff := cmp.Diff([]string{"1"}, v.Expanded); diff != "" {
		t.Fatalf("initial (-want +got):\n%s", diff)
	}
	if v.Totals.Modules != len(curriculum.Sample()) {
		t.Fatalf("totals %+v", v.Totals)
	}

	env.do(t, http.MethodPost, "/curriculum/modules/2/toggle", nil, &v)
	if diff := cmp.Diff([]string{"1", "2"}, v.Expanded); diff != "" {
		t.Fatalf("after toggling 2 (-want +got):\n%s", diff)
	}

	env.do(t, http.MethodPost, "/curriculum/modules/1/toggle", nil, &v)
	if diff := cmp.Diff([]string{"2"}, v.Expanded); diff != "" {
		t.Fatalf("after toggling 1 (-want +got):\n%s", diff)
	}

	env.get(t, "/curriculum", &v)
	if diff := cmp.Diff([]string{"2"}, v.Expanded); diff != "" {
		t.Fatalf("expanded set not kept in session (-want +got):\n%s", diff)
	}

	if code := env.do(t, http.MethodPost, "/curriculum/modules/99/toggle", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown module: expected 404, got %d", code)
	}
}
