package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/learnportal/httpx"
	"github.com/irsalhamdi/learnportal/store"
)

type row struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestSelectEncodesQuery(t *testing.T) {
	var got http.Header
	var query map[string][]string

	r := mux.NewRouter()
	r.HandleFunc("/rest/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		query = r.URL.Query()
		json.NewEncoder(w).Encode([]row{{ID: "1", Title: "Docker"}, {ID: "2", Title: "Kubernetes"}})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, AnonKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}

	q := store.From("courses").
		Eq("is_published", true).
		In("id", []string{"1", "2"}).
		OrderBy("order_index", true)

	var rows []row
	if err := c.Select(context.Background(), q, &rows); err != nil {
		t.Fatal(err)
	}

	wantQuery := map[string][]string{
		"select":       {"*"},
		"is_published": {"eq.true"},
		"id":           {`in.("1","2")`},
		"order":        {"order_index.asc"},
	}
	if diff := cmp.Diff(wantQuery, query); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}

	if got.Get("apikey") != "anon" || got.Get("Authorization") != "Bearer anon" {
		t.Fatalf("unexpected auth headers: %v", got)
	}

	if diff := cmp.Diff([]row{{"1", "Docker"}, {"2", "Kubernetes"}}, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectUsesUserToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, AnonKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := store.WithAccessToken(context.Background(), "user-token")
	var rows []row
	if err := c.Select(ctx, store.From("course_enrollments").OrderBy("enrolled_at", false), &rows); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer user-token" {
		t.Fatalf("expected user token, got %q", auth)
	}
}

func TestSelectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, AnonKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}

	var rows []row
	err = c.Select(context.Background(), store.From("blog_posts"), &rows)
	if httpx.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected upstream 500, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	var body map[string]any
	var id string

	r := mux.NewRouter()
	r.HandleFunc("/rest/v1/profiles", func(w http.ResponseWriter, r *http.Request) {
		id = r.URL.Query().Get("id")
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		if id == "eq.missing" {
			w.Write([]byte("[]"))
			return
		}
		w.Write([]byte(`[{"id":"u1"}]`))
	}).Methods(http.MethodPatch)

	srv := httptest.NewServer(r)
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, AnonKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}

	fields := map[string]any{"full_name": "Ada", "bio": "hi"}
	if err := c.Update(context.Background(), "profiles", "u1", fields); err != nil {
		t.Fatal(err)
	}
	if id != "eq.u1" {
		t.Fatalf("unexpected id filter %q", id)
	}
	if diff := cmp.Diff(fields, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	err = c.Update(context.Background(), "profiles", "missing", fields)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvalidQuery(t *testing.T) {
	c, err := New(Config{URL: "http://localhost", AnonKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}

	var rows []row
	err = c.Select(context.Background(), store.Query{}, &rows)
	if !errors.Is(err, store.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}

	if _, err := New(Config{URL: "not a url"}); err == nil {
		t.Fatal("expected error for relative url")
	}
}
