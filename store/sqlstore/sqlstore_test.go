package sqlstore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/learnportal/store"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		query    store.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "published ordered",
			query:   store.From("courses").Eq("is_published", true).OrderBy("order_index", true),
			wantSQL: "SELECT * FROM courses WHERE is_published = $1 ORDER BY order_index ASC",
			wantArgs: []any{true},
		},
		{
			name:     "descending",
			query:    store.From("blog_posts").Eq("is_published", true).OrderBy("published_at", false),
			wantSQL:  "SELECT * FROM blog_posts WHERE is_published = $1 ORDER BY published_at DESC",
			wantArgs: []any{true},
		},
		{
			name:     "membership",
			query:    store.From("courses").In("id", []string{"a", "b"}),
			wantSQL:  "SELECT * FROM courses WHERE id IN ($1,$2)",
			wantArgs: []any{"a", "b"},
		},
		{
			name:    "no filters",
			query:   store.From("categories").OrderBy("name", true),
			wantSQL: "SELECT * FROM categories ORDER BY name ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSelect(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if sql != tt.wantSQL {
				t.Fatalf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) == 0 && len(tt.wantArgs) == 0 {
				return
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildSelectRejectsBadIdentifiers(t *testing.T) {
	bad := []store.Query{
		{Table: "courses; drop table courses"},
		store.From("courses").Eq("title = title OR 1", 1),
		store.From("courses").OrderBy("order_index desc, 1", true),
		store.From("courses").Eq("id", 1).In("id", nil),
	}
	bad[3].Filters[1].Value = "not a list"

	for i, q := range bad {
		if _, _, err := buildSelect(q); !errors.Is(err, store.ErrInvalidQuery) {
			t.Errorf("query %d: expected ErrInvalidQuery, got %v", i, err)
		}
	}
}

func TestBuildUpdate(t *testing.T) {
	sql, args, err := buildUpdate("profiles", "u1", map[string]any{"full_name": "Ada", "bio": "hi"})
	if err != nil {
		t.Fatal(err)
	}

	if want := "UPDATE profiles SET bio = $1, full_name = $2 WHERE id = $3"; sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if diff := cmp.Diff([]any{"hi", "Ada", "u1"}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := buildUpdate("profiles", "u1", nil); !errors.Is(err, store.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for empty update, got %v", err)
	}
}
