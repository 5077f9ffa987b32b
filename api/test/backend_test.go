package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/store/storetest"
)

const anonKey = "test-anon-key"

// userTables are only readable with a user access token.
var userTables = map[string]bool{
	"course_enrollments": true,
	"profiles":           true,
}

type account struct {
	ID       string
	Email    string
	Password string
	Token    string
}

// mockBackend mimics the hosted backend: the REST table API on top of an
// in-memory store and the password grant of the auth API.
type mockBackend struct {
	*storetest.Memory
	accounts []account
}

func newMockBackend() *mockBackend {
	return &mockBackend{Memory: storetest.NewMemory()}
}

func (m *mockBackend) addAccount(a account) {
	m.accounts = append(m.accounts, a)
}

func (m *mockBackend) handle() http.Handler {
	selectRows := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]
		if !m.authorized(r, table) {
			web.Respond(context.Background(), w, []any{}, http.StatusOK)
			return
		}

		q, err := parseQuery(table, r)
		if err != nil {
			web.Respond(context.Background(), w, map[string]string{"message": err.Error()}, http.StatusBadRequest)
			return
		}

		var rows []map[string]any
		if err := m.Select(r.Context(), q, &rows); err != nil {
			web.Respond(context.Background(), w, map[string]string{"message": err.Error()}, http.StatusServiceUnavailable)
			return
		}
		web.Respond(context.Background(), w, rows, http.StatusOK)
	})

	updateRow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		if !m.authorized(r, table) || r.Header.Get("Prefer") != "return=representation" {
			web.Respond(context.Background(), w, []any{}, http.StatusOK)
			return
		}

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			web.Respond(context.Background(), w, map[string]string{"message": err.Error()}, http.StatusBadRequest)
			return
		}

		err := m.Update(r.Context(), table, id, fields)
		switch {
		case errors.Is(err, store.ErrNotFound):
			web.Respond(context.Background(), w, []any{}, http.StatusOK)
			return
		case err != nil:
			web.Respond(context.Background(), w, map[string]string{"message": err.Error()}, http.StatusServiceUnavailable)
			return
		}

		var rows []map[string]any
		m.Select(r.Context(), store.From(table).Eq("id", id), &rows)
		web.Respond(context.Background(), w, rows, http.StatusOK)
	})

	token := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if r.Header.Get("apikey") != anonKey || r.URL.Query().Get("grant_type") != "password" {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			web.Respond(context.Background(), w, nil, http.StatusBadRequest)
			return
		}

		for _, a := range m.accounts {
			if a.Email == creds.Email && a.Password == creds.Password {
				web.Respond(context.Background(), w, map[string]any{
					"access_token": a.Token,
					"expires_in":   3600,
					"user":         map[string]string{"id": a.ID, "email": a.Email, "role": "authenticated"},
				}, http.StatusOK)
				return
			}
		}
		web.Respond(context.Background(), w, map[string]string{"error": "invalid_grant"}, http.StatusBadRequest)
	})

	logout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r := mux.NewRouter()
	r.Handle("/rest/v1/{table}", selectRows).Methods(http.MethodGet)
	r.Handle("/rest/v1/{table}", updateRow).Methods(http.MethodPatch)
	r.Handle("/auth/v1/token", token).Methods(http.MethodPost)
	r.Handle("/auth/v1/logout", logout).Methods(http.MethodPost)
	return r
}

// authorized applies the row level policy of the backend: public tables
// answer the anon key, user tables need a user token.
func (m *mockBackend) authorized(r *http.Request, table string) bool {
	if r.Header.Get("apikey") != anonKey {
		return false
	}
	if !userTables[table] {
		return true
	}
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	for _, a := range m.accounts {
		if a.Token == bearer {
			return true
		}
	}
	return false
}

func parseQuery(table string, r *http.Request) (store.Query, error) {
	q := store.From(table)
	for col, vals := range r.URL.Query() {
		if col == "select" {
			continue
		}
		for _, v := range vals {
			switch {
			case col == "order":
				name, dir, _ := strings.Cut(v, ".")
				q = q.OrderBy(name, dir == "asc")
			case strings.HasPrefix(v, "eq."):
				q = q.Eq(col, strings.TrimPrefix(v, "eq."))
			case strings.HasPrefix(v, "in.("):
				list := strings.TrimSuffix(strings.TrimPrefix(v, "in.("), ")")
				var ids []string
				for _, id := range strings.Split(list, ",") {
					ids = append(ids, strings.Trim(id, `"`))
				}
				q = q.In(col, ids)
			default:
				return store.Query{}, errors.New("unsupported filter " + col + "=" + v)
			}
		}
	}
	return q, nil
}
