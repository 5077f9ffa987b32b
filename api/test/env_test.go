package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/irsalhamdi/learnportal/api"
	"github.com/irsalhamdi/learnportal/core/auth"
	"github.com/irsalhamdi/learnportal/core/curriculum"
	"github.com/irsalhamdi/learnportal/core/resource"
	"github.com/irsalhamdi/learnportal/session"
	"github.com/irsalhamdi/learnportal/store/rest"
	"github.com/sirupsen/logrus"
)

type TestEnv struct {
	*httptest.Server
	Backend *mockBackend

	UserID    string
	UserEmail string
	UserPass  string
}

func NewTestEnv(t *testing.T) (*TestEnv, error) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	backend := newMockBackend()
	user := account{ID: "11111111-2222-4333-8444-555555555555", Email: "ada@example.com", Password: "s3cret", Token: "ada-token"}
	backend.addAccount(user)

	bsrv := httptest.NewServer(backend.handle())
	t.Cleanup(bsrv.Close)

	st, err := rest.New(rest.Config{URL: bsrv.URL, AnonKey: anonKey, Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("creating rest store: %w", err)
	}
	authn, err := auth.NewClient(auth.ClientConfig{URL: bsrv.URL, AnonKey: anonKey})
	if err != nil {
		return nil, fmt.Errorf("creating auth client: %w", err)
	}

	mux := api.APIMux(api.APIConfig{
		Log:        log,
		Store:      st,
		Session:    session.NewManager(session.Config{Lifetime: time.Hour}, nil),
		Auth:       authn,
		Providers:  map[string]auth.Provider{},
		Resources:  resource.Default(),
		Curriculum: curriculum.Sample(),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	srv.Client().Jar = jar

	return &TestEnv{
		Server:    srv,
		Backend:   backend,
		UserID:    user.ID,
		UserEmail: user.Email,
		UserPass:  user.Password,
	}, nil
}

func Login(srv *httptest.Server, email, password string) error {
	body, err := json.Marshal(auth.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	w, err := srv.Client().Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status code %s", w.Status)
	}
	return nil
}

func Logout(srv *httptest.Server) error {
	w, err := srv.Client().Post(srv.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout failed: status code %s", w.Status)
	}
	return nil
}

// get decodes the JSON answer of a GET into v and returns the status code.
func (env *TestEnv) get(t *testing.T, path string, v any) int {
	t.Helper()
	return env.do(t, http.MethodGet, path, nil, v)
}

func (env *TestEnv) do(t *testing.T, method, path string, body any, v any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := env.Client().Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if v != nil {
		if err := json.NewDecoder(w.Body).Decode(v); err != nil {
			t.Fatalf("%s %s: decoding body: %v", method, path, err)
		}
	}
	return w.StatusCode
}
