package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/irsalhamdi/learnportal/httpx"
)

// User is the identity returned by the hosted auth API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a signed-in session issued by the hosted auth API.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// Authenticator is the user-session contract of the hosted backend.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ExchangeIDToken(ctx context.Context, provider, idToken string) (Session, error)
}

type ClientConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client talks to the hosted auth API under {url}/auth/v1.
type Client struct {
	base    string
	anonKey string
	http    *http.Client
}

var _ Authenticator = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing auth url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("auth url %q must be absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		base:    u.String() + "/auth/v1",
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.post(ctx, "/token?grant_type=password", "", body, &s); err != nil {
		return Session{}, fmt.Errorf("signing in: %w", err)
	}
	return s, nil
}

func (c *Client) ExchangeIDToken(ctx context.Context, provider, idToken string) (Session, error) {
	body := map[string]string{"provider": provider, "id_token": idToken}
	var s Session
	if err := c.post(ctx, "/token?grant_type=id_token", "", body, &s); err != nil {
		return Session{}, fmt.Errorf("exchanging %s id token: %w", provider, err)
	}
	return s, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.post(ctx, "/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, token string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	if token == "" {
		token = c.anonKey
	}

	build := func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("apikey", c.anonKey)
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}

	return httpx.DoJSON(ctx, c.http, build, out, httpx.RetryConfig{})
}
