// Package rest implements the store contract against a hosted backend that
// exposes tables through a PostgREST-compatible HTTP interface.
package rest

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
	"github.com/irsalhamdi/learnportal/store"
)

// Config configures the hosted backend client.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
	Retry   httpx.RetryConfig
}

// Client is a store.Store backed by the hosted REST API.
type Client struct {
	base    *url.URL
	anonKey string
	http    *http.Client
	retry   httpx.RetryConfig
}

var _ store.Store = (*Client)(nil)

// New builds a client for the backend at cfg.URL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing store url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("store url %q must be absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		base:    u,
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
		retry:   cfg.Retry,
	}, nil
}

// Select runs q and decodes the JSON array into dst.
func (c *Client) Select(ctx context.Context, q store.Query, dst any) error {
	values, err := encodeQuery(q)
	if err != nil {
		return err
	}
	endpoint := c.tableURL(q.Table, values)

	build := func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		c.authorize(ctx, r)
		r.Header.Set("Accept", "application/json")
		return r, nil
	}

	if err := httpx.DoJSON(ctx, c.http, build, dst, c.retry); err != nil {
		return fmt.Errorf("selecting from %s: %w", q.Table, err)
	}
	return nil
}

// Update patches the row of table whose id equals id.
func (c *Client) Update(ctx context.Context, table string, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding update for %s: %w", table, err)
	}

	values := url.Values{}
	values.Set("id", "eq."+id)
	endpoint := c.tableURL(table, values)

	build := func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		c.authorize(ctx, r)
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Prefer", "return=representation")
		return r, nil
	}

	var rows []json.RawMessage
	if err := httpx.DoJSON(ctx, c.http, build, &rows, httpx.RetryConfig{}); err != nil {
		return fmt.Errorf("updating %s[%s]: %w", table, id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("updating %s[%s]: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) tableURL(table string, values url.Values) string {
	u := *c.base
	u.Path = u.Path + "/rest/v1/" + url.PathEscape(table)
	u.RawQuery = values.Encode()
	return u.String()
}

func (c *Client) authorize(ctx context.Context, r *http.Request) {
	token := store.AccessToken(ctx)
	if token == "" {
		token = c.anonKey
	}
	r.Header.Set("apikey", c.anonKey)
	r.Header.Set("Authorization", "Bearer "+token)
}

func encodeQuery(q store.Query) (url.Values, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("%w: missing table", store.ErrInvalidQuery)
	}

	values := url.Values{}
	values.Set("select", "*")

	for _, f := range q.Filters {
		switch f.Op {
		case store.OpEq:
			values.Add(f.Column, "eq."+formatValue(f.Value))
		case store.OpIn:
			list, ok := f.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("%w: in filter on %s needs []string", store.ErrInvalidQuery, f.Column)
			}
			quoted := make([]string, len(list))
			for i, v := range list {
				quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
			}
			values.Add(f.Column, "in.("+strings.Join(quoted, ",")+")")
		default:
			return nil, fmt.Errorf("%w: unsupported operator %q", store.ErrInvalidQuery, f.Op)
		}
	}

	if q.Order != nil {
		dir := "desc"
		if q.Order.Ascending {
			dir = "asc"
		}
		values.Set("order", q.Order.Column+"."+dir)
	}

	return values, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
