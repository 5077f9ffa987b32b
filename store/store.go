// Package store defines the data-fetch contract the views consume from the
// external store: a query is a table name, a set of filters and an optional
// ordering key. Implementations live in the rest and sqlstore subpackages.
package store

import (
	"context"
	"errors"
)

// Op is a filter operator.
type Op string

const (
	OpEq Op = "eq"
	OpIn Op = "in"
)

// Filter restricts a query to rows where Column matches Value.
// For OpIn, Value must be a []string.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Order is the server-side ordering of a query.
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a read against one table.
type Query struct {
	Table   string
	Filters []Filter
	Order   *Order
}

// From starts a query against table.
func From(table string) Query {
	return Query{Table: table}
}

// Eq adds an equality filter.
func (q Query) Eq(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Op: OpEq, Value: value})
	return q
}

// In adds a membership filter.
func (q Query) In(column string, values []string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Op: OpIn, Value: values})
	return q
}

// OrderBy sets the ordering key and direction.
func (q Query) OrderBy(column string, ascending bool) Query {
	q.Order = &Order{Column: column, Ascending: ascending}
	return q
}

// Reader runs read queries. dst must be a pointer to a slice.
type Reader interface {
	Select(ctx context.Context, q Query, dst any) error
}

// Writer applies a partial update to the row identified by id.
type Writer interface {
	Update(ctx context.Context, table string, id string, fields map[string]any) error
}

// Store is the full data-fetch contract.
type Store interface {
	Reader
	Writer
}

var (
	// ErrNotFound is returned by Update when no row matches id.
	ErrNotFound = errors.New("store: no matching row")

	// ErrInvalidQuery is returned for queries an implementation cannot express.
	ErrInvalidQuery = errors.New("store: invalid query")
)

type ctxKey int

const tokenKey ctxKey = 1

// WithAccessToken attaches the signed-in user's access token so the store can
// act on the user's behalf.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// AccessToken returns the token set by WithAccessToken, if any.
func AccessToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}
