// Package sqlstore implements the store contract directly against the
// backend's Postgres database.
package sqlstore

import (
	"context"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/jmoiron/sqlx"
)

var identRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is a store.Store over a sqlx connection pool.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Select runs q and scans every row into dst, which must point to a slice of
// db-tagged structs.
func (s *Store) Select(ctx context.Context, q store.Query, dst any) error {
	query, args, err := buildSelect(q)
	if err != nil {
		return err
	}

	if err := sqlx.SelectContext(ctx, s.db, dst, query, args...); err != nil {
		return fmt.Errorf("selecting from %s: %w", q.Table, err)
	}
	return nil
}

// Update sets fields on the row of table whose id equals id.
func (s *Store) Update(ctx context.Context, table string, id string, fields map[string]any) error {
	query, args, err := buildUpdate(table, id, fields)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s[%s]: %w", table, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of %s[%s]: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("updating %s[%s]: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func buildSelect(q store.Query) (string, []any, error) {
	if !identRE.MatchString(q.Table) {
		return "", nil, fmt.Errorf("%w: bad table %q", store.ErrInvalidQuery, q.Table)
	}

	b := psql.Select("*").From(q.Table)

	for _, f := range q.Filters {
		if !identRE.MatchString(f.Column) {
			return "", nil, fmt.Errorf("%w: bad column %q", store.ErrInvalidQuery, f.Column)
		}

		switch f.Op {
		case store.OpEq:
			b = b.Where(sq.Eq{f.Column: f.Value})
		case store.OpIn:
			list, ok := f.Value.([]string)
			if !ok {
				return "", nil, fmt.Errorf("%w: in filter on %s needs []string", store.ErrInvalidQuery, f.Column)
			}
			b = b.Where(sq.Eq{f.Column: list})
		default:
			return "", nil, fmt.Errorf("%w: unsupported operator %q", store.ErrInvalidQuery, f.Op)
		}
	}

	if q.Order != nil {
		if !identRE.MatchString(q.Order.Column) {
			return "", nil, fmt.Errorf("%w: bad order column %q", store.ErrInvalidQuery, q.Order.Column)
		}
		dir := "DESC"
		if q.Order.Ascending {
			dir = "ASC"
		}
		b = b.OrderBy(q.Order.Column + " " + dir)
	}

	return b.ToSql()
}

func buildUpdate(table string, id string, fields map[string]any) (string, []any, error) {
	if !identRE.MatchString(table) {
		return "", nil, fmt.Errorf("%w: bad table %q", store.ErrInvalidQuery, table)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: empty update", store.ErrInvalidQuery)
	}
	for col := range fields {
		if !identRE.MatchString(col) {
			return "", nil, fmt.Errorf("%w: bad column %q", store.ErrInvalidQuery, col)
		}
	}

	return psql.Update(table).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
}
