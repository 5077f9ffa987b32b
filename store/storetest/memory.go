// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/irsalhamdi/learnportal/store"
)

type row map[string]any

// Memory keeps tables as JSON-shaped rows and evaluates queries the way the
// hosted backend does: equality and membership filters, then a stable sort
// with NULLs last when ascending and first when descending.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]row
	fail   map[string]error
	gates  map[string]chan struct{}

	selects []store.Query
	updates []Update
}

// Update records a call to Memory.Update.
type Update struct {
	Table  string
	ID     string
	Fields map[string]any
}

var _ store.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string][]row),
		fail:   make(map[string]error),
		gates:  make(map[string]chan struct{}),
	}
}

// Put appends records to table. Records are converted through JSON.
func (m *Memory) Put(table string, records ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			panic(fmt.Sprintf("storetest: marshal %T: %v", rec, err))
		}
		var r row
		if err := json.Unmarshal(b, &r); err != nil {
			panic(fmt.Sprintf("storetest: %T is not an object: %v", rec, err))
		}
		m.tables[table] = append(m.tables[table], r)
	}
}

// Fail makes every operation on table return err. A nil err clears it.
func (m *Memory) Fail(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, table)
		return
	}
	m.fail[table] = err
}

// Gate blocks selects on table until the returned channel is closed.
func (m *Memory) Gate(table string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.gates[table] = ch
	return ch
}

// SelectLog returns the queries issued so far.
func (m *Memory) SelectLog() []store.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Query(nil), m.selects...)
}

// UpdateLog returns the updates issued so far.
func (m *Memory) UpdateLog() []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Update(nil), m.updates...)
}

func (m *Memory) Select(ctx context.Context, q store.Query, dst any) error {
	m.mu.Lock()
	m.selects = append(m.selects, q)
	gate := m.gates[q.Table]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	if err := m.fail[q.Table]; err != nil {
		m.mu.Unlock()
		return err
	}

	var out []row
	for _, r := range m.tables[q.Table] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		if ok {
			out = append(out, r)
		}
	}
	m.mu.Unlock()

	if q.Order != nil {
		col, asc := q.Order.Column, q.Order.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i][col], out[j][col], asc)
		})
	}

	if out == nil {
		out = []row{}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (m *Memory) Update(ctx context.Context, table string, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates = append(m.updates, Update{Table: table, ID: id, Fields: fields})

	if err := m.fail[table]; err != nil {
		return err
	}

	for _, r := range m.tables[table] {
		if fmt.Sprint(r["id"]) != id {
			continue
		}
		for k, v := range fields {
			r[k] = v
		}
		return nil
	}
	return fmt.Errorf("updating %s[%s]: %w", table, id, store.ErrNotFound)
}

func matches(r row, filters []store.Filter) (bool, error) {
	for _, f := range filters {
		v := r[f.Column]
		switch f.Op {
		case store.OpEq:
			if v == nil || fmt.Sprint(v) != fmt.Sprint(f.Value) {
				return false, nil
			}
		case store.OpIn:
			list, ok := f.Value.([]string)
			if !ok {
				return false, fmt.Errorf("%w: in filter needs []string", store.ErrInvalidQuery)
			}
			found := false
			for _, want := range list {
				if v != nil && fmt.Sprint(v) == want {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		default:
			return false, fmt.Errorf("%w: unsupported operator %q", store.ErrInvalidQuery, f.Op)
		}
	}
	return true, nil
}

func less(a, b any, asc bool) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return !asc
	case b == nil:
		return asc
	}

	var lt, gt bool
	switch x := a.(type) {
	case float64:
		y, _ := b.(float64)
		lt, gt = x < y, x > y
	case string:
		y, _ := b.(string)
		lt, gt = x < y, x > y
	case bool:
		y, _ := b.(bool)
		lt, gt = !x && y, x && !y
	}
	if asc {
		return lt
	}
	return gt
}
