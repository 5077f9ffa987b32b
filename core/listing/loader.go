package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/irsalhamdi/learnportal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle of one loaded record set.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "loading":
		*s = Loading
	case "ready":
		*s = Ready
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("unknown state %q", b)
	}
	return nil
}

// Result is a record set together with how its load ended.
type Result[T any] struct {
	State   State
	Records []T
	Err     error
}

// Slot is one named query whose outcome the Loader fills in.
type Slot interface {
	name() string
	query() store.Query
	load(ctx context.Context, r store.Reader) error
	fail(err error)
	failed() bool
}

// Source is a Slot holding records of type T.
type Source[T any] struct {
	Name  string
	Query store.Query

	mu     sync.Mutex
	result Result[T]
}

// NewSource creates a slot named name that will run q.
func NewSource[T any](name string, q store.Query) *Source[T] {
	return &Source[T]{Name: name, Query: q, result: Result[T]{Records: []T{}}}
}

// Result returns the outcome of the last load.
func (s *Source[T]) Result() Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Records returns the loaded records, empty when loading failed.
func (s *Source[T]) Records() []T {
	return s.Result().Records
}

func (s *Source[T]) name() string       { return s.Name }
func (s *Source[T]) query() store.Query { return s.Query }

func (s *Source[T]) load(ctx context.Context, r store.Reader) error {
	var recs []T
	if err := r.Select(ctx, s.Query, &recs); err != nil {
		return err
	}

	// Results that arrive after the owning request ended are dropped.
	if err := ctx.Err(); err != nil {
		return err
	}

	if recs == nil {
		recs = []T{}
	}

	s.mu.Lock()
	s.result = Result[T]{State: Ready, Records: recs}
	s.mu.Unlock()
	return nil
}

func (s *Source[T]) failed() bool { return s.Result().State == Failed }

func (s *Source[T]) fail(err error) {
	s.mu.Lock()
	s.result = Result[T]{State: Failed, Records: []T{}, Err: err}
	s.mu.Unlock()
}

// Outcome summarizes a Load call for the presenter.
type Outcome struct {
	State  State             `json:"state"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Merge combines the outcomes of two loads of the same view.
func (o Outcome) Merge(other Outcome) Outcome {
	out := Outcome{State: Ready}
	for _, x := range []Outcome{o, other} {
		if x.State == Failed {
			out.State = Failed
		}
		for k, v := range x.Errors {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[k] = v
		}
	}
	return out
}

// Tracker is the loading flag of a view. It is true only while a Load call
// is in flight.
type Tracker struct {
	mu      sync.Mutex
	loading bool
	loads   int
}

func (t *Tracker) set(v bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.loading = v
	if v {
		t.loads++
	}
	t.mu.Unlock()
}

// Loading reports whether a load is in flight.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Loads reports how many loads have started.
func (t *Tracker) Loads() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loads
}

// Loader runs the queries of a view concurrently.
type Loader struct {
	Store   store.Reader
	Log     logrus.FieldLogger
	Tracker *Tracker
}

// Load runs every slot in parallel and returns once all of them settled.
// A failing slot is logged and left empty; it never cancels its siblings.
func (l *Loader) Load(ctx context.Context, slots ...Slot) Outcome {
	l.Tracker.set(true)
	defer l.Tracker.set(false)

	start := time.Now()

	var g errgroup.Group
	for _, s := range slots {
		s := s
		g.Go(func() error {
			err := s.load(ctx, l.Store)
			if err == nil {
				return nil
			}

			s.fail(err)
			l.log().WithFields(logrus.Fields{
				"slot":  s.name(),
				"table": s.query().Table,
				"error": err,
			}).Error("loading records")
			return nil
		})
	}
	g.Wait()

	out := Outcome{State: Ready}
	for _, s := range slots {
		if s.failed() {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.State = Failed
			out.Errors[s.name()] = fmt.Sprintf("could not load %s", s.name())
		}
	}

	l.log().WithFields(logrus.Fields{
		"slots": len(slots),
		"state": out.State.String(),
		"since": time.Since(start).Nanoseconds(),
	}).Debug("loaded")

	return out
}

func (l *Loader) log() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}
