// Package weberr decorates errors with the HTTP response and the log fields
// the error middleware should use for them.
package weberr

import "errors"

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

// Response returns the body and status of the outermost response attached
// to err.
func Response(err error) (body interface{}, status int, ok bool) {
	var re *responseError
	if !errors.As(err, &re) {
		return nil, 0, false
	}
	return re.body, re.status, true
}

// Status is the HTTP status attached to err, or 0.
func Status(err error) int {
	_, code, _ := Response(err)
	return code
}

// Fields merges every field set attached along err's chain. When a key is
// set more than once the outermost value wins.
func Fields(err error) (map[string]interface{}, bool) {
	var out map[string]interface{}
	for ; err != nil; err = errors.Unwrap(err) {
		fe, ok := err.(*fieldsError)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]interface{}, len(fe.fields))
		}
		for k, v := range fe.fields {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out, out != nil
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Unwrap() error { return e.error }
