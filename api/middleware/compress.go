package middleware

import (
	"context"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/irsalhamdi/learnportal/api/web"
)

// Compress encodes response bodies with brotli or gzip, whichever the client
// prefers. Responses without a body are left alone.
func Compress() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			cw := &compressWriter{ResponseWriter: w, r: r}
			err := handler(ctx, cw, r)
			if cerr := cw.close(); err == nil {
				err = cerr
			}
			return err
		}
		return h
	}
	return m
}

type compressWriter struct {
	http.ResponseWriter
	r    *http.Request
	wc   io.WriteCloser
	bare bool
}

func (c *compressWriter) start() {
	if c.wc == nil {
		c.ResponseWriter.Header().Del("Content-Length")
		c.ResponseWriter.Header().Add("Vary", "Accept-Encoding")
		c.wc = brotli.HTTPCompressor(c.ResponseWriter, c.r)
	}
}

func (c *compressWriter) WriteHeader(code int) {
	if code == http.StatusNoContent || code == http.StatusNotModified || c.r.Method == http.MethodHead {
		c.bare = true
	} else {
		c.start()
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *compressWriter) Write(b []byte) (int, error) {
	if c.bare || (c.wc == nil && len(b) == 0) {
		return c.ResponseWriter.Write(b)
	}
	c.start()
	return c.wc.Write(b)
}

func (c *compressWriter) close() error {
	if c.wc == nil {
		return nil
	}
	return c.wc.Close()
}
