package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHTTP(t *testing.T) {
	s := New(newTestResolver(t, map[string]string{
		"index.html":      "<h1>home</h1>",
		"404.html":        "<h1>lost</h1>",
		"styles/main.css": "body{}",
	}), nil)

	tests := []struct {
		name        string
		method      string
		path        string
		status      int
		body        string
		contentType string
	}{
		{name: "index", method: http.MethodGet, path: "/", status: http.StatusOK, body: "<h1>home</h1>", contentType: "text/html"},
		{name: "stylesheet", method: http.MethodGet, path: "/styles/main.css", status: http.StatusOK, body: "body{}", contentType: "text/css"},
		{name: "unknown path", method: http.MethodGet, path: "/nope", status: http.StatusNotFound, body: "<h1>lost</h1>", contentType: "text/html"},
		{name: "post", method: http.MethodPost, path: "/", status: http.StatusNotFound, body: "<h1>lost</h1>", contentType: "text/html"},
		{name: "head has no body", method: http.MethodHead, path: "/", status: http.StatusNotFound, body: "", contentType: "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			s.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, string(body))
			assert.Contains(t, resp.Header.Get("Content-Type"), tt.contentType)
		})
	}
}

func TestServeHTTPFallback(t *testing.T) {
	s := New(newTestResolver(t, nil), nil)

	w := httptest.NewRecorder()
	s.withLogging(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, FallbackBody, w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestNewDefaultsToDevAddress(t *testing.T) {
	s := New(newTestResolver(t, nil), nil)
	assert.Equal(t, DevAddress, s.Addr)
}
