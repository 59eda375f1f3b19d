package server

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// DevAddress is the fixed address of the development server.
	DevAddress = "127.0.0.1:8080"

	// FallbackBody is served when neither the request nor the 404 page
	// resolves.
	FallbackBody = "404 - File not found. Custom 404 page not found."

	notFoundPath = "404"
)

// Candidates lists the build-relative files a request path may refer to, in
// lookup order. Paths ending in .html and paths under /styles/ or /public/
// are taken as-is; anything else tries <path>.html then <path>/index.html.
func Candidates(requestPath string) []string {
	if strings.HasSuffix(requestPath, ".html") ||
		strings.HasPrefix(requestPath, "/styles/") ||
		strings.HasPrefix(requestPath, "/public/") {
		return []string{requestPath}
	}

	return []string{requestPath + ".html", requestPath + "/index.html"}
}

// Response is the outcome of a lookup.
type Response struct {
	Status      int
	ContentType string
	Body        string
	// File is the build-relative file served, empty for the fallback body.
	File string
}

// Resolver finds request paths in a build directory. It only reads.
type Resolver struct {
	Fs afero.Fs
}

// NewResolver creates a resolver rooted at buildDir. Lookups cannot escape
// the build directory.
func NewResolver(fsys afero.Fs, buildDir string) *Resolver {
	return &Resolver{Fs: afero.NewBasePathFs(fsys, buildDir)}
}

// Resolve returns the content of the first candidate file of requestPath.
func (r *Resolver) Resolve(requestPath string) (string, bool) {
	content, _, ok := r.find(requestPath)
	return content, ok
}

// find walks the candidates. A candidate that exists but is not UTF-8 text
// ends the search with nothing found.
func (r *Resolver) find(requestPath string) (string, string, bool) {
	for _, candidate := range Candidates(requestPath) {
		info, err := r.Fs.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		data, err := afero.ReadFile(r.Fs, candidate)
		if err != nil {
			continue
		}

		if !utf8.Valid(data) {
			return "", "", false
		}

		return string(data), candidate, true
	}

	return "", "", false
}

// Lookup answers a request. GET requests are resolved directly; every other
// request, and every GET that resolves to nothing, gets the built 404 page
// or, failing that, FallbackBody.
func (r *Resolver) Lookup(method, requestPath string) Response {
	if method == http.MethodGet {
		if content, file, ok := r.find(requestPath); ok {
			return Response{Status: http.StatusOK, ContentType: contentType(file), Body: content, File: file}
		}
	}

	if content, file, ok := r.find(notFoundPath); ok {
		return Response{Status: http.StatusNotFound, ContentType: contentType(file), Body: content, File: file}
	}

	return Response{Status: http.StatusNotFound, ContentType: "text/plain; charset=utf-8", Body: FallbackBody}
}

func contentType(file string) string {
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		return ct
	}

	return "text/plain; charset=utf-8"
}
