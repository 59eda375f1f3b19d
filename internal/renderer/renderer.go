// Package renderer turns a named template and a data value into HTML.
//
// Every call builds a fresh template set from the full template map, so each
// template can be rendered directly or pulled into another one with
// {{template "name" .}}. A few inbuilt partials are always present:
//
//	URL         base URL of the site (the dev address in development mode)
//	DEV_SCRIPT  console warning script, emitted only in development mode
//	LINK        anchor prefixed with the base URL, called with (dict "to" .. "text" ..)
//	STYLE       stylesheet link for (dict "name" ..)
//
// Templates use html/template syntax with the sprig function library.
package renderer

import (
	"bytes"
	"context"
	"html/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/conneroisu/stencil/internal/errors"
	"github.com/conneroisu/stencil/internal/filemap"
	"github.com/conneroisu/stencil/internal/logging"
	"github.com/conneroisu/stencil/internal/merge"
)

// DevURL is the base URL every page links against in development mode.
const DevURL = "http://127.0.0.1:8080"

const devScript = `<script>console.warn("This document is in *development mode*");</script>`

// Options control the inbuilt partials.
type Options struct {
	Dev        bool
	DevWarning bool
	// URL is the production base URL, without a trailing slash.
	URL string
}

// BaseURL returns the URL the URL partial expands to.
func (o Options) BaseURL() string {
	if o.Dev {
		return DevURL
	}

	return o.URL
}

type partial struct {
	name   string
	source string
}

func (o Options) inbuilt() []partial {
	script := ""
	if o.Dev && o.DevWarning {
		script = devScript
	}

	return []partial{
		{name: "URL", source: o.BaseURL()},
		{name: "DEV_SCRIPT", source: script},
		{name: "LINK", source: `<a href="{{template "URL"}}/{{.to}}">{{.text}}</a>`},
		{name: "STYLE", source: `<link rel="stylesheet" href="{{template "URL"}}/styles/{{.name}}.css" />`},
	}
}

// Renderer renders templates from a fixed template map.
type Renderer struct {
	templates filemap.Map
	opts      Options
	globals   any
	logger    logging.Logger
}

// New creates a renderer over templates. The map is not copied and must not
// change while the renderer is in use.
func New(templates filemap.Map, opts Options, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Renderer{
		templates: templates,
		opts:      opts,
		logger:    logger.WithComponent("renderer"),
	}
}

// SetGlobals replaces the data merged into every render. nil disables the
// merge.
func (r *Renderer) SetGlobals(v any) {
	r.globals = v
}

// Globals returns the current globals value.
func (r *Renderer) Globals() any {
	return r.globals
}

// Has reports whether a template with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes the named template against data merged with the globals.
// Globals win over page data on shared keys.
func (r *Renderer) Render(name string, data any) (string, error) {
	if !r.Has(name) {
		return "", errors.ErrTemplateNotFound(name)
	}

	set, err := r.templateSet()
	if err != nil {
		return "", err
	}

	merged := data
	if r.globals != nil {
		base, err := merge.Normalize(data)
		if err != nil {
			return "", errors.ErrRender(name, err)
		}
		merged = merge.Merge(base, r.globals)
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, merged); err != nil {
		return "", errors.ErrRender(name, err)
	}

	r.logger.Debug(context.Background(), "Rendered template", "name", name, "bytes", buf.Len())

	return buf.String(), nil
}

// templateSet registers every user template, then the inbuilt partials, in
// a fresh set.
func (r *Renderer) templateSet() (*template.Template, error) {
	root := template.New("").Funcs(sprig.FuncMap())

	for _, name := range r.templates.Names() {
		if _, err := root.New(name).Parse(r.templates[name]); err != nil {
			return nil, errors.ErrPartialRegistration(name, false, err)
		}
	}

	for _, p := range r.opts.inbuilt() {
		if _, err := root.New(p.name).Parse(p.source); err != nil {
			return nil, errors.ErrPartialRegistration(p.name, true, err)
		}
	}

	return root, nil
}
