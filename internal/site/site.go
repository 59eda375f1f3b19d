// Package site is the build session: it owns the configuration, the loaded
// templates and styles, the globals value and the registered pages, and
// hands them to the writer in one batch.
//
// A typical production build:
//
//	s, err := site.New(cfg, false)
//	...
//	err = s.Index("index", map[string]any{"name": "Sam"})
//	...
//	result, err := s.Finish(ctx)
package site

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/stencil/internal/build"
	"github.com/conneroisu/stencil/internal/config"
	"github.com/conneroisu/stencil/internal/errors"
	"github.com/conneroisu/stencil/internal/filemap"
	"github.com/conneroisu/stencil/internal/logging"
	"github.com/conneroisu/stencil/internal/merge"
	"github.com/conneroisu/stencil/internal/renderer"
	"github.com/conneroisu/stencil/internal/server"
)

const shutdownTimeout = 5 * time.Second

// Site is one build session. It is not safe for concurrent use.
type Site struct {
	cfg    config.Config
	dev    bool
	fs     afero.Fs
	logger logging.Logger

	templates filemap.Map
	styles    filemap.Map
	renderer  *renderer.Renderer
	pages     *build.Registry

	compiler     build.StyleCompiler
	cssMinifier  build.CSSMinifier
	htmlMinifier build.HTMLMinifier
	copier       build.AssetCopier
	serverAddr   string
}

// Option configures a Site.
type Option func(*Site)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Site) { s.logger = logger }
}

// WithFs sets the filesystem all sources are read from and output written to.
func WithFs(fsys afero.Fs) Option {
	return func(s *Site) { s.fs = fsys }
}

func WithStyleCompiler(c build.StyleCompiler) Option {
	return func(s *Site) { s.compiler = c }
}

func WithCSSMinifier(m build.CSSMinifier) Option {
	return func(s *Site) { s.cssMinifier = m }
}

func WithHTMLMinifier(m build.HTMLMinifier) Option {
	return func(s *Site) { s.htmlMinifier = m }
}

func WithAssetCopier(c build.AssetCopier) Option {
	return func(s *Site) { s.copier = c }
}

// WithServerAddress overrides server.DevAddress for Serve.
func WithServerAddress(addr string) Option {
	return func(s *Site) { s.serverAddr = addr }
}

// New opens a session and clears the build directory. In development mode
// the build directory is config.DevBuildDir.
func New(cfg config.Config, dev bool, opts ...Option) (*Site, error) {
	s, err := Open(cfg, dev, opts...)
	if err != nil {
		return nil, err
	}

	if err := build.ResetOutput(s.fs, s.BuildDir()); err != nil {
		return nil, err
	}

	return s, nil
}

// Open validates the source directories and loads templates, styles and
// globals without touching the build directory.
func Open(cfg config.Config, dev bool, opts ...Option) (*Site, error) {
	if dev {
		cfg = cfg.ForDevelopment()
	}

	s := &Site{
		cfg:        cfg,
		dev:        dev,
		fs:         afero.NewOsFs(),
		logger:     logging.NewNopLogger(),
		pages:      build.NewRegistry(),
		serverAddr: server.DevAddress,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("site")

	if s.compiler == nil {
		s.compiler = build.NewDartSassCompiler("", s.logger)
	}
	if s.cssMinifier == nil {
		s.cssMinifier = build.ESBuildCSSMinifier{}
	}
	if s.htmlMinifier == nil {
		s.htmlMinifier = build.NewHTMLMinifier()
	}
	if s.copier == nil {
		s.copier = build.FsCopier{Fs: s.fs}
	}

	if err := build.ValidateSources(s.fs, cfg.Dirs); err != nil {
		return nil, err
	}

	templates, err := filemap.Load(s.fs, cfg.Dirs.Templates)
	if err != nil {
		return nil, err
	}
	styles, err := filemap.Load(s.fs, cfg.Dirs.Styles)
	if err != nil {
		return nil, err
	}
	s.templates, s.styles = templates, styles

	s.renderer = renderer.New(templates, renderer.Options{
		Dev:        dev,
		DevWarning: cfg.DevWarning,
		URL:        cfg.URL,
	}, s.logger)

	if cfg.Globals != "" {
		globals, err := merge.LoadGlobals(s.fs, cfg.Globals)
		if err != nil {
			return nil, err
		}
		s.renderer.SetGlobals(globals)
	}

	s.logger.Info(context.Background(), "Site loaded",
		"templates", len(templates),
		"styles", len(styles),
		"dev", dev,
		"build_dir", s.BuildDir())

	return s, nil
}

// BuildDir is the directory Finish writes into.
func (s *Site) BuildDir() string {
	return s.cfg.Dirs.Build
}

// Dev reports whether the session runs in development mode.
func (s *Site) Dev() bool {
	return s.dev
}

// Templates returns the logical names of all loaded templates.
func (s *Site) Templates() []string {
	return s.templates.Names()
}

// SetGlobals replaces the globals value merged into every render. v may be
// any value that encodes to JSON; nil clears the globals.
func (s *Site) SetGlobals(v any) error {
	if v == nil {
		s.renderer.SetGlobals(nil)
		return nil
	}

	globals, err := merge.Normalize(v)
	if err != nil {
		return errors.ErrConfigInvalid("globals: " + err.Error())
	}
	s.renderer.SetGlobals(globals)

	return nil
}

// Render renders a template without registering a page.
func (s *Site) Render(name string, data any) (string, error) {
	return s.renderer.Render(name, data)
}

// PagePlain registers a page with fixed content.
func (s *Site) PagePlain(path, content string) {
	s.pages.Add(path, content)
}

// Page renders template with data and registers the result at path.
func (s *Site) Page(path, template string, data any) error {
	content, err := s.renderer.Render(template, data)
	if err != nil {
		return err
	}
	s.pages.Add(path, content)

	return nil
}

// Index registers the index page.
func (s *Site) Index(template string, data any) error {
	content, err := s.renderer.Render(template, data)
	if err != nil {
		return err
	}
	s.pages.Index(content)

	return nil
}

// NotFound registers the 404 page.
func (s *Site) NotFound(template string, data any) error {
	content, err := s.renderer.Render(template, data)
	if err != nil {
		return err
	}
	s.pages.NotFound(content)

	return nil
}

// AddManifest registers every page of a manifest in order.
func (s *Site) AddManifest(pages []config.PageConfig) error {
	for _, page := range pages {
		if page.Plain() {
			s.PagePlain(page.Path, page.Content)
			continue
		}

		var data any
		if page.Data != nil {
			data = page.Data
		}
		if err := s.Page(page.Path, page.Template, data); err != nil {
			return err
		}
	}

	return nil
}

// Pages returns the registered pages in order.
func (s *Site) Pages() []build.Page {
	return s.pages.Pages()
}

// Finish writes every registered page and style and copies the public
// assets.
func (s *Site) Finish(ctx context.Context) (*build.Result, error) {
	if closer, ok := s.compiler.(io.Closer); ok {
		defer closer.Close()
	}

	w := &build.Writer{
		Fs:            s.fs,
		Config:        s.cfg,
		Compiler:      s.compiler,
		CSSMinifier:   s.cssMinifier,
		HTMLMinifier:  s.htmlMinifier,
		Copier:        s.copier,
		Precompressor: build.NewPrecompressor(s.fs),
		Logger:        s.logger.WithComponent("build"),
	}

	result, err := w.Write(ctx, s.pages.Pages(), s.styles)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Build completed",
		"pages", result.Pages,
		"styles", result.Styles,
		"bytes", result.Bytes,
		"duration", result.Duration)

	return result, nil
}

// Serve serves the build directory until ctx is cancelled. Only available
// in development mode.
func (s *Site) Serve(ctx context.Context) error {
	if !s.dev {
		return errors.ErrConfigInvalid("serving requires development mode")
	}

	srv := server.New(server.NewResolver(s.fs, s.BuildDir()), s.logger)
	srv.Addr = s.serverAddr

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
