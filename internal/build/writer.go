// Package build writes a rendered site to its build directory.
//
// Pages are written first, then compiled styles, then the public asset tree
// is mirrored. Any failure stops the build and leaves the directory as far
// as it got.
package build

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/stencil/internal/config"
	"github.com/conneroisu/stencil/internal/errors"
	"github.com/conneroisu/stencil/internal/filemap"
	"github.com/conneroisu/stencil/internal/logging"
)

// Result summarises a completed write.
type Result struct {
	BuildDir string
	Pages    int
	Styles   int
	// Bytes counts page and style bytes written, excluding assets and
	// precompressed siblings.
	Bytes    int64
	Duration time.Duration
}

// Writer writes pages and styles into Config.Dirs.Build.
type Writer struct {
	Fs           afero.Fs
	Config       config.Config
	Compiler     StyleCompiler
	CSSMinifier  CSSMinifier
	HTMLMinifier HTMLMinifier
	Copier       AssetCopier
	// Precompressor is used only when Config.Precompress is set.
	Precompressor *Precompressor
	Logger        logging.Logger
}

// Write runs the write phase. The build directory must already have been
// reset.
func (w *Writer) Write(ctx context.Context, pages []Page, styles filemap.Map) (*Result, error) {
	start := time.Now()
	logger := w.logger()
	result := &Result{BuildDir: w.Config.Dirs.Build}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := w.writePage(ctx, page)
		if err != nil {
			return nil, err
		}
		result.Pages++
		result.Bytes += n
	}
	logger.Info(ctx, "Pages written", "count", result.Pages)

	for _, name := range styles.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := w.writeStyle(ctx, name, styles[name])
		if err != nil {
			return nil, err
		}
		result.Styles++
		result.Bytes += n
	}
	logger.Info(ctx, "Styles compiled", "count", result.Styles)

	publicOut := filepath.Join(w.Config.Dirs.Build, PublicDir)
	if err := w.Copier.Copy(w.Config.Dirs.Public, publicOut); err != nil {
		return nil, errors.ErrAssetCopy(err)
	}
	logger.Info(ctx, "Assets copied", "from", w.Config.Dirs.Public, "to", publicOut)

	result.Duration = time.Since(start)

	return result, nil
}

func (w *Writer) writePage(ctx context.Context, page Page) (int64, error) {
	path := filepath.Join(w.Config.Dirs.Build, filepath.FromSlash(page.Path)+".html")

	content := page.Content
	if w.Config.Minify {
		minified, err := w.HTMLMinifier.Minify(content)
		if err != nil {
			return 0, errors.ErrHTMLMinify(path, err)
		}
		content = minified
	}

	if err := w.writeFile(path, []byte(content)); err != nil {
		return 0, err
	}
	w.logger().Debug(ctx, "Wrote page", "path", path)

	return int64(len(content)), nil
}

func (w *Writer) writeStyle(ctx context.Context, name, scss string) (int64, error) {
	css, err := w.Compiler.Compile(name, scss)
	if err != nil {
		return 0, errors.ErrStyleCompile(name, err)
	}

	if w.Config.Minify {
		css, err = w.CSSMinifier.Minify(css, w.Config.CSSLevel)
		if err != nil {
			return 0, errors.ErrCSSMinify(name, err)
		}
	}

	path := filepath.Join(w.Config.Dirs.Build, StylesDir, filepath.FromSlash(name)+".css")
	if err := w.writeFile(path, []byte(css)); err != nil {
		return 0, err
	}
	w.logger().Debug(ctx, "Wrote style", "name", name, "path", path)

	return int64(len(css)), nil
}

// writeFile creates the parent directories of path, writes data, and adds
// the brotli sibling when precompression is on.
func (w *Writer) writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := w.Fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.ErrDirectoryCreate(dir, err)
	}

	if err := afero.WriteFile(w.Fs, path, data, filePerm); err != nil {
		return errors.ErrFileWrite(path, err)
	}

	if w.Config.Precompress && w.Precompressor != nil {
		if _, err := w.Precompressor.Compress(path, data); err != nil {
			return errors.ErrFileWrite(path+".br", err)
		}
	}

	return nil
}

func (w *Writer) logger() logging.Logger {
	if w.Logger == nil {
		return logging.NewNopLogger()
	}

	return w.Logger
}
