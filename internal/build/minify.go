package build

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/conneroisu/stencil/internal/config"
)

// CSSMinifier shrinks compiled CSS. level is config.CSSLevelWhitespace or
// config.CSSLevelSyntax.
type CSSMinifier interface {
	Minify(css string, level int) (string, error)
}

// HTMLMinifier shrinks rendered HTML. Doctype declarations and comments
// survive verbatim.
type HTMLMinifier interface {
	Minify(html string) (string, error)
}

// ESBuildCSSMinifier minifies CSS with esbuild's transform API.
type ESBuildCSSMinifier struct{}

// Minify implements CSSMinifier.
func (ESBuildCSSMinifier) Minify(css string, level int) (string, error) {
	opts := api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
	}
	if level >= config.CSSLevelSyntax {
		opts.MinifySyntax = true
	}

	result := api.Transform(css, opts)
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			msgs = append(msgs, msg.Text)
		}
		return "", fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	return strings.TrimSuffix(string(result.Code), "\n"), nil
}

var doctypePattern = regexp.MustCompile(`(?is)^\s*<!doctype[^>]*>`)

// MarkupMinifier minifies HTML with tdewolff/minify.
type MarkupMinifier struct {
	m *minify.M
}

// NewHTMLMinifier creates the default HTMLMinifier.
func NewHTMLMinifier() *MarkupMinifier {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepComments:        true,
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})

	return &MarkupMinifier{m: m}
}

// Minify implements HTMLMinifier. A leading doctype is split off and kept
// exactly as written, since the minifier would normalise it.
func (mm *MarkupMinifier) Minify(source string) (string, error) {
	doctype := doctypePattern.FindString(source)
	body := source[len(doctype):]

	out, err := mm.m.String("text/html", body)
	if err != nil {
		return "", err
	}

	return strings.TrimLeft(doctype, " \t\r\n") + out, nil
}
