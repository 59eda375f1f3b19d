package build

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"

	"github.com/conneroisu/stencil/internal/logging"
)

// StyleCompiler turns SCSS source into CSS.
type StyleCompiler interface {
	Compile(name, scss string) (string, error)
}

// DartSassCompiler compiles SCSS through the Dart Sass embedded protocol.
// The sass process is started on first use and reused until Close.
type DartSassCompiler struct {
	// Binary is the Dart Sass executable. Empty means "sass" on PATH.
	Binary  string
	Timeout time.Duration
	Logger  logging.Logger

	once       sync.Once
	transpiler *godartsass.Transpiler
	startErr   error
}

// NewDartSassCompiler creates a compiler that runs binary.
func NewDartSassCompiler(binary string, logger logging.Logger) *DartSassCompiler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &DartSassCompiler{
		Binary:  binary,
		Timeout: 30 * time.Second,
		Logger:  logger.WithComponent("sass"),
	}
}

func (c *DartSassCompiler) start() {
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c.transpiler, c.startErr = godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: c.Binary,
		Timeout:                  c.Timeout,
		LogEventHandler: func(event godartsass.LogEvent) {
			switch event.Type {
			case godartsass.LogEventTypeDebug:
				logger.Debug(context.Background(), event.Message)
			default:
				logger.Warn(context.Background(), nil, event.Message)
			}
		},
	})
}

// Compile implements StyleCompiler.
func (c *DartSassCompiler) Compile(name, scss string) (string, error) {
	c.once.Do(c.start)
	if c.startErr != nil {
		return "", fmt.Errorf("starting dart sass: %w", c.startErr)
	}

	result, err := c.transpiler.Execute(godartsass.Args{
		Source:       scss,
		SourceSyntax: godartsass.SourceSyntaxSCSS,
		OutputStyle:  godartsass.OutputStyleExpanded,
	})
	if err != nil {
		return "", err
	}

	return result.CSS, nil
}

// Close stops the sass process if it was started.
func (c *DartSassCompiler) Close() error {
	if c.transpiler == nil {
		return nil
	}

	return c.transpiler.Close()
}
