// Package config provides configuration management for stencil using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration names the source and output directories, the
// optimisation switches for the build, the production base URL and an
// optional page manifest. Environment overrides use the STENCIL_ prefix.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/stencil/internal/errors"
)

// DevBuildDir is the build directory used in development mode, whatever the
// configured value.
const DevBuildDir = ".devbuild"

const (
	CSSLevelWhitespace = 1
	CSSLevelSyntax     = 2
)

type Config struct {
	Dirs        DirsConfig   `mapstructure:"dirs" yaml:"dirs"`
	Minify      bool         `mapstructure:"minify" yaml:"minify"`
	DevWarning  bool         `mapstructure:"dev_warning" yaml:"dev_warning"`
	URL         string       `mapstructure:"url" yaml:"url"`
	CSSLevel    int          `mapstructure:"css_level" yaml:"css_level"`
	Precompress bool         `mapstructure:"precompress" yaml:"precompress"`
	Globals     string       `mapstructure:"globals" yaml:"globals"`
	Pages       []PageConfig `mapstructure:"pages" yaml:"pages"`
}

type DirsConfig struct {
	Build     string `mapstructure:"build" yaml:"build"`
	Templates string `mapstructure:"templates" yaml:"templates"`
	Public    string `mapstructure:"public" yaml:"public"`
	Styles    string `mapstructure:"styles" yaml:"styles"`
}

// PageConfig is one manifest entry. A page either renders Template with
// Data or is written verbatim from Content.
type PageConfig struct {
	Path     string         `mapstructure:"path" yaml:"path"`
	Template string         `mapstructure:"template" yaml:"template"`
	Content  string         `mapstructure:"content" yaml:"content"`
	Data     map[string]any `mapstructure:"data" yaml:"data"`
}

// Plain reports whether the page is written verbatim.
func (p PageConfig) Plain() bool {
	return p.Template == ""
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Dirs: DirsConfig{
			Build:     "build",
			Templates: "templates",
			Public:    "public",
			Styles:    "styles",
		},
		Minify:     true,
		DevWarning: true,
		CSSLevel:   CSSLevelSyntax,
	}
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	defaults := Default()

	if config.Dirs.Build == "" {
		config.Dirs.Build = defaults.Dirs.Build
	}
	if config.Dirs.Templates == "" {
		config.Dirs.Templates = defaults.Dirs.Templates
	}
	if config.Dirs.Public == "" {
		config.Dirs.Public = defaults.Dirs.Public
	}
	if config.Dirs.Styles == "" {
		config.Dirs.Styles = defaults.Dirs.Styles
	}

	// Booleans default to true, so only an explicit value may clear them.
	if !viper.IsSet("minify") {
		config.Minify = defaults.Minify
	}
	if !viper.IsSet("dev_warning") {
		config.DevWarning = defaults.DevWarning
	}
	if !viper.IsSet("css_level") {
		config.CSSLevel = defaults.CSSLevel
	}

	config.URL = strings.TrimSuffix(config.URL, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for values the build cannot work with.
func (c *Config) Validate() error {
	if err := validateDirs(&c.Dirs); err != nil {
		return err
	}

	if c.CSSLevel < CSSLevelWhitespace || c.CSSLevel > CSSLevelSyntax {
		return errors.ErrConfigInvalid(fmt.Sprintf("css_level %d is not in valid range 1-2", c.CSSLevel))
	}

	for i, page := range c.Pages {
		if err := validatePage(page); err != nil {
			return errors.ErrConfigInvalid(fmt.Sprintf("pages[%d]: %s", i, err))
		}
	}

	return nil
}

// ForDevelopment returns a copy of c that builds into DevBuildDir.
func (c Config) ForDevelopment() Config {
	dev := c
	dev.Dirs.Build = DevBuildDir
	dev.Pages = append([]PageConfig(nil), c.Pages...)

	return dev
}

func validateDirs(dirs *DirsConfig) error {
	named := []struct {
		key   string
		value string
	}{
		{"dirs.build", dirs.Build},
		{"dirs.templates", dirs.Templates},
		{"dirs.public", dirs.Public},
		{"dirs.styles", dirs.Styles},
	}

	for _, d := range named {
		if strings.TrimSpace(d.value) == "" {
			return errors.ErrConfigInvalid(d.key + " must not be empty")
		}
	}

	// The build directory is wiped before every build.
	build := filepath.Clean(dirs.Build)
	for _, d := range named[1:] {
		if filepath.Clean(d.value) == build {
			return errors.ErrConfigInvalid(fmt.Sprintf("dirs.build must differ from %s (%s)", d.key, d.value))
		}
	}

	return nil
}

func validatePage(page PageConfig) error {
	if err := validatePath(page.Path); err != nil {
		return fmt.Errorf("invalid path '%s': %w", page.Path, err)
	}

	if page.Template != "" && page.Content != "" {
		return fmt.Errorf("page '%s' sets both template and content", page.Path)
	}

	if page.Plain() && page.Data != nil {
		return fmt.Errorf("page '%s' has data but no template", page.Path)
	}

	return nil
}

// validatePath checks a page path: relative, slash-separated, extension-less
// and without traversal.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return fmt.Errorf("path must be relative")
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("path contains empty or traversal segment")
		}
	}

	if strings.HasSuffix(path, ".html") {
		return fmt.Errorf("path must not include the .html extension")
	}

	return nil
}
