package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/stencil/internal/errors"
)

const testConfig = `url: https://example.com/
pages:
  - path: index
    template: index
    data:
      name: Sam
  - path: blog/hello
    template: blog/post
    data:
      title: Hello
  - path: robots
    content: "User-agent: *"
`

// setupProject creates a project in a temporary working directory and
// points viper at its config file.
func setupProject(t *testing.T, config string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	for _, d := range []string{"templates/blog", "public", "styles"} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	}
	require.NoError(t, os.WriteFile(".stencil.yml", []byte(config), 0644))

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(".stencil.yml")
	require.NoError(t, viper.ReadInConfig())

	devMode = false

	return dir
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	return cmd, out
}

var projectFiles = map[string]string{
	"templates/index.hbs":     `<!DOCTYPE html><p>Hi {{.name}}</p>{{template "LINK" (dict "to" "blog/hello" "text" "post")}}`,
	"templates/blog/post.hbs": `<h1>{{.title}}</h1>`,
	"public/favicon.ico":      "icon",
}

func TestRunBuild(t *testing.T) {
	dir := setupProject(t, testConfig, projectFiles)

	cmd, out := testCommand()
	require.NoError(t, runBuild(cmd, nil))

	assert.Equal(t, "Build completed: 3 pages, 0 styles -> build\n", out.String())

	index, err := os.ReadFile(filepath.Join(dir, "build", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<!DOCTYPE html>")
	assert.Contains(t, string(index), "Hi Sam")
	assert.Contains(t, string(index), `https://example.com/blog/hello`)

	assert.FileExists(t, filepath.Join(dir, "build", "blog", "hello.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "robots.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "public", "favicon.ico"))
	assert.DirExists(t, filepath.Join(dir, "build", "styles"))
}

func TestRunBuildWithGlobals(t *testing.T) {
	files := map[string]string{
		"templates/index.hbs": "Hi {{.name}}",
		"globals.yml":         "name: Overridden\n",
	}
	dir := setupProject(t, "globals: globals.yml\nminify: false\npages:\n  - {path: index, template: index, data: {name: Sam}}\n", files)

	cmd, _ := testCommand()
	require.NoError(t, runBuild(cmd, nil))

	index, err := os.ReadFile(filepath.Join(dir, "build", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "Hi Overridden", string(index))
}

func TestRunBuildErrors(t *testing.T) {
	t.Run("unknown template", func(t *testing.T) {
		setupProject(t, "pages:\n  - {path: index, template: missing}\n", projectFiles)

		cmd, _ := testCommand()
		err := runBuild(cmd, nil)
		assert.ErrorIs(t, err, errors.ErrTemplateMissing)
	})

	t.Run("missing source directory", func(t *testing.T) {
		setupProject(t, "dirs: {templates: pages}\n", projectFiles)

		cmd, _ := testCommand()
		err := runBuild(cmd, nil)
		assert.ErrorIs(t, err, errors.ErrMissingDir)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		setupProject(t, "css_level: 7\n", projectFiles)

		cmd, _ := testCommand()
		err := runBuild(cmd, nil)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}

func TestRunCheck(t *testing.T) {
	dir := setupProject(t, testConfig, projectFiles)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "keep.html"), []byte("x"), 0644))

	cmd, out := testCommand()
	require.NoError(t, runCheck(cmd, nil))

	assert.Contains(t, out.String(), "ok    index (index)")
	assert.Contains(t, out.String(), "ok    robots (plain)")
	assert.Contains(t, out.String(), "3 pages checked, 2 templates loaded")

	// check never writes
	assert.FileExists(t, filepath.Join(dir, "build", "keep.html"))
	assert.NoFileExists(t, filepath.Join(dir, "build", "index.html"))
}

func TestRunCheckReportsPage(t *testing.T) {
	files := map[string]string{"templates/index.hbs": `{{template "nope"}}`}
	setupProject(t, "pages:\n  - {path: home, template: index}\n", files)

	cmd, _ := testCommand()
	err := runCheck(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page home")
	assert.ErrorIs(t, err, errors.ErrRenderFailed)
}

func TestVersionCommand(t *testing.T) {
	t.Cleanup(func() { versionFormat, versionShort = "text", false })

	t.Run("json", func(t *testing.T) {
		versionFormat, versionShort = "json", false
		cmd, out := testCommand()
		require.NoError(t, runVersionCommand(cmd, nil))

		var info map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &info))
		assert.Contains(t, info, "version")
		assert.Contains(t, info, "go_version")
	})

	t.Run("text", func(t *testing.T) {
		versionFormat, versionShort = "text", false
		cmd, out := testCommand()
		require.NoError(t, runVersionCommand(cmd, nil))
		assert.Contains(t, out.String(), "stencil ")
		assert.Contains(t, out.String(), "Platform: ")
	})

	t.Run("unsupported format", func(t *testing.T) {
		versionFormat = "xml"
		cmd, _ := testCommand()
		assert.Error(t, runVersionCommand(cmd, nil))
	})
}
