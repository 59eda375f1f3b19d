package build

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/conneroisu/stencil/internal/config"
	"github.com/conneroisu/stencil/internal/errors"
)

// Fixed sub-directories of every build directory.
const (
	StylesDir = "styles"
	PublicDir = "public"
)

// ValidateSources checks that the template, public and style source
// directories exist. It changes nothing.
func ValidateSources(fsys afero.Fs, dirs config.DirsConfig) error {
	for _, dir := range []string{dirs.Templates, dirs.Public, dirs.Styles} {
		ok, err := afero.DirExists(fsys, dir)
		if err != nil || !ok {
			return errors.ErrDirectoryMissing(dir)
		}
	}

	return nil
}

// ResetOutput removes buildDir with everything in it, then recreates it with
// its styles and public sub-directories.
func ResetOutput(fsys afero.Fs, buildDir string) error {
	exists, err := afero.Exists(fsys, buildDir)
	if err != nil {
		return errors.ErrDirectoryRemove(buildDir, err)
	}
	if exists {
		if err := fsys.RemoveAll(buildDir); err != nil {
			return errors.ErrDirectoryRemove(buildDir, err)
		}
	}

	for _, dir := range []string{
		buildDir,
		filepath.Join(buildDir, StylesDir),
		filepath.Join(buildDir, PublicDir),
	} {
		if err := fsys.MkdirAll(dir, dirPerm); err != nil {
			return errors.ErrDirectoryCreate(dir, err)
		}
	}

	return nil
}
