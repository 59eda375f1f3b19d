package build

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// AssetCopier mirrors a directory tree.
type AssetCopier interface {
	Copy(src, dst string) error
}

// FsCopier copies a tree file by file within one afero filesystem.
type FsCopier struct {
	Fs afero.Fs
}

// Copy implements AssetCopier. Existing files under dst are overwritten.
func (c FsCopier) Copy(src, dst string) error {
	if err := c.Fs.MkdirAll(dst, dirPerm); err != nil {
		return err
	}

	return afero.Walk(c.Fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return c.Fs.MkdirAll(destPath, dirPerm)
		}

		return c.copyFile(path, destPath)
	})
}

func (c FsCopier) copyFile(src, dst string) error {
	data, err := afero.ReadFile(c.Fs, src)
	if err != nil {
		return err
	}

	return afero.WriteFile(c.Fs, dst, data, filePerm)
}
