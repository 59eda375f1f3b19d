// Package filemap flattens a directory tree into a name-addressable content
// map.
//
// A file at templates/blog/post.hbs is stored under the logical name
// "blog/post": directory names are joined with "/" and everything from the
// first "." of the file name onward is dropped. Templates and styles are
// loaded into independent maps with the same rules.
package filemap

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/conneroisu/stencil/internal/errors"
)

// Map is a flattened content map from logical name to raw text.
type Map map[string]string

var errNotText = errors.New("content is not valid UTF-8 text")

// Load walks root depth-first and returns the flattened content of every
// file beneath it. It fails on the first directory that cannot be listed or
// file that cannot be read as text, and when two files flatten to the same
// logical name.
func Load(fsys afero.Fs, root string) (Map, error) {
	l := &loader{
		fsys:    fsys,
		root:    root,
		out:     make(Map),
		sources: make(map[string]string),
	}
	if err := l.walk(""); err != nil {
		return nil, err
	}

	return l.out, nil
}

type loader struct {
	fsys afero.Fs
	root string
	out  Map
	// sources remembers which file produced each name, for collision reports.
	sources map[string]string
}

func (l *loader) walk(rel string) error {
	dir := l.root
	if rel != "" {
		dir = filepath.Join(l.root, filepath.FromSlash(rel))
	}

	entries, err := afero.ReadDir(l.fsys, dir)
	if err != nil {
		return errors.ErrDirectoryRead(dir, err)
	}

	for _, entry := range entries {
		child := joinName(rel, entry.Name())

		if entry.IsDir() {
			if err := l.walk(child); err != nil {
				return err
			}
			continue
		}

		leaf := LeafName(entry.Name())
		if leaf == "" {
			// dotfiles such as .gitkeep have no logical name
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := afero.ReadFile(l.fsys, path)
		if err != nil {
			return errors.ErrFileRead(path, err)
		}
		if !utf8.Valid(content) {
			return errors.ErrFileRead(path, errNotText)
		}

		name := joinName(rel, leaf)
		if prev, ok := l.sources[name]; ok {
			return errors.ErrDuplicateName(name, prev, path)
		}
		l.sources[name] = path
		l.out[name] = string(content)
	}

	return nil
}

// LeafName strips everything from the first "." of a file name onward.
func LeafName(fileName string) string {
	if i := strings.IndexByte(fileName, '.'); i >= 0 {
		return fileName[:i]
	}

	return fileName
}

func joinName(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "/" + name
}

// Get returns the content stored under a logical name.
func (m Map) Get(name string) (string, bool) {
	content, ok := m[name]
	return content, ok
}

// Names returns the logical names in lexical order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
