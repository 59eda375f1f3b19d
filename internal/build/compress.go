package build

import (
	"bytes"

	"github.com/andybalholm/brotli"
	"github.com/spf13/afero"
)

// Precompressor writes a brotli-compressed sibling (<file>.br) next to an
// output file, for hosts that serve precompressed assets.
type Precompressor struct {
	Fs    afero.Fs
	Level int
}

// NewPrecompressor creates a precompressor at the best compression level.
func NewPrecompressor(fsys afero.Fs) *Precompressor {
	return &Precompressor{Fs: fsys, Level: brotli.BestCompression}
}

// Compress writes path+".br" holding data compressed, and returns its size.
// Empty input writes nothing.
func (p *Precompressor) Compress(path string, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, p.Level)
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	if err := afero.WriteFile(p.Fs, path+".br", buf.Bytes(), filePerm); err != nil {
		return 0, err
	}

	return int64(buf.Len()), nil
}
