// Package merge combines structured data values.
//
// Structured data is the generic form produced by decoding JSON or YAML:
// nil, bool, float64, string, []any and map[string]any.
package merge

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/stencil/internal/errors"
)

// Merge combines overlay into base and returns the result.
//
// When both values are maps, every overlay key is merged recursively into a
// copy of base and a nil overlay value deletes the key. In every other case
// the overlay replaces base wholesale; an overlay map replacing a non-map is
// merged into an empty map so its nil tombstones never reach the result.
// Neither input is modified.
func Merge(base, overlay any) any {
	o, overlayIsMap := overlay.(map[string]any)
	if !overlayIsMap {
		return overlay
	}
	b, _ := base.(map[string]any)

	result := make(map[string]any, len(b)+len(o))
	for k, v := range b {
		result[k] = v
	}

	for k, v := range o {
		if v == nil {
			delete(result, k)
			continue
		}
		result[k] = Merge(result[k], v)
	}

	return result
}

// Normalize converts an arbitrary Go value into structured data by a JSON
// round trip. Structs, typed maps and slices become map[string]any and []any;
// numbers become float64.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, bool, float64, string:
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding data: %w", err)
	}

	return out, nil
}

// LoadGlobals reads a YAML or JSON document from path and returns it as
// structured data.
func LoadGlobals(fsys afero.Fs, path string) (any, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.ErrFileRead(path, err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, errors.ErrFileRead(path, fmt.Errorf("parsing globals: %w", err))
	}

	// yaml.v3 decodes integers as int; normalize so globals compare and merge
	// like page data.
	return Normalize(doc)
}
