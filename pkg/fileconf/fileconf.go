// Package fileconf decodes the YAML or JSON registry files (sources, publishers).
package fileconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	name string
	ext  string
	fn   func([]byte, any) error
}

var decoders = []decoder{
	{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
	{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
	{name: "json", ext: ".json", fn: json.Unmarshal},
}

// ErrUnrecognized is returned when no decoder accepts the content.
var ErrUnrecognized = errors.New("format not recognized (expected YAML or JSON)")

// Load reads path and decodes it into a T. what names the file in errors.
func Load[T any](path, what string) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s file: %w", what, err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return zero, fmt.Errorf("read %s file: %w", what, err)
	}
	return Decode[T](raw, filepath.Ext(path), what)
}

// Decode picks the decoder from ext. With an unknown or empty ext every
// decoder is tried in turn and the first that succeeds wins.
func Decode[T any](data []byte, ext, what string) (T, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	known := false
	for _, d := range decoders {
		if d.ext == ext {
			known = true
			break
		}
	}

	var lastErr error
	for _, d := range decoders {
		if known && d.ext != ext {
			continue
		}
		var out T
		if err := d.fn(data, &out); err != nil {
			lastErr = fmt.Errorf("decode %s %s: %w", d.name, what, err)
			continue
		}
		return out, nil
	}
	if known && lastErr != nil {
		return *new(T), lastErr
	}
	return *new(T), fmt.Errorf("%s file: %w", what, ErrUnrecognized)
}
