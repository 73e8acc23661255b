package sources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/image-gallery/pkg/fileconf"
)

// Package sources holds the ordered request list of image endpoints (YAML/JSON) and
// the fetcher that extracts an image URL from each endpoint's JSON body.

// DefaultField is the JSON field holding the image URL in a source response.
const DefaultField = "url"

// Source is one image endpoint in the request list.
type Source struct {
	ID      string            `json:"id" yaml:"id"`
	URL     string            `json:"url" yaml:"url"`
	Field   string            `json:"field" yaml:"field"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}

type sourcesFile struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

var defaultURLs = []string{
	"https://jsonplaceholder.typicode.com/photos/1",
	"https://jsonplaceholder.typicode.com/photos/2",
}

// Defaults returns the built-in request list.
func Defaults() []Source {
	out := make([]Source, len(defaultURLs))
	for i, u := range defaultURLs {
		out[i] = Source{ID: fmt.Sprintf("photo-%d", i+1), URL: u, Field: DefaultField}
	}
	return out
}

// Resolve returns the request list from path, or Defaults when path is empty.
func Resolve(path string) ([]Source, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	return LoadFile(path)
}

// LoadFile loads an ordered request list from a YAML or JSON file.
func LoadFile(path string) ([]Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	parsed, err := fileconf.Load[sourcesFile](path, "sources")
	if err != nil {
		return nil, err
	}
	return Normalize(parsed.Sources)
}

// Normalize sanitizes and validates a request list, preserving order.
func Normalize(list []Source) ([]Source, error) {
	if len(list) == 0 {
		return nil, errors.New("sources list is empty")
	}

	out := make([]Source, len(list))
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		s := sanitizeSource(list[i], i)
		if err := validateSource(s); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, exists := seen[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		out[i] = s
	}
	return out, nil
}

func sanitizeSource(s Source, pos int) Source {
	s.ID = strings.TrimSpace(s.ID)
	s.URL = strings.TrimSpace(s.URL)
	s.Field = strings.TrimSpace(s.Field)

	if s.ID == "" {
		s.ID = fmt.Sprintf("source-%d", pos+1)
	}
	if s.Field == "" {
		s.Field = DefaultField
	}
	if len(s.Headers) > 0 {
		h := make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			h[k] = v
		}
		s.Headers = h
	}
	return s
}

func validateSource(s Source) error {
	if s.URL == "" {
		return fmt.Errorf("url is required for source %q", s.ID)
	}
	if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
		return fmt.Errorf("url for source %q must be http(s), got %q", s.ID, s.URL)
	}
	return nil
}
