package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreTheTwoPhotoEndpoints(t *testing.T) {
	list := Defaults()
	if len(list) != 2 {
		t.Fatalf("expected 2 default sources, got %d", len(list))
	}
	if list[0].URL != "https://jsonplaceholder.typicode.com/photos/1" ||
		list[1].URL != "https://jsonplaceholder.typicode.com/photos/2" {
		t.Fatalf("unexpected default urls %#v", list)
	}
	for _, s := range list {
		if s.Field != DefaultField {
			t.Fatalf("expected field %q, got %q", DefaultField, s.Field)
		}
	}
}

func TestResolveEmptyPathUsesDefaults(t *testing.T) {
	list, err := Resolve("  ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(list) != len(defaultURLs) {
		t.Fatalf("expected defaults, got %#v", list)
	}
}

func TestLoadFileYAMLKeepsOrderAndDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sources.yaml")
	content := `
sources:
  - id: second
    url: https://example.com/photos/2
  - url: " https://example.com/photos/1 "
    field: thumbnailUrl
    headers:
      Accept: application/json
      "": dropped
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}

	list, err := LoadFile(file)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(list))
	}
	if list[0].ID != "second" || list[0].Field != DefaultField {
		t.Fatalf("unexpected first source %#v", list[0])
	}
	if list[1].ID != "source-2" || list[1].URL != "https://example.com/photos/1" || list[1].Field != "thumbnailUrl" {
		t.Fatalf("unexpected second source %#v", list[1])
	}
	if len(list[1].Headers) != 1 || list[1].Headers["Accept"] != "application/json" {
		t.Fatalf("unexpected headers %#v", list[1].Headers)
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sources.json")
	content := `{"sources":[{"id":"a","url":"http://localhost/a"}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}

	list, err := LoadFile(file)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(list) != 1 || list[0].URL != "http://localhost/a" {
		t.Fatalf("unexpected sources %#v", list)
	}
}

func TestNormalizeRejectsBadLists(t *testing.T) {
	cases := map[string][]Source{
		"empty":     nil,
		"no url":    {{ID: "a"}},
		"bad proto": {{ID: "a", URL: "ftp://example.com"}},
		"duplicate": {{ID: "a", URL: "http://x"}, {ID: "a", URL: "http://y"}},
	}
	for name, list := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Normalize(list); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}
