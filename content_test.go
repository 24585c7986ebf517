package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadContentDefaults(t *testing.T) {
	content, err := loadContent("")
	if err != nil {
		t.Fatal(err)
	}
	if content.About != AboutMe {
		t.Error("expected built-in about text")
	}
	if len(content.Projects) != len(defaultProjects) {
		t.Errorf("projects = %d, want %d", len(content.Projects), len(defaultProjects))
	}
}

func TestLoadContentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	data := `
about: Short bio.
projects:
  - title: Only Project
    description: Something small.
    link: https://example.com
    tags: [Go]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := loadContent(path)
	if err != nil {
		t.Fatal(err)
	}
	if content.About != "Short bio." {
		t.Errorf("about = %q", content.About)
	}
	if len(content.Projects) != 1 || content.Projects[0].Title != "Only Project" || content.Projects[0].Tags[0] != "Go" {
		t.Errorf("projects = %+v", content.Projects)
	}
	if len(content.Experience) != len(defaultExperience) {
		t.Error("sections missing from the file should keep their defaults")
	}
	if len(defaultProjects) == 1 {
		t.Error("loading a file must not change the built-in projects")
	}
}

func TestLoadContentErrors(t *testing.T) {
	if _, err := loadContent(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("projects: [unterminated"), 0o644)
	if _, err := loadContent(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
