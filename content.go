package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Link        string   `yaml:"link"`
	Tags        []string `yaml:"tags"`
}

type Experience struct {
	Title      string   `yaml:"title"`
	Company    string   `yaml:"company"`
	StartDate  string   `yaml:"start_date"`
	EndDate    string   `yaml:"end_date"`
	Logo       string   `yaml:"logo"`
	Highlights []string `yaml:"highlights"`
}

// Content is everything the home page shows besides the contact form.
type Content struct {
	Title      string       `yaml:"title"`
	About      string       `yaml:"about"`
	Projects   []Project    `yaml:"projects"`
	Experience []Experience `yaml:"experience"`
}

func defaultContent() Content {
	return Content{
		Title:      "Zach Kordas-Potter",
		About:      AboutMe,
		Projects:   defaultProjects,
		Experience: defaultExperience,
	}
}

// loadContent returns the built-in content, with any section present in the
// YAML file at path replacing its default. An empty path keeps the defaults.
func loadContent(path string) (Content, error) {
	content := defaultContent()
	if path == "" {
		return content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return content, fmt.Errorf("reading content file: %w", err)
	}
	if err := yaml.Unmarshal(data, &content); err != nil {
		return content, fmt.Errorf("parsing content file: %w", err)
	}
	return content, nil
}
