package collector

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FixtureSource serves a calendar captured in a YAML file.
type FixtureSource struct {
	*LoaderSource
	Path string
}

// NewFixtureSource creates a source backed by the YAML file at path.
func NewFixtureSource(path string) *FixtureSource {
	s := &FixtureSource{Path: path}
	s.LoaderSource = NewLoaderSource("fixture", func(context.Context) (*Calendar, error) {
		return LoadCalendar(s.Path)
	})
	return s
}

// LoadCalendar reads a calendar document from a YAML file.
func LoadCalendar(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	return &cal, nil
}
