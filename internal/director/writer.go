package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteScript writes an input script to a YAML file
func WriteScript(script *Script, path string) error {
	return writeYAML(script, path)
}

// ReadScript reads and validates an input script, sorted by time
func ReadScript(path string) (*Script, error) {
	var script Script
	if err := readYAML(path, &script); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	script.Sort()
	return &script, nil
}

// WriteStoryboard writes a storyboard to a YAML file
func WriteStoryboard(sb *Storyboard, path string) error {
	return writeYAML(sb, path)
}

// ReadStoryboard reads a storyboard from a YAML file
func ReadStoryboard(path string) (*Storyboard, error) {
	var sb Storyboard
	if err := readYAML(path, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

// WriteTimeline writes recorded snapshots to a YAML file
func WriteTimeline(tl *Timeline, path string) error {
	return writeYAML(tl, path)
}

// ReadTimeline reads recorded snapshots from a YAML file
func ReadTimeline(path string) (*Timeline, error) {
	var tl Timeline
	if err := readYAML(path, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

func writeYAML(v any, path string) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
