package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateScriptPath creates a timestamped script filename inside dir
func GenerateScriptPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("script_%s.yaml", timestamp))
}

// FindLatestScript finds the most recently modified script file in dir
func FindLatestScript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scripts directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scripts []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scripts = append(scripts, candidate{filepath.Join(dir, name), info.ModTime()})
	}

	if len(scripts) == 0 {
		return "", fmt.Errorf("no script files found in %s", dir)
	}

	// Newest first
	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].mod.After(scripts[j].mod)
	})

	return scripts[0].path, nil
}
