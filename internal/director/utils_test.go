package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateScriptPath(t *testing.T) {
	path := GenerateScriptPath("scripts")

	if !strings.Contains(path, "script_") {
		t.Errorf("Path should contain 'script_': %s", path)
	}
	if filepath.Dir(path) != "scripts" {
		t.Errorf("Path should be in scripts: %s", path)
	}

	t.Logf("Generated path: %s", path)
}

func TestFindLatestScript(t *testing.T) {
	testDir := t.TempDir()

	// Create test files with different timestamps
	files := []string{
		filepath.Join(testDir, "script_2026-02-12_10-00-00.yaml"),
		filepath.Join(testDir, "script_2026-02-13_01-00-00.yml"),
		filepath.Join(testDir, "script_2026-02-11_15-30-00.yaml"),
	}

	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("skip"), 0644)

	latest, err := FindLatestScript(testDir)
	if err != nil {
		t.Fatalf("FindLatestScript failed: %v", err)
	}

	t.Logf("Latest script: %s", latest)

	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}
}

func TestFindLatestScriptEmpty(t *testing.T) {
	if _, err := FindLatestScript(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
	if _, err := FindLatestScript(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
