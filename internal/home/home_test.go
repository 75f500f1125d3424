package home

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-slate")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-slate" {
			t.Errorf("expected path /tmp/test-slate, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-slate")

	t.Run("CachePath", func(t *testing.T) {
		expected := "/tmp/test-slate/cache"
		if dir.CachePath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.CachePath())
		}
	})

	t.Run("PromptsPath", func(t *testing.T) {
		expected := "/tmp/test-slate/prompts"
		if dir.PromptsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.PromptsPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-slate/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	slateDir := filepath.Join(tmpDir, "slate-test")

	dir, err := New(slateDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	if _, err := os.Stat(dir.CachePath()); os.IsNotExist(err) {
		t.Error("cache directory should exist after EnsureExists")
	}
	if _, err := os.Stat(dir.PromptsPath()); os.IsNotExist(err) {
		t.Error("prompts directory should exist after EnsureExists")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}

func TestScriptKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/scripts/Harvest Moon (Final).fountain", "harvest-moon--final"},
		{"draft_3.txt", "draft-3"},
		{"Pilot.txt", "pilot"},
	}
	for _, tt := range tests {
		if got := ScriptKey(tt.path); got != tt.want {
			t.Errorf("ScriptKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("Pilot.txt", "INT. KITCHEN - DAY")
	b := CacheKey("Pilot.txt", "INT. KITCHEN - NIGHT")

	if !strings.HasPrefix(a, "pilot-") {
		t.Errorf("CacheKey = %q, want pilot- prefix", a)
	}
	if a == b {
		t.Error("different script content should produce different cache keys")
	}
	if again := CacheKey("Pilot.txt", "INT. KITCHEN - DAY"); again != a {
		t.Errorf("CacheKey not stable: %q vs %q", again, a)
	}
}
