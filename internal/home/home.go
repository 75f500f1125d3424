// Package home locates and lays out the slate home directory (~/.slate):
// configuration, prompt overrides, and the analysis cache.
package home

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the slate home directory.
	DefaultDirName = ".slate"

	// CacheDirName is the subdirectory for cached analysis results.
	CacheDirName = "cache"

	// PromptsDirName is the subdirectory for prompt override files.
	PromptsDirName = "prompts"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the slate home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.slate).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// CachePath returns the path to the analysis cache directory.
func (d *Dir) CachePath() string {
	return filepath.Join(d.path, CacheDirName)
}

// PromptsPath returns the path to the prompt override directory.
func (d *Dir) PromptsPath() string {
	return filepath.Join(d.path, PromptsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they
// don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.CachePath(), d.PromptsPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home
// directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ScriptKey derives a cache key from a script path: the base name
// without extension, lowercased, with path-hostile characters replaced.
func ScriptKey(scriptPath string) string {
	base := filepath.Base(scriptPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, base)
	return strings.Trim(mapped, "-")
}

// CacheKey derives a cache key from the script path and content. The
// content hash in the key means an edited script never hits a stale
// cache entry.
func CacheKey(scriptPath, content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s-%s", ScriptKey(scriptPath), hex.EncodeToString(sum[:6]))
}
