package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/retouch/internal/palette"
)

// EnvPath names a config file that takes precedence over the per-user ones.
const EnvPath = "RETOUCH_CONFIG"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by --config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first config file found and checks the editor defaults it
// carries. Without a file the defaults are returned.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := checkEditor(&cfg.Editor); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// checkEditor rejects editor settings the parser accepts as text but the
// editor could not honor.
func checkEditor(e *Editor) error {
	if e.BrushColor != "" {
		if _, err := palette.Parse(e.BrushColor); err != nil {
			return fmt.Errorf("error in section [editor]: brush_color: %w", err)
		}
	}
	if e.FilterIntensity > 100 {
		return fmt.Errorf("error in section [editor]: filter_intensity %d above 100", e.FilterIntensity)
	}
	return nil
}

// Candidates lists the paths searched, most specific first.
func (l *Loader) Candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".retouchrc"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "retouch")
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "retouch.rc"))
	}
	return paths
}

// GetConfigPath returns the first existing candidate, or "" when none exists.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// DefaultPath is where a new per-user config file is written.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home dir: %w", err)
	}
	return filepath.Join(home, ".config", "retouch", "config.rc"), nil
}
