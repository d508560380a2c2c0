package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"

	"github.com/example/retouch/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Copy  bool
	Paste bool
}

// Editor holds tool defaults for new editor sessions. Zero values leave the
// built-in defaults in place.
type Editor struct {
	BrushSize       int
	BrushColor      string
	EraserSize      int
	TextSize        float64
	HistoryLimit    int
	FilterIntensity int
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Notify  Notify
	Editor  Editor
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // empty lets the environment and built-in theme apply
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "paste = %v\n", c.Notify.Paste)
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	if c.Editor.BrushSize != 0 {
		fmt.Fprintf(&sb, "brush_size = %d\n", c.Editor.BrushSize)
	}
	if c.Editor.BrushColor != "" {
		fmt.Fprintf(&sb, "brush_color = %s\n", c.Editor.BrushColor)
	}
	if c.Editor.EraserSize != 0 {
		fmt.Fprintf(&sb, "eraser_size = %d\n", c.Editor.EraserSize)
	}
	if c.Editor.TextSize != 0 {
		fmt.Fprintf(&sb, "text_size = %g\n", c.Editor.TextSize)
	}
	if c.Editor.HistoryLimit != 0 {
		fmt.Fprintf(&sb, "history_limit = %d\n", c.Editor.HistoryLimit)
	}
	if c.Editor.FilterIntensity != 0 {
		fmt.Fprintf(&sb, "filter_intensity = %d\n", c.Editor.FilterIntensity)
	}
	sb.WriteString("\n")

	// Sorted for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		writeThemeColors(&sb, t)
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeThemeColors(sb *strings.Builder, t *theme.Theme) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	rgba := reflect.TypeOf(color.RGBA{})
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type != rgba {
			continue
		}
		fmt.Fprintf(sb, "%s: %s\n", f.Name, theme.Format(val.Field(i).Interface().(color.RGBA)))
	}
}
