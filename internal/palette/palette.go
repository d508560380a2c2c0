// Package palette holds the named swatches offered by the brush tools and
// resolves color names typed on the command line.
package palette

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Entry is a named swatch.
type Entry struct {
	Name  string
	Color color.NRGBA
}

var (
	mu      sync.RWMutex
	entries = []Entry{
		{"Black", color.NRGBA{0, 0, 0, 255}},
		{"White", color.NRGBA{255, 255, 255, 255}},
		{"Red", color.NRGBA{255, 0, 0, 255}},
		{"Lime", color.NRGBA{0, 255, 0, 255}},
		{"Blue", color.NRGBA{0, 0, 255, 255}},
		{"Yellow", color.NRGBA{255, 255, 0, 255}},
		{"Cyan", color.NRGBA{0, 255, 255, 255}},
		{"Magenta", color.NRGBA{255, 0, 255, 255}},
		{"Maroon", color.NRGBA{128, 0, 0, 255}},
		{"Green", color.NRGBA{0, 128, 0, 255}},
		{"Navy", color.NRGBA{0, 0, 128, 255}},
		{"Olive", color.NRGBA{128, 128, 0, 255}},
		{"Teal", color.NRGBA{0, 128, 128, 255}},
		{"Purple", color.NRGBA{128, 0, 128, 255}},
		{"Silver", color.NRGBA{192, 192, 192, 255}},
		{"Gray", color.NRGBA{128, 128, 128, 255}},
	}
)

// Colors returns a copy of the swatches.
func Colors() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Ensure makes sure col is present and returns its index. Colors added
// without a name are labelled by their hex code.
func Ensure(col color.NRGBA, name string) int {
	mu.Lock()
	defer mu.Unlock()
	for i, e := range entries {
		if e.Color == col {
			return i
		}
	}
	if name == "" {
		name = Hex(col)
	}
	entries = append(entries, Entry{Name: name, Color: col})
	return len(entries) - 1
}

// Hex formats col as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(col color.NRGBA) string {
	if col.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", col.R, col.G, col.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", col.R, col.G, col.B, col.A)
}

// Parse resolves an SVG color name, a swatch name, #RRGGBB or #RRGGBBAA.
func Parse(s string) (color.NRGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	for _, e := range Colors() {
		if strings.EqualFold(e.Name, spec) {
			return e.Color, nil
		}
	}
	if !strings.HasPrefix(spec, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	alpha := uint8(255)
	switch len(spec) {
	case 7:
	case 9:
		var a uint8
		if _, err := fmt.Sscanf(spec[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		alpha = a
		spec = spec[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex(spec)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, alpha}, nil
}
