package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Describe formats c as hex plus HSL, with the alpha appended when the
// color is not opaque.
func Describe(c color.NRGBA) string {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	out := fmt.Sprintf("%s hsl(%.0f, %.0f%%, %.0f%%)", cf.Hex(), h, s*100, l*100)
	if c.A != 255 {
		out += fmt.Sprintf(" alpha %d", c.A)
	}
	return out
}
