package theme

import (
	"image/color"
)

// Theme defines the colors used by the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Area around the canvas
	Foreground color.RGBA // Main text color

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Canvas
	CheckerLight     color.RGBA
	CheckerDark      color.RGBA
	CropOutline      color.RGBA
	CropShade        color.RGBA // Dims the area outside the crop rectangle
	SelectionOutline color.RGBA
}

// Default returns the hardcoded light theme used when nothing else loads.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{128, 128, 128, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		CropOutline:           color.RGBA{255, 255, 255, 255},
		CropShade:             color.RGBA{0, 0, 0, 96},
		SelectionOutline:      color.RGBA{0, 120, 215, 255},
	}
}
