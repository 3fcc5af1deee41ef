// Package ui draws the part picker and the swatch tray over the scene and
// turns clicks into selection and pick events.
package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// Light showroom theme
var (
	colorPanel    = rl.NewColor(255, 255, 255, 230)
	colorElement  = rl.NewColor(241, 241, 241, 255)
	colorHover    = rl.NewColor(226, 226, 230, 255)
	colorAccent   = rl.NewColor(39, 84, 141, 255) // #27548d
	colorText     = rl.NewColor(55, 64, 71, 255)
	colorTextDim  = rl.NewColor(127, 138, 147, 255)
	colorBorder   = rl.NewColor(0, 0, 0, 25)
	colorSelected = rl.NewColor(19, 20, 23, 255)
)

// InitStyle applies the theme to raygui. Call after the window is open.
func InitStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorPanel))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorSelected))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(rl.White))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(colorBorder))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(colorBorder))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 16)
}

// outlineFor picks a selection outline that stays visible on a swatch:
// dark on light swatches, white on dark ones.
func outlineFor(c rl.Color) rl.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return colorSelected
	}
	l, _, _ := cf.Lab()
	if l > 0.6 {
		return colorSelected
	}
	return rl.White
}
