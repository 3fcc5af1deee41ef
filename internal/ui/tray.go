package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/material"
)

// Swatch is one tray entry as the tray shows it.
type Swatch struct {
	Request material.Request
	// Color previews solid swatches and tints textured ones until their
	// thumbnail is available.
	Color rl.Color
}

// Tray is the scrollable row of swatches along the bottom edge. A click emits
// the swatch's request through OnPick.
type Tray struct {
	swatches []Swatch
	selected int
	scroll   float32

	// Thumbnail returns the uploaded texture for a URL, if any.
	Thumbnail func(url string) (rl.Texture2D, bool)
	OnPick    func(material.Request)
}

func NewTray(swatches []Swatch) *Tray {
	return &Tray{
		swatches: append([]Swatch(nil), swatches...),
		selected: -1,
	}
}

// Contains reports whether pos is over the tray strip.
func (t *Tray) Contains(pos rl.Vector2, screenW, screenH float32) bool {
	return rl.CheckCollisionPointRec(pos, trayBounds(screenW, screenH))
}

// Scroll moves the row by wheel notches, clamped to the content.
func (t *Tray) Scroll(wheel, trayWidth float32) {
	t.scroll = min(max(t.scroll-wheel*(swatchSize+swatchGap), 0), maxScroll(len(t.swatches), trayWidth))
}

// click handles a press at pos and reports whether it picked a swatch.
func (t *Tray) click(pos rl.Vector2, screenW, screenH float32) bool {
	tray := trayBounds(screenW, screenH)
	if !rl.CheckCollisionPointRec(pos, tray) {
		return false
	}
	i := hit(swatchRects(len(t.swatches), tray, t.scroll), pos)
	if i < 0 {
		return false
	}
	t.selected = i
	if t.OnPick != nil {
		t.OnPick(t.swatches[i].Request)
	}
	return true
}

func (t *Tray) Draw(screenW, screenH float32) {
	tray := trayBounds(screenW, screenH)
	rl.DrawRectangleRec(tray, colorPanel)
	rl.DrawRectangle(int32(tray.X), int32(tray.Y), int32(tray.Width), 1, colorBorder)

	rl.BeginScissorMode(int32(tray.X), int32(tray.Y), int32(tray.Width), int32(tray.Height))
	for i, r := range swatchRects(len(t.swatches), tray, t.scroll) {
		if r.X+r.Width < tray.X || r.X > tray.X+tray.Width {
			continue
		}
		s := t.swatches[i]
		t.drawSwatch(s, r)
		if i == t.selected {
			outer := rl.Rectangle{X: r.X - 3, Y: r.Y - 3, Width: r.Width + 6, Height: r.Height + 6}
			rl.DrawRectangleLinesEx(outer, 2, outlineFor(s.Color))
		}
	}
	rl.EndScissorMode()
}

func (t *Tray) drawSwatch(s Swatch, r rl.Rectangle) {
	if s.Request.Texture != "" && t.Thumbnail != nil {
		if tex, ok := t.Thumbnail(s.Request.Texture); ok {
			src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
			rl.DrawTexturePro(tex, src, r, rl.Vector2{}, 0, rl.White)
			rl.DrawRectangleLinesEx(r, 1, colorBorder)
			return
		}
	}
	rl.DrawRectangleRec(r, s.Color)
	rl.DrawRectangleLinesEx(r, 1, colorBorder)
	if s.Request.Texture != "" {
		rl.DrawText("...", int32(r.X+r.Width/2-6), int32(r.Y+r.Height/2-6), 12, colorTextDim)
	}
}
