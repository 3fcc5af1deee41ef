package ui

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	margin    float32 = 16
	tabWidth  float32 = 112
	tabHeight float32 = 36
	tabGap    float32 = 8

	swatchSize float32 = 48
	swatchGap  float32 = 10
	trayHeight float32 = swatchSize + 2*margin
)

// tabRects lays the part tabs out in a column along the left edge.
func tabRects(n int) []rl.Rectangle {
	rects := make([]rl.Rectangle, n)
	for i := range rects {
		rects[i] = rl.Rectangle{
			X:      margin,
			Y:      margin + float32(i)*(tabHeight+tabGap),
			Width:  tabWidth,
			Height: tabHeight,
		}
	}
	return rects
}

// trayBounds is the strip along the bottom edge holding the swatches.
func trayBounds(screenW, screenH float32) rl.Rectangle {
	return rl.Rectangle{X: 0, Y: screenH - trayHeight, Width: screenW, Height: trayHeight}
}

// swatchRects lays n swatches in a row inside tray, shifted left by scroll.
func swatchRects(n int, tray rl.Rectangle, scroll float32) []rl.Rectangle {
	rects := make([]rl.Rectangle, n)
	for i := range rects {
		rects[i] = rl.Rectangle{
			X:      tray.X + margin + float32(i)*(swatchSize+swatchGap) - scroll,
			Y:      tray.Y + margin,
			Width:  swatchSize,
			Height: swatchSize,
		}
	}
	return rects
}

// maxScroll is how far the swatch row can scroll before its end is visible.
func maxScroll(n int, trayWidth float32) float32 {
	content := 2*margin + float32(n)*swatchSize + float32(max(n-1, 0))*swatchGap
	return max(content-trayWidth, 0)
}

// hit returns the index of the first rect containing p, or -1.
func hit(rects []rl.Rectangle, p rl.Vector2) int {
	for i, r := range rects {
		if rl.CheckCollisionPointRec(p, r) {
			return i
		}
	}
	return -1
}
