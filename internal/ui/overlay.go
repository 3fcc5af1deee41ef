package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Overlay is the 2D pass drawn over the scene: picker, tray and a status line.
type Overlay struct {
	Picker *Picker
	Tray   *Tray

	// Status is shown centered at the top while non-empty.
	Status string

	capturing bool
}

// Update routes this frame's mouse input to the widgets. It must run before
// the camera reads input so the camera can skip presses the UI consumed.
func (o *Overlay) Update() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	pos := rl.GetMousePosition()

	if o.Tray != nil && o.Tray.Contains(pos, w, h) {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			o.Tray.Scroll(wheel, w)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		o.capturing = o.over(pos, w, h)
		if o.Tray != nil {
			o.Tray.click(pos, w, h)
		}
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) && !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		o.capturing = false
	}
}

// CapturesMouse reports whether pointer input belongs to the UI this frame:
// the pointer is over a widget, or a drag started on one.
func (o *Overlay) CapturesMouse() bool {
	if o.capturing {
		return true
	}
	return o.over(rl.GetMousePosition(), float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

func (o *Overlay) over(pos rl.Vector2, w, h float32) bool {
	if o.Picker != nil && o.Picker.Contains(pos) {
		return true
	}
	return o.Tray != nil && o.Tray.Contains(pos, w, h)
}

func (o *Overlay) Draw() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	if o.Tray != nil {
		o.Tray.Draw(w, h)
	}
	if o.Picker != nil {
		o.Picker.Draw()
	}
	if o.Status != "" {
		const size = 20
		tw := rl.MeasureText(o.Status, size)
		rl.DrawText(o.Status, int32(w)/2-tw/2, int32(margin), size, colorTextDim)
	}
}
