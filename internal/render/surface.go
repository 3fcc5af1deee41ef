package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/frame"
)

// The renderer is the frame.Surface of the render loop: its drawing buffer is
// the offscreen target, sized in device pixels.

// ViewportSize is the window's logical size.
func (r *Renderer) ViewportSize() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}

func (r *Renderer) DrawableSize() (int32, int32) {
	return r.target.Texture.Width, r.target.Texture.Height
}

func (r *Renderer) PixelRatio() float32 {
	scale := rl.GetWindowScaleDPI()
	if scale.X <= 0 {
		return 1
	}
	return scale.X
}

// SetSize reallocates the drawing buffer for a logical size.
func (r *Renderer) SetSize(width, height float32) {
	r.allocateTarget(width, height)
}

func (r *Renderer) allocateTarget(width, height float32) {
	w, h := frame.BufferSize(width, height, r.PixelRatio())
	if r.target.ID != 0 {
		if r.target.Texture.Width == w && r.target.Texture.Height == h {
			return
		}
		rl.UnloadRenderTexture(r.target)
	}
	r.target = rl.LoadRenderTexture(w, h)
	rl.SetTextureFilter(r.target.Texture, rl.FilterBilinear)
	r.logger.Debug("drawing buffer resized", "width", w, "height", h)
}
