package frame

import "math"

// Surface is the drawing buffer the renderer targets.
type Surface interface {
	// ViewportSize is the logical size the buffer should cover.
	ViewportSize() (width, height float32)
	// DrawableSize is the buffer's current size in device pixels.
	DrawableSize() (width, height int32)
	// PixelRatio is device pixels per logical pixel.
	PixelRatio() float32
	// SetSize resizes the buffer to BufferSize of the logical size.
	SetSize(width, height float32)
}

// DetectResize reports whether the drawing buffer no longer matches the
// viewport and, if so, resizes it. The comparison is exact in device pixels:
// any mismatch between the drawable and BufferSize of the viewport counts.
// The caller must refresh the camera aspect on true.
func DetectResize(s Surface) bool {
	vw, vh := s.ViewportSize()
	dw, dh := s.DrawableSize()
	w, h := BufferSize(vw, vh, s.PixelRatio())
	if dw == w && dh == h {
		return false
	}
	s.SetSize(vw, vh)
	return true
}

// BufferSize converts a logical size to whole device pixels, never below 1.
// A non-positive ratio counts as 1.
func BufferSize(width, height, ratio float32) (int32, int32) {
	if ratio <= 0 {
		ratio = 1
	}
	w := int32(math.Round(float64(width * ratio)))
	h := int32(math.Round(float64(height * ratio)))
	return max(w, 1), max(h, 1)
}
