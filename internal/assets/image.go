package assets

import (
	"fmt"
	"image"
	"os"

	"github.com/anthonynsimon/bild/transform"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize bounds the longest edge of decoded textures.
const MaxTextureSize = 2048

// LoadImage decodes the image at path and downscales it so its longest edge
// is at most maxEdge. A maxEdge <= 0 keeps the original size.
func LoadImage(path string, maxEdge int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return Fit(img, maxEdge), nil
}

// Fit scales img down, keeping its aspect ratio, so neither edge exceeds maxEdge.
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	if w >= h {
		h = max(1, h*maxEdge/w)
		w = maxEdge
	} else {
		w = max(1, w*maxEdge/h)
		h = maxEdge
	}
	return transform.Resize(img, w, h, transform.Linear)
}
