package render

import (
	"fmt"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Textures caches uploaded swatch textures by URL. Main thread only.
type Textures struct {
	textures map[string]rl.Texture2D
}

func NewTextures() *Textures {
	return &Textures{
		textures: make(map[string]rl.Texture2D),
	}
}

// Upload copies img to the GPU as a repeating, mipmapped texture. A URL that
// is already uploaded keeps its first texture.
func (t *Textures) Upload(url string, img image.Image) (rl.Texture2D, error) {
	if texture, exists := t.textures[url]; exists {
		return texture, nil
	}

	rlImage := rl.NewImageFromImage(img)
	texture := rl.LoadTextureFromImage(rlImage)
	rl.UnloadImage(rlImage)
	if !rl.IsTextureValid(texture) {
		return rl.Texture2D{}, fmt.Errorf("upload texture %s", url)
	}

	rl.GenTextureMipmaps(&texture)
	rl.SetTextureFilter(texture, rl.FilterTrilinear)
	rl.SetTextureWrap(texture, rl.WrapRepeat)

	t.textures[url] = texture
	return texture, nil
}

func (t *Textures) Get(url string) (rl.Texture2D, bool) {
	texture, ok := t.textures[url]
	return texture, ok
}

func (t *Textures) Has(url string) bool {
	_, ok := t.textures[url]
	return ok
}

func (t *Textures) Unload() {
	for url, texture := range t.textures {
		rl.UnloadTexture(texture)
		delete(t.textures, url)
	}
}
