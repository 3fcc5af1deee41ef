package render

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/config"
)

const (
	ShadowNear float32 = 1.0
	ShadowFar  float32 = 60.0

	// shadowExtent is the width of the orthographic shadow frustum. It covers
	// the product and its footprint on the floor.
	shadowExtent float32 = 12.0

	defaultShadowMapSize int32 = 1024

	// depthComponent24 is the 24-bit depth format rlgl allocates for
	// LoadTextureDepth. PixelFormat has no name for it.
	depthComponent24 rl.PixelFormat = 19
)

// directionalLight is the key light. It shines from Position toward the origin.
type directionalLight struct {
	Position  rl.Vector3
	Direction rl.Vector3
	Color     rl.Color
	Intensity float32
}

func newDirectionalLight(cfg config.DirectionalLight) directionalLight {
	pos := rl.Vector3{X: cfg.Position[0], Y: cfg.Position[1], Z: cfg.Position[2]}
	return directionalLight{
		Position:  pos,
		Direction: rl.Vector3Normalize(rl.Vector3Scale(pos, -1)),
		Color:     colorOf(config.Hex(cfg.Color, 0xffffff)),
		Intensity: cfg.Intensity,
	}
}

func (l directionalLight) camera() rl.Camera3D {
	return rl.Camera3D{
		Position:   l.Position,
		Target:     rl.Vector3Zero(),
		Up:         l.cameraUp(),
		Fovy:       shadowExtent,
		Projection: rl.CameraOrthographic,
	}
}

// colorFloat is the light color scaled by intensity.
func (l directionalLight) colorFloat() []float32 {
	return scaledColor(l.Color, l.Intensity)
}

func (l directionalLight) cameraUp() rl.Vector3 {
	if math.Abs(float64(l.Direction.Y)) > 0.9 {
		return rl.Vector3{X: 0, Y: 0, Z: 1}
	}
	return rl.Vector3{X: 0, Y: 1, Z: 0}
}

func scaledColor(c rl.Color, intensity float32) []float32 {
	return []float32{
		float32(c.R) / 255.0 * intensity,
		float32(c.G) / 255.0 * intensity,
		float32(c.B) / 255.0 * intensity,
	}
}

// newShadowMap allocates a square depth-only target for the light.
func newShadowMap(size int32) (rl.RenderTexture2D, error) {
	fb := rl.LoadFramebuffer()
	if fb == 0 {
		return rl.RenderTexture2D{}, errors.New("shadow map: no framebuffer")
	}
	depth := rl.Texture2D{
		ID:      rl.LoadTextureDepth(size, size, false),
		Width:   size,
		Height:  size,
		Mipmaps: 1,
		Format:  depthComponent24,
	}

	rl.EnableFramebuffer(fb)
	rl.FramebufferAttach(fb, depth.ID, rl.AttachmentDepth, rl.AttachmentTexture2d, 0)
	complete := rl.FramebufferComplete(fb)
	rl.DisableFramebuffer()
	if !complete {
		rl.UnloadTexture(depth)
		rl.UnloadFramebuffer(fb)
		return rl.RenderTexture2D{}, fmt.Errorf("shadow map: %dx%d depth framebuffer incomplete", size, size)
	}

	// Texture carries the size BeginTextureMode sets the viewport from.
	return rl.RenderTexture2D{
		ID:      fb,
		Texture: rl.Texture2D{Width: size, Height: size},
		Depth:   depth,
	}, nil
}

// shadowMapSize is the configured resolution, or the default when unset.
func shadowMapSize(cfg config.DirectionalLight) int32 {
	if cfg.ShadowMapSize <= 0 {
		return defaultShadowMapSize
	}
	return cfg.ShadowMapSize
}

// drawShadowMap renders the casters from the light and returns the light's
// view-projection matrix.
func (r *Renderer) drawShadowMap() rl.Matrix {
	cam := r.light.camera()

	rl.BeginTextureMode(r.shadowMap)
	rl.ClearBackground(rl.White)

	rl.BeginMode3D(cam)

	halfSize := cam.Fovy / 2.0
	shadowProj := rl.MatrixOrtho(
		-halfSize, halfSize,
		-halfSize, halfSize,
		ShadowNear, ShadowFar,
	)
	rl.SetMatrixProjection(shadowProj)

	lightView := rl.GetMatrixModelview()
	lightProj := rl.GetMatrixProjection()

	rl.SetCullFace(0)
	r.drawCasters()
	rl.SetCullFace(1)

	rl.EndMode3D()
	rl.EndTextureMode()

	return rl.MatrixMultiply(lightView, lightProj)
}
