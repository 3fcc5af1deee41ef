// Package render draws the showroom with raylib: an offscreen drawing buffer,
// a directional shadow map, hemisphere and directional lighting, linear fog,
// the floor and the loaded product with its per-part materials.
package render

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/camera"
	"configurator/internal/config"
	"configurator/internal/material"
	"configurator/internal/scene"
)

var (
	//go:embed shaders/lighting.vs
	lightingVS string
	//go:embed shaders/lighting.fs
	lightingFS string
)

var ErrModelLoaded = errors.New("render: a model is already uploaded")

type Options struct {
	Scene  config.Scene
	Model  config.Model
	Holder *scene.Holder
	Camera *camera.OrbitCamera
	Logger *slog.Logger
}

type shaderLocs struct {
	viewPos       int32
	lightVP       int32
	tiling        int32
	shininess     int32
	receiveShadow int32
}

// Renderer owns every GPU resource of the session. All methods must run on
// the main thread.
type Renderer struct {
	logger *slog.Logger
	holder *scene.Holder
	camera *camera.OrbitCamera

	shader     rl.Shader
	locs       shaderLocs
	shadowMap  rl.RenderTexture2D
	target     rl.RenderTexture2D
	light      directionalLight
	background rl.Color

	depthMaterial rl.Material

	floor          rl.Model
	floorSurface   *surface
	floorTransform rl.Matrix

	model         rl.Model
	modelLoaded   bool
	assetSurfaces []*surface
	transform     rl.Matrix

	Textures  *Textures
	materials *materials

	overlay func()
}

// New compiles the lighting shader and allocates the shadow map, the floor
// and a drawing buffer matching the current window.
func New(opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Renderer{
		logger:     logger,
		holder:     opts.Holder,
		camera:     opts.Camera,
		light:      newDirectionalLight(opts.Scene.DirectionalLight),
		background: colorOf(config.Hex(opts.Scene.Background, 0xf1f1f1)),
		transform:  modelTransform(opts.Model),
		Textures:   NewTextures(),
	}

	r.shader = rl.LoadShaderFromMemory(lightingVS, lightingFS)
	if !rl.IsShaderValid(r.shader) {
		return nil, errors.New("compile lighting shader")
	}

	// The shadow map rides in the emission slot so DrawMesh binds it.
	locs := unsafe.Slice(r.shader.Locs, rl.ShaderLocMapBrdf+1)
	locs[rl.ShaderLocMapEmission] = rl.GetShaderLocation(r.shader, "shadowMap")
	r.locs = shaderLocs{
		viewPos:       rl.GetShaderLocation(r.shader, "viewPos"),
		lightVP:       rl.GetShaderLocation(r.shader, "matLightVP"),
		tiling:        rl.GetShaderLocation(r.shader, "tiling"),
		shininess:     rl.GetShaderLocation(r.shader, "shininess"),
		receiveShadow: rl.GetShaderLocation(r.shader, "receiveShadow"),
	}

	shadowMap, err := newShadowMap(shadowMapSize(opts.Scene.DirectionalLight))
	if err != nil {
		rl.UnloadShader(r.shader)
		return nil, err
	}
	r.shadowMap = shadowMap
	r.materials = newMaterials(r.shader, r.shadowMap.Depth, r.Textures)
	r.depthMaterial = rl.LoadMaterialDefault()

	r.setSceneUniforms(opts.Scene)
	r.initFloor(opts.Scene.Floor)

	w, h := r.ViewportSize()
	r.allocateTarget(w, h)
	return r, nil
}

func (r *Renderer) setSceneUniforms(cfg config.Scene) {
	dir := r.light.Direction
	r.setVec3("lightDir", []float32{dir.X, dir.Y, dir.Z})
	r.setVec3("lightColor", r.light.colorFloat())

	hemi := cfg.HemisphereLight
	r.setVec3("skyColor", scaledColor(colorOf(config.Hex(hemi.Sky, 0xffffff)), hemi.Intensity))
	r.setVec3("groundColor", scaledColor(colorOf(config.Hex(hemi.Ground, 0xffffff)), hemi.Intensity))

	r.setVec3("fogColor", scaledColor(r.background, 1))
	r.setFloat("fogNear", cfg.FogNear)
	r.setFloat("fogFar", cfg.FogFar)
}

func (r *Renderer) initFloor(cfg config.Floor) {
	r.floor = rl.LoadModelFromMesh(rl.GenMeshPlane(cfg.Size, cfg.Size, 1, 1))
	floorMaterial := material.NewSolid(config.Hex(cfg.Color, 0xcccccc), cfg.Shininess)
	r.floorSurface = r.materials.realize(floorMaterial)
	r.floorTransform = rl.MatrixTranslate(0, cfg.Y, 0)
}

// SetOverlay registers a 2D pass drawn over the scene each frame.
func (r *Renderer) SetOverlay(fn func()) {
	r.overlay = fn
}

// Render draws one frame: the shadow pass, the scene into the drawing
// buffer, then the buffer and the overlay onto the window.
func (r *Renderer) Render() {
	lightVP := r.drawShadowMap()

	pos := r.camera.Position
	rl.SetShaderValue(r.shader, r.locs.viewPos, []float32{pos.X, pos.Y, pos.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValueMatrix(r.shader, r.locs.lightVP, lightVP)

	rl.BeginTextureMode(r.target)
	rl.ClearBackground(r.background)
	rl.BeginMode3D(r.camera.Camera3D())
	rl.SetMatrixProjection(rl.MatrixPerspective(
		r.camera.Fovy*rl.Deg2rad, r.camera.Aspect, r.camera.Near, r.camera.Far,
	))

	r.drawSurface(r.floor.GetMeshes()[0], r.floorSurface, r.floorTransform, true)
	r.drawModel()

	rl.EndMode3D()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(r.background)
	src := rl.Rectangle{
		Width:  float32(r.target.Texture.Width),
		Height: -float32(r.target.Texture.Height),
	}
	vw, vh := r.ViewportSize()
	dst := rl.Rectangle{Width: vw, Height: vh}
	rl.DrawTexturePro(r.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
	if r.overlay != nil {
		r.overlay()
	}
	rl.EndDrawing()
}

// drawModel draws every sub-object of the published model.
func (r *Renderer) drawModel() {
	r.eachObject(func(mesh rl.Mesh, obj *scene.SubObject) {
		r.drawSurface(mesh, r.surfaceFor(obj), r.transform, obj.ReceiveShadow)
	})
}

// drawCasters draws the shadow casters depth-only.
func (r *Renderer) drawCasters() {
	r.eachObject(func(mesh rl.Mesh, obj *scene.SubObject) {
		if obj.CastShadow {
			rl.DrawMesh(mesh, r.depthMaterial, r.transform)
		}
	})
}

func (r *Renderer) eachObject(fn func(rl.Mesh, *scene.SubObject)) {
	if !r.modelLoaded || r.holder == nil {
		return
	}
	meshes := r.model.GetMeshes()
	r.holder.View(func(m *scene.Model) {
		for _, obj := range m.Objects() {
			fn(meshes[obj.Mesh], obj)
		}
	})
}

func (r *Renderer) surfaceFor(obj *scene.SubObject) *surface {
	if d := obj.Material(); d != nil {
		return r.materials.realize(d)
	}
	return r.assetSurfaces[obj.Mesh]
}

func (r *Renderer) drawSurface(mesh rl.Mesh, s *surface, transform rl.Matrix, receiveShadow bool) {
	receive := float32(0)
	if receiveShadow {
		receive = 1
	}
	rl.SetShaderValue(r.shader, r.locs.tiling, s.tiling[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(r.shader, r.locs.shininess, []float32{s.shininess}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.locs.receiveShadow, []float32{receive}, rl.ShaderUniformFloat)
	rl.DrawMesh(mesh, s.mat, transform)
}

// UploadModel loads the model file on the GPU and returns its mesh count.
func (r *Renderer) UploadModel(path string) (int, error) {
	if r.modelLoaded {
		return 0, ErrModelLoaded
	}
	model := rl.LoadModel(path)
	if !rl.IsModelValid(model) {
		return 0, fmt.Errorf("raylib could not load %s", path)
	}

	mats := model.GetMaterials()
	meshMaterial := unsafe.Slice(model.MeshMaterial, model.MeshCount)
	r.assetSurfaces = make([]*surface, model.MeshCount)
	for i, idx := range meshMaterial {
		r.assetSurfaces[i] = r.materials.asset(mats[idx])
	}

	r.model = model
	r.modelLoaded = true
	r.logger.Debug("uploaded model", slog.String("path", path), slog.Int("meshes", int(model.MeshCount)))
	return int(model.MeshCount), nil
}

// ReleaseModel frees the uploaded model, if any.
func (r *Renderer) ReleaseModel() {
	if !r.modelLoaded {
		return
	}
	rl.UnloadModel(r.model)
	r.model = rl.Model{}
	r.assetSurfaces = nil
	r.modelLoaded = false
}

// UploadTexture makes a decoded swatch texture available to materials.
func (r *Renderer) UploadTexture(url string, img image.Image) error {
	_, err := r.Textures.Upload(url, img)
	return err
}

func (r *Renderer) Unload() {
	r.ReleaseModel()
	r.materials.unload()
	rl.UnloadMaterial(r.depthMaterial)
	r.Textures.Unload()
	rl.UnloadModel(r.floor)
	rl.UnloadRenderTexture(r.target)
	rl.UnloadRenderTexture(r.shadowMap)
	rl.UnloadShader(r.shader)
}

func (r *Renderer) setVec3(name string, v []float32) {
	rl.SetShaderValue(r.shader, rl.GetShaderLocation(r.shader, name), v, rl.ShaderUniformVec3)
}

func (r *Renderer) setFloat(name string, v float32) {
	rl.SetShaderValue(r.shader, rl.GetShaderLocation(r.shader, name), []float32{v}, rl.ShaderUniformFloat)
}

// modelTransform applies scale, then yaw, then offset.
func modelTransform(cfg config.Model) rl.Matrix {
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	scaleMatrix := rl.MatrixScale(scale, scale, scale)
	rotMatrix := rl.MatrixRotateY(cfg.RotationY * rl.Deg2rad)
	transMatrix := rl.MatrixTranslate(cfg.Offset[0], cfg.Offset[1], cfg.Offset[2])
	return rl.MatrixMultiply(rl.MatrixMultiply(scaleMatrix, rotMatrix), transMatrix)
}

func (r *Renderer) HasTexture(url string) bool {
	return r.Textures.Has(url)
}
