package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/material"
)

// surface is a realized material: the raylib material plus the per-draw
// uniforms it needs.
type surface struct {
	mat       rl.Material
	tiling    [2]float32
	shininess float32

	pending string // texture URL still awaiting upload
}

// materials realizes descriptions into raylib materials bound to the
// lighting shader. Equal descriptions share one realization.
type materials struct {
	shader        rl.Shader
	defaultShader rl.Shader
	shadowMap     rl.Texture2D
	textures      *Textures
	cache         map[material.Description]*surface
}

func newMaterials(shader rl.Shader, shadowMap rl.Texture2D, textures *Textures) *materials {
	return &materials{
		shader:    shader,
		shadowMap: shadowMap,
		textures:  textures,
		cache:     make(map[material.Description]*surface),
	}
}

// realize returns the surface for d. A textured description whose texture is
// not uploaded yet draws untextured until the upload lands.
func (m *materials) realize(d *material.Description) *surface {
	if s, ok := m.cache[*d]; ok {
		if s.pending != "" {
			m.bindTexture(s)
		}
		return s
	}

	mat := rl.LoadMaterialDefault()
	if m.defaultShader.ID == 0 {
		m.defaultShader = mat.Shader
	}
	mat.Shader = m.shader
	mat.GetMap(rl.MapDiffuse).Color = colorOf(d.Color)
	mat.GetMap(rl.MapEmission).Texture = m.shadowMap

	s := &surface{
		mat:       mat,
		tiling:    [2]float32{1, 1},
		shininess: d.Shininess,
	}
	if d.Kind == material.Textured {
		mat.GetMap(rl.MapDiffuse).Color = rl.White
		s.tiling = [2]float32{d.Repeat[0], d.Repeat[1]}
		s.pending = d.TextureURL
		m.bindTexture(s)
	}
	m.cache[*d] = s
	return s
}

func (m *materials) bindTexture(s *surface) {
	texture, ok := m.textures.Get(s.pending)
	if !ok {
		return
	}
	s.mat.GetMap(rl.MapDiffuse).Texture = texture
	s.pending = ""
}

// asset wraps a material that came with the model so it draws with the
// lighting shader.
func (m *materials) asset(mat rl.Material) *surface {
	mat.Shader = m.shader
	mat.GetMap(rl.MapEmission).Texture = m.shadowMap
	return &surface{
		mat:       mat,
		tiling:    [2]float32{1, 1},
		shininess: material.DefaultShininess,
	}
}

// unload frees the material maps. The shader and the textures belong to the
// renderer and the texture cache, so they are detached first.
func (m *materials) unload() {
	for key, s := range m.cache {
		s.mat.Shader = m.defaultShader
		s.mat.GetMap(rl.MapDiffuse).Texture = rl.Texture2D{}
		s.mat.GetMap(rl.MapEmission).Texture = rl.Texture2D{}
		rl.UnloadMaterial(s.mat)
		delete(m.cache, key)
	}
}

func colorOf(hex uint32) rl.Color {
	return rl.NewColor(uint8(hex>>16), uint8(hex>>8), uint8(hex), 255)
}
