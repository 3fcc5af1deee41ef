// Package config loads the configurator settings and part/swatch catalog.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"configurator/internal/material"
	"configurator/internal/parts"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window          Window   `yaml:"window" toml:"window"`
	Scene           Scene    `yaml:"scene" toml:"scene"`
	Camera          Camera   `yaml:"camera" toml:"camera"`
	Controls        Controls `yaml:"controls" toml:"controls"`
	Model           Model    `yaml:"model" toml:"model"`
	InitialMaterial Swatch   `yaml:"initial_material" toml:"initial_material"`
	Parts           []Part   `yaml:"parts" toml:"parts"`
	Swatches        []Swatch `yaml:"swatches" toml:"swatches"`
	CacheDir        string   `yaml:"cache_dir" toml:"cache_dir"`
}

type Window struct {
	Title     string `yaml:"title" toml:"title"`
	Width     int32  `yaml:"width" toml:"width"`
	Height    int32  `yaml:"height" toml:"height"`
	TargetFPS int32  `yaml:"target_fps" toml:"target_fps"`
	MSAA      bool   `yaml:"msaa" toml:"msaa"`
}

type Scene struct {
	Background       string           `yaml:"background" toml:"background"`
	FogNear          float32          `yaml:"fog_near" toml:"fog_near"`
	FogFar           float32          `yaml:"fog_far" toml:"fog_far"`
	Floor            Floor            `yaml:"floor" toml:"floor"`
	HemisphereLight  HemisphereLight  `yaml:"hemisphere_light" toml:"hemisphere_light"`
	DirectionalLight DirectionalLight `yaml:"directional_light" toml:"directional_light"`
}

type Floor struct {
	Size      float32 `yaml:"size" toml:"size"`
	Color     string  `yaml:"color" toml:"color"`
	Shininess float32 `yaml:"shininess" toml:"shininess"`
	Y         float32 `yaml:"y" toml:"y"`
}

type HemisphereLight struct {
	Sky       string  `yaml:"sky" toml:"sky"`
	Ground    string  `yaml:"ground" toml:"ground"`
	Intensity float32 `yaml:"intensity" toml:"intensity"`
}

type DirectionalLight struct {
	Color         string     `yaml:"color" toml:"color"`
	Intensity     float32    `yaml:"intensity" toml:"intensity"`
	Position      [3]float32 `yaml:"position" toml:"position"`
	ShadowMapSize int32      `yaml:"shadow_map_size" toml:"shadow_map_size"`
}

type Camera struct {
	Position [3]float32 `yaml:"position" toml:"position"`
	Fov      float32    `yaml:"fov" toml:"fov"`
	Near     float32    `yaml:"near" toml:"near"`
	Far      float32    `yaml:"far" toml:"far"`
}

type Controls struct {
	MinPolar    float32 `yaml:"min_polar" toml:"min_polar"`
	MaxPolar    float32 `yaml:"max_polar" toml:"max_polar"`
	Damping     float32 `yaml:"damping" toml:"damping"`
	RotateSpeed float32 `yaml:"rotate_speed" toml:"rotate_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed" toml:"zoom_speed"`
	EnableZoom  bool    `yaml:"enable_zoom" toml:"enable_zoom"`
	AutoRotate  bool    `yaml:"auto_rotate" toml:"auto_rotate"`
}

type Model struct {
	URL       string     `yaml:"url" toml:"url"`
	Scale     float32    `yaml:"scale" toml:"scale"`
	Offset    [3]float32 `yaml:"offset" toml:"offset"`
	RotationY float32    `yaml:"rotation_y" toml:"rotation_y"` // degrees
}

// Part is a catalog entry. Meshes optionally names the drawables of the
// part exactly; without it, drawables are matched by substring on the id.
// InitialMaterial overrides the top-level initial_material for this part.
type Part struct {
	ID              string   `yaml:"id" toml:"id"`
	Image           string   `yaml:"image" toml:"image"`
	Meshes          []string `yaml:"meshes,omitempty" toml:"meshes,omitempty"`
	InitialMaterial *Swatch  `yaml:"initial_material,omitempty" toml:"initial_material,omitempty"`
}

// Swatch is one tray entry: a hex color or a tiled texture.
type Swatch struct {
	Color     string     `yaml:"color,omitempty" toml:"color,omitempty"`
	Texture   string     `yaml:"texture,omitempty" toml:"texture,omitempty"`
	Size      [3]float32 `yaml:"size,omitempty" toml:"size,omitempty"`
	Shininess *float32   `yaml:"shininess,omitempty" toml:"shininess,omitempty"`
}

// Request converts the swatch into a material request.
func (s Swatch) Request() material.Request {
	return material.Request{
		Color:     s.Color,
		Texture:   s.Texture,
		Size:      s.Size,
		Shininess: s.Shininess,
	}
}

// Default returns the built-in chair configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Load reads path over the defaults. An empty path returns the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// A file that declares parts or swatches replaces that catalog entirely.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := decode(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, ext string) (*Config, error) {
	cfg := Default()
	defParts, defSwatches := cfg.Parts, cfg.Swatches
	cfg.Parts, cfg.Swatches = nil, nil

	var err error
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Parts == nil {
		cfg.Parts = defParts
	}
	if cfg.Swatches == nil {
		cfg.Swatches = defSwatches
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if c.CacheDir != "" {
		dir, err := homedir.Expand(c.CacheDir)
		if err != nil {
			return fmt.Errorf("cache_dir: %w", err)
		}
		c.CacheDir = dir
	}
	return c.Validate()
}

// Validate checks the invariants the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Model.URL == "" {
		errs = append(errs, errors.New("model.url is required"))
	}
	if len(c.Parts) == 0 {
		errs = append(errs, errors.New("at least one part is required"))
	}
	seen := make(map[string]bool, len(c.Parts))
	for i, p := range c.Parts {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("parts[%d]: id is required", i))
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("parts[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
		if p.InitialMaterial != nil {
			if _, err := material.Build(p.InitialMaterial.Request()); err != nil {
				errs = append(errs, fmt.Errorf("parts[%d].initial_material: %w", i, err))
			}
		}
	}
	for i, s := range c.Swatches {
		if _, err := material.Build(s.Request()); err != nil {
			errs = append(errs, fmt.Errorf("swatches[%d]: %w", i, err))
		}
	}
	if _, err := material.Build(c.InitialMaterial.Request()); err != nil {
		errs = append(errs, fmt.Errorf("initial_material: %w", err))
	}
	if c.Controls.MinPolar > c.Controls.MaxPolar {
		errs = append(errs, errors.New("controls.min_polar must not exceed controls.max_polar"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}
	return errors.Join(errs...)
}

// Entries returns the part catalog for the registry.
func (c *Config) Entries() []parts.Entry {
	out := make([]parts.Entry, len(c.Parts))
	for i, p := range c.Parts {
		out[i] = parts.Entry{ID: parts.ID(p.ID), Image: p.Image}
	}
	return out
}

// Explicit returns the exact mesh-name mapping of parts that declare one.
func (c *Config) Explicit() map[parts.ID][]string {
	out := make(map[parts.ID][]string)
	for _, p := range c.Parts {
		if len(p.Meshes) > 0 {
			out[parts.ID(p.ID)] = p.Meshes
		}
	}
	return out
}

// Initial builds the load-time materials of the parts that override
// initial_material. Parts without an override are absent from the map.
func (c *Config) Initial() (map[parts.ID]*material.Description, error) {
	out := make(map[parts.ID]*material.Description)
	for _, p := range c.Parts {
		if p.InitialMaterial == nil {
			continue
		}
		d, err := material.Build(p.InitialMaterial.Request())
		if err != nil {
			return nil, fmt.Errorf("part %s initial_material: %w", p.ID, err)
		}
		out[parts.ID(p.ID)] = d
	}
	return out, nil
}

// TextureURLs lists every texture the catalog can show: swatches first, then
// per-part initial materials, without duplicates.
func (c *Config) TextureURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(s Swatch) {
		if s.Texture != "" && !seen[s.Texture] {
			seen[s.Texture] = true
			urls = append(urls, s.Texture)
		}
	}
	for _, s := range c.Swatches {
		add(s)
	}
	add(c.InitialMaterial)
	for _, p := range c.Parts {
		if p.InitialMaterial != nil {
			add(*p.InitialMaterial)
		}
	}
	return urls
}

// Hex parses a config color, falling back to fallback when empty or invalid.
func Hex(s string, fallback uint32) uint32 {
	if s == "" {
		return fallback
	}
	v, err := material.ParseHex(s)
	if err != nil {
		return fallback
	}
	return v
}
