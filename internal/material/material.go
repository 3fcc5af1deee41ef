// Package material turns swatch picks into immutable surface descriptions.
package material

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultShininess is used for solid colors and for textures without an explicit value.
const DefaultShininess float32 = 10

var (
	ErrEmptyRequest = errors.New("material: request has neither color nor texture")
	ErrInvalidColor = errors.New("material: invalid hex color")
)

type Kind int

const (
	Solid Kind = iota
	Textured
)

func (k Kind) String() string {
	switch k {
	case Solid:
		return "solid"
	case Textured:
		return "textured"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

type WrapMode int

const (
	WrapClamp WrapMode = iota
	WrapRepeat
)

// Wrap holds the texture wrap mode per axis.
type Wrap struct {
	S, T WrapMode
}

// Request is a pick from the swatch tray: either Color or Texture is set.
type Request struct {
	Color     string
	Texture   string
	Size      [3]float32
	Shininess *float32
}

// Description is a renderable surface. It is created once per pick, never
// mutated afterwards, and shared by every sub-object it is applied to.
// Descriptions are comparable, so equal picks can share GPU resources.
type Description struct {
	Kind       Kind
	Color      uint32 // 0xRRGGBB, solid only
	TextureURL string
	Repeat     [3]float32 // only X and Y reach the shader
	Wrap       Wrap
	Shininess  float32
}

// NewSolid returns a solid color description.
func NewSolid(color uint32, shininess float32) *Description {
	return &Description{Kind: Solid, Color: color & 0xffffff, Shininess: shininess}
}

// Build turns a request into a description. Texture requests win over color.
// Build never touches the network; the texture itself is fetched by the caller.
func Build(req Request) (*Description, error) {
	if req.Texture != "" {
		repeat := req.Size
		if repeat == ([3]float32{}) {
			repeat = [3]float32{1, 1, 1}
		}
		shininess := DefaultShininess
		if req.Shininess != nil && *req.Shininess != 0 {
			shininess = *req.Shininess
		}
		return &Description{
			Kind:       Textured,
			TextureURL: req.Texture,
			Repeat:     repeat,
			Wrap:       Wrap{S: WrapRepeat, T: WrapRepeat},
			Shininess:  shininess,
		}, nil
	}

	if req.Color == "" {
		return nil, ErrEmptyRequest
	}
	c, err := ParseHex(req.Color)
	if err != nil {
		return nil, err
	}
	return NewSolid(c, DefaultShininess), nil
}

// ParseHex parses "ff0000" into 0xff0000. One leading "#", "0x" or "0X" is
// accepted.
func ParseHex(s string) (uint32, error) {
	h := strings.TrimSpace(s)
	for _, prefix := range []string{"#", "0x", "0X"} {
		if rest, ok := strings.CutPrefix(h, prefix); ok {
			h = rest
			break
		}
	}
	if h == "" || len(h) > 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return uint32(v), nil
}

func (d *Description) String() string {
	if d.Kind == Textured {
		return fmt.Sprintf("textured(%s x%gx%g shininess=%g)", d.TextureURL, d.Repeat[0], d.Repeat[1], d.Shininess)
	}
	return fmt.Sprintf("solid(%06x shininess=%g)", d.Color, d.Shininess)
}

// TextureError reports a texture that could not be fetched, decoded or uploaded.
type TextureError struct {
	URL string
	Err error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("texture %s: %v", e.URL, e.Err)
}

func (e *TextureError) Unwrap() error {
	return e.Err
}
