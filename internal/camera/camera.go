package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const epsilon = 1e-6

// Input is one frame of pointer input, in logical pixels.
type Input struct {
	DragX, DragY float32 // pointer movement while the rotate button is held
	Wheel        float32 // positive scrolls toward the target
	ViewHeight   float32
}

// OrbitCamera is a perspective camera orbiting Target, with damped rotation
// and zoom. Panning is not supported.
type OrbitCamera struct {
	Position rl.Vector3
	Target   rl.Vector3
	Fovy     float32 // degrees
	Near     float32
	Far      float32
	Aspect   float32

	MinPolar      float32
	MaxPolar      float32
	MinDistance   float32
	MaxDistance   float32
	Damping       float32 // 0 disables damping
	RotateSpeed   float32
	ZoomSpeed     float32
	EnableZoom    bool
	EnableRotate  bool
	AutoRotate    bool
	AutoRotateRPM float32

	// Input supplies pointer state each update. Nil means no input.
	Input func() Input

	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

// New returns a camera at position looking at the origin, with the orbit
// limits of the showroom: no looking from below the floor.
func New(position rl.Vector3, aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Position:     position,
		Fovy:         50,
		Near:         0.1,
		Far:          1000,
		Aspect:       aspect,
		MinPolar:     math32.Pi / 3,
		MaxPolar:     math32.Pi / 2,
		MinDistance:  0,
		MaxDistance:  math32.Inf(1),
		Damping:      0.1,
		RotateSpeed:  1,
		ZoomSpeed:    1,
		EnableZoom:   true,
		EnableRotate: true,
		scale:        1,
	}
}

func (c *OrbitCamera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// RotateLeft queues a rotation around the vertical axis, in radians.
func (c *OrbitCamera) RotateLeft(angle float32) {
	c.deltaTheta -= angle
}

// RotateUp queues a change of polar angle, in radians.
func (c *OrbitCamera) RotateUp(angle float32) {
	c.deltaPhi -= angle
}

// Dolly scales the orbit radius on the next update; factor < 1 moves closer.
func (c *OrbitCamera) Dolly(factor float32) {
	if factor > 0 {
		c.scale *= factor
	}
}

// Update consumes input and advances the damped orbit by one frame.
func (c *OrbitCamera) Update(deltaTime float32) {
	if c.Input != nil {
		c.handleInput(c.Input())
	}
	if c.AutoRotate && deltaTime > 0 {
		c.RotateLeft(2 * math32.Pi * c.AutoRotateRPM / 60 * deltaTime)
	}

	offset := rl.Vector3Subtract(c.Position, c.Target)
	radius := rl.Vector3Length(offset)
	var theta, phi float32
	if radius > 0 {
		theta = math32.Atan2(offset.X, offset.Z)
		phi = math32.Acos(clamp(offset.Y/radius, -1, 1))
	}

	if c.Damping > 0 {
		theta += c.deltaTheta * c.Damping
		phi += c.deltaPhi * c.Damping
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}

	phi = clamp(phi, c.MinPolar, c.MaxPolar)
	phi = clamp(phi, epsilon, math32.Pi-epsilon)

	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	sinPhi := math32.Sin(phi)
	c.Position = rl.Vector3Add(c.Target, rl.Vector3{
		X: radius * sinPhi * math32.Sin(theta),
		Y: radius * math32.Cos(phi),
		Z: radius * sinPhi * math32.Cos(theta),
	})

	if c.Damping > 0 {
		c.deltaTheta *= 1 - c.Damping
		c.deltaPhi *= 1 - c.Damping
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
	}
	c.scale = 1
}

func (c *OrbitCamera) handleInput(in Input) {
	h := in.ViewHeight
	if h <= 0 {
		h = 1
	}
	if c.EnableRotate && (in.DragX != 0 || in.DragY != 0) {
		c.RotateLeft(2 * math32.Pi * in.DragX / h * c.RotateSpeed)
		c.RotateUp(2 * math32.Pi * in.DragY / h * c.RotateSpeed)
	}
	if c.EnableZoom && in.Wheel != 0 {
		step := math32.Pow(0.95, c.ZoomSpeed)
		if in.Wheel > 0 {
			c.Dolly(step)
		} else {
			c.Dolly(1 / step)
		}
	}
}

// Camera3D returns the raylib camera for the current orbit.
func (c *OrbitCamera) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     c.Target,
		Up:         rl.Vector3{Y: 1},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
