package frame

// Controls is advanced once per frame before rendering.
type Controls interface {
	Update(deltaTime float32)
}

// Renderer draws one frame into its surface.
type Renderer interface {
	Render()
}

// Camera receives the new aspect ratio after a resize.
type Camera interface {
	SetAspect(aspect float32)
}

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Loop is the self-rescheduling frame driver. It owns no scene state; it
// only sequences controls, rendering, rescheduling and resize handling.
type Loop struct {
	Controls  Controls
	Renderer  Renderer
	Surface   Surface
	Camera    Camera
	Scheduler *Scheduler
	// DeltaTime returns the seconds since the previous frame.
	DeltaTime func() float32

	state  State
	frames uint64
}

// Start requests the first frame. Starting a running loop is a no-op.
func (l *Loop) Start() {
	if l.state == Running {
		return
	}
	l.state = Running
	l.Scheduler.RequestFrame(l.Tick)
}

// Tick runs one iteration. The resize check runs after the next frame is
// requested, so a resize takes effect from the following frame on.
func (l *Loop) Tick() {
	var dt float32
	if l.DeltaTime != nil {
		dt = l.DeltaTime()
	}
	if l.Controls != nil {
		l.Controls.Update(dt)
	}
	l.Renderer.Render()
	l.Scheduler.RequestFrame(l.Tick)
	l.frames++

	if DetectResize(l.Surface) {
		w, h := l.Surface.DrawableSize()
		if h > 0 && l.Camera != nil {
			l.Camera.SetAspect(float32(w) / float32(h))
		}
	}
}

func (l *Loop) State() State {
	return l.state
}

// Frames returns the number of completed ticks.
func (l *Loop) Frames() uint64 {
	return l.frames
}
