package frame

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface mimics a canvas: the drawable size only changes through SetSize.
type fakeSurface struct {
	vw, vh   float32
	dw, dh   int32
	ratio    float32
	setCalls int
	log      *[]string
}

func (s *fakeSurface) ViewportSize() (float32, float32) { return s.vw, s.vh }
func (s *fakeSurface) DrawableSize() (int32, int32)     { return s.dw, s.dh }
func (s *fakeSurface) PixelRatio() float32              { return s.ratio }
func (s *fakeSurface) SetSize(w, h float32) {
	s.setCalls++
	s.dw, s.dh = BufferSize(w, h, s.ratio)
	if s.log != nil {
		*s.log = append(*s.log, "resize")
	}
}

func TestDetectResizeOncePerChange(t *testing.T) {
	s := &fakeSurface{vw: 800, vh: 600, dw: 1600, dh: 1200, ratio: 2}
	assert.False(t, DetectResize(s))
	assert.Zero(t, s.setCalls)

	sizes := [][2]float32{{1024, 768}, {1024, 700}, {640, 700}, {1280, 720}}
	for _, sz := range sizes {
		s.vw, s.vh = sz[0], sz[1]
		assert.True(t, DetectResize(s), "%v", sz)
		assert.False(t, DetectResize(s), "%v", sz)
	}
	assert.Equal(t, len(sizes), s.setCalls)
	assert.Equal(t, int32(2560), s.dw)
	assert.Equal(t, int32(1440), s.dh)
}

func TestDetectResizeIsExact(t *testing.T) {
	// 1.5x display: 667 logical pixels need 1001 device pixels, not 1000.
	s := &fakeSurface{vw: 667, vh: 500, dw: 1000, dh: 750, ratio: 1.5}
	assert.True(t, DetectResize(s))
	assert.Equal(t, int32(1001), s.dw)
	assert.False(t, DetectResize(s))
	assert.Equal(t, 1, s.setCalls)
}

func TestDetectResizeSettlesAtFractionalRatio(t *testing.T) {
	// 801x601 at 1.25 is 1001.25x751.25 device pixels; the buffer rounds to
	// 1001x751, which divides back to 800.8x600.8 logical.
	s := &fakeSurface{vw: 801, vh: 601, dw: 1000, dh: 750, ratio: 1.25}
	var resized int
	for range 5 {
		if DetectResize(s) {
			resized++
		}
	}
	assert.Equal(t, 1, resized)
	assert.Equal(t, 1, s.setCalls)
	assert.Equal(t, int32(1001), s.dw)
	assert.Equal(t, int32(751), s.dh)
}

func TestDetectResizeZeroRatio(t *testing.T) {
	s := &fakeSurface{vw: 800, vh: 600, dw: 800, dh: 600}
	assert.False(t, DetectResize(s))
}

func TestBufferSize(t *testing.T) {
	w, h := BufferSize(1280, 720, 1)
	assert.Equal(t, int32(1280), w)
	assert.Equal(t, int32(720), h)

	w, h = BufferSize(1280, 720, 2)
	assert.Equal(t, int32(2560), w)
	assert.Equal(t, int32(1440), h)

	w, h = BufferSize(0, 0, 1.5)
	assert.Equal(t, int32(1), w)
	assert.Equal(t, int32(1), h)

	w, h = BufferSize(801, 601, 1.25)
	assert.Equal(t, int32(1001), w)
	assert.Equal(t, int32(751), h)
}

func TestDetectResizeDoesNotAllocate(t *testing.T) {
	s := &fakeSurface{vw: 800, vh: 600, dw: 800, dh: 600, ratio: 1}
	allocs := testing.AllocsPerRun(100, func() { DetectResize(s) })
	assert.Zero(t, allocs)
}

func TestSchedulerCoalescesAndOrders(t *testing.T) {
	s := NewScheduler()
	var got []string

	s.RequestFrame(func() { got = append(got, "stale") })
	s.RequestFrame(func() { got = append(got, "frame") })
	s.Post(func() { got = append(got, "task") })

	assert.NotNil(t, s.next)
	assert.True(t, s.RunFrame())
	assert.Equal(t, []string{"task", "frame"}, got)

	assert.Nil(t, s.next)
	assert.False(t, s.RunFrame())
}

func TestSchedulerPostFromGoroutines(t *testing.T) {
	s := NewScheduler()
	var wg sync.WaitGroup
	n := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() { n++ })
		}()
	}
	wg.Wait()
	s.RunFrame()
	assert.Equal(t, 20, n)
}

func TestSchedulerClose(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.Post(func() { ran = true })
	s.Close()

	assert.False(t, s.Post(func() { ran = true }))
	assert.False(t, s.RunFrame())
	assert.False(t, ran)
}

type recorder struct {
	log    *[]string
	aspect float32
}

func (r *recorder) Update(dt float32) { *r.log = append(*r.log, "controls") }
func (r *recorder) Render()           { *r.log = append(*r.log, "render") }
func (r *recorder) SetAspect(a float32) {
	r.aspect = a
	*r.log = append(*r.log, "aspect")
}

func newLoop(log *[]string, s *fakeSurface) (*Loop, *recorder) {
	rec := &recorder{log: log}
	return &Loop{
		Controls:  rec,
		Renderer:  rec,
		Surface:   s,
		Camera:    rec,
		Scheduler: NewScheduler(),
		DeltaTime: func() float32 { return 1.0 / 60 },
	}, rec
}

func TestLoopStartsIdleAndRuns(t *testing.T) {
	var log []string
	l, _ := newLoop(&log, &fakeSurface{vw: 800, vh: 600, dw: 800, dh: 600, ratio: 1})
	assert.Equal(t, Idle, l.State())
	assert.Nil(t, l.Scheduler.next)

	l.Start()
	l.Start()
	assert.Equal(t, Running, l.State())

	for i := 0; i < 3; i++ {
		require.True(t, l.Scheduler.RunFrame())
	}
	assert.Equal(t, uint64(3), l.Frames())
	assert.Equal(t, []string{"controls", "render", "controls", "render", "controls", "render"}, log)
	assert.NotNil(t, l.Scheduler.next)
}

func TestLoopResizeUpdatesAspectAfterRender(t *testing.T) {
	var log []string
	s := &fakeSurface{vw: 800, vh: 600, dw: 800, dh: 600, ratio: 1}
	s.log = &log
	l, rec := newLoop(&log, s)
	l.Start()

	s.vw, s.vh = 1200, 600
	l.Scheduler.RunFrame()
	assert.Equal(t, []string{"controls", "render", "resize", "aspect"}, log)
	assert.Equal(t, float32(2), rec.aspect)

	log = log[:0]
	l.Scheduler.RunFrame()
	assert.Equal(t, []string{"controls", "render"}, log)
}
