package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configurator/internal/material"
	"configurator/internal/parts"
	"configurator/internal/scene"
)

type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fails map[string]error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan struct{}), fails: make(map[string]error)}
}

// gate makes fetches of url block until the returned func is called.
func (f *gatedFetcher) gate(url string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[url] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *gatedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	gate, fail := f.gates[url], f.fails[url]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if fail != nil {
		return "", fail
	}
	return "/cache/" + url, nil
}

type chanPoster struct {
	tasks chan func()
}

func (p *chanPoster) Post(fn func()) bool {
	p.tasks <- fn
	return true
}

func (p *chanPoster) runNext(t *testing.T) {
	t.Helper()
	select {
	case fn := <-p.tasks:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("no task posted")
	}
}

type fakeTextures struct {
	uploaded map[string]bool
}

func (f *fakeTextures) UploadTexture(url string, img image.Image) error {
	f.uploaded[url] = true
	return nil
}

func (f *fakeTextures) HasTexture(url string) bool {
	return f.uploaded[url]
}

type fixture struct {
	registry *parts.Registry
	holder   *scene.Holder
	fetcher  *gatedFetcher
	poster   *chanPoster
	textures *fakeTextures
	pipeline *Pipeline
	logs     *bytes.Buffer
}

var (
	initial = material.NewSolid(0xf1f1f1, material.DefaultShininess)
	wood    = material.Request{Texture: "wood_.jpg", Size: [3]float32{2, 2, 2}}
	denim   = material.Request{Texture: "denim_.jpg"}
	red     = material.Request{Color: "df9998"}
)

func newFixture(t *testing.T, loaded bool) *fixture {
	t.Helper()
	reg, err := parts.New([]parts.Entry{{ID: "legs"}, {ID: "cushions"}}, nil)
	require.NoError(t, err)

	f := &fixture{
		registry: reg,
		holder:   &scene.Holder{},
		fetcher:  newGatedFetcher(),
		poster:   &chanPoster{tasks: make(chan func(), 8)},
		textures: &fakeTextures{uploaded: make(map[string]bool)},
		logs:     &bytes.Buffer{},
	}
	if loaded {
		f.publish(t)
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.pipeline = NewPipeline(context.Background(), reg, f.holder, f.fetcher, f.poster, f.textures, logger)
	f.pipeline.decode = func(path string) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	}
	return f
}

func (f *fixture) publish(t *testing.T) {
	t.Helper()
	m := scene.Build([]string{"legs_front", "legs_back", "cushions_seat"}, scene.Tagging{
		Parts:    f.registry.IDs(),
		Fallback: initial,
	})
	require.NoError(t, f.holder.Publish(m))
}

func (f *fixture) material(part parts.ID) *material.Description {
	return f.holder.Model().Part(part)[0].Material()
}

func TestPickSolidAppliesImmediately(t *testing.T) {
	f := newFixture(t, true)

	f.pipeline.Pick(red)
	assert.Equal(t, uint32(0xdf9998), f.material("legs").Color)
	assert.Equal(t, uint32(0xdf9998), f.holder.Model().Part("legs")[1].Material().Color)
	assert.Same(t, initial, f.material("cushions"))
}

func TestPickTextureAppliesAfterUpload(t *testing.T) {
	f := newFixture(t, true)

	f.pipeline.Pick(wood)
	assert.Same(t, initial, f.material("legs"), "nothing changes until the upload lands")

	f.poster.runNext(t)
	assert.True(t, f.textures.uploaded["wood_.jpg"])
	got := f.material("legs")
	assert.Equal(t, material.Textured, got.Kind)
	assert.Equal(t, [3]float32{2, 2, 2}, got.Repeat)

	// An uploaded texture applies synchronously the next time.
	f.pipeline.Pick(red)
	f.pipeline.Pick(wood)
	assert.Equal(t, material.Textured, f.material("legs").Kind)
}

func TestStaleTexturePickDiscarded(t *testing.T) {
	f := newFixture(t, true)
	release := f.fetcher.gate("wood_.jpg")

	f.pipeline.Pick(wood)
	f.pipeline.Pick(red)
	release()
	f.poster.runNext(t)

	assert.Equal(t, material.Solid, f.material("legs").Kind)
	assert.Equal(t, uint32(0xdf9998), f.material("legs").Color)
	assert.True(t, f.textures.uploaded["wood_.jpg"], "the texture is still cached for later")
	assert.Contains(t, f.logs.String(), "stale texture pick discarded")
}

func TestOutOfOrderTextureCompletion(t *testing.T) {
	f := newFixture(t, true)
	releaseWood := f.fetcher.gate("wood_.jpg")
	releaseDenim := f.fetcher.gate("denim_.jpg")

	f.pipeline.Pick(wood)
	f.pipeline.Pick(denim)

	releaseDenim()
	f.poster.runNext(t)
	assert.Equal(t, "denim_.jpg", f.material("legs").TextureURL)

	releaseWood()
	f.poster.runNext(t)
	assert.Equal(t, "denim_.jpg", f.material("legs").TextureURL, "the latest pick stays")
}

func TestTexturePickTargetsPartActiveAtPickTime(t *testing.T) {
	f := newFixture(t, true)
	release := f.fetcher.gate("wood_.jpg")

	f.pipeline.Pick(wood)
	f.registry.Select("cushions")
	release()
	f.poster.runNext(t)

	assert.Equal(t, "wood_.jpg", f.material("legs").TextureURL)
	assert.Same(t, initial, f.material("cushions"))
}

func TestPicksOnDifferentPartsDoNotInterfere(t *testing.T) {
	f := newFixture(t, true)
	release := f.fetcher.gate("wood_.jpg")

	f.pipeline.Pick(wood)
	f.registry.Select("cushions")
	f.pipeline.Pick(red)
	release()
	f.poster.runNext(t)

	assert.Equal(t, "wood_.jpg", f.material("legs").TextureURL)
	assert.Equal(t, uint32(0xdf9998), f.material("cushions").Color)
}

func TestTextureFailureKeepsPreviousMaterial(t *testing.T) {
	f := newFixture(t, true)
	f.fetcher.fails["wood_.jpg"] = errors.New("404 Not Found")

	f.pipeline.Pick(red)
	f.pipeline.Pick(wood)
	f.poster.runNext(t)

	assert.Equal(t, uint32(0xdf9998), f.material("legs").Color)
	assert.False(t, f.textures.uploaded["wood_.jpg"])
	assert.Contains(t, f.logs.String(), "texture failed")
	assert.Contains(t, f.logs.String(), "wood_.jpg")
}

func TestInvalidSwatchIsReported(t *testing.T) {
	f := newFixture(t, true)

	f.pipeline.Pick(material.Request{Color: "nothex"})
	f.pipeline.Pick(material.Request{})

	assert.Same(t, initial, f.material("legs"))
	assert.Contains(t, f.logs.String(), "invalid swatch")
}

func TestPickBeforeLoadIsDropped(t *testing.T) {
	f := newFixture(t, false)

	f.pipeline.Pick(red)
	assert.Contains(t, f.logs.String(), "pick dropped, model not loaded")

	f.publish(t)
	assert.Same(t, initial, f.material("legs"), "earlier picks are not replayed")
}

func TestPrefetch(t *testing.T) {
	f := newFixture(t, true)
	f.fetcher.fails["quilt_.jpg"] = errors.New("connection reset")

	urls := []string{"wood_.jpg", "denim_.jpg", "quilt_.jpg"}
	done := make(chan error, 1)
	go func() { done <- f.pipeline.Prefetch(urls, 2) }()
	for range urls {
		f.poster.runNext(t)
	}
	require.NoError(t, <-done)

	assert.True(t, f.textures.uploaded["wood_.jpg"])
	assert.True(t, f.textures.uploaded["denim_.jpg"])
	assert.False(t, f.textures.uploaded["quilt_.jpg"])
	assert.Contains(t, f.logs.String(), "quilt_.jpg")

	// Prefetched textures apply without another fetch.
	f.pipeline.Pick(wood)
	assert.Equal(t, "wood_.jpg", f.material("legs").TextureURL)
}
