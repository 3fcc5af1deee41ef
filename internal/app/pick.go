package app

import (
	"context"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"configurator/internal/assets"
	"configurator/internal/loader"
	"configurator/internal/logging"
	"configurator/internal/material"
	"configurator/internal/parts"
	"configurator/internal/scene"
)

// TextureUploader makes decoded textures available to the renderer. Main
// thread only.
type TextureUploader interface {
	UploadTexture(url string, img image.Image) error
	HasTexture(url string) bool
}

// Pipeline turns swatch picks into material changes on the active part.
// Pick and everything it posts run on the main thread; only fetching and
// decoding happen in the background.
type Pipeline struct {
	ctx      context.Context
	registry *parts.Registry
	holder   *scene.Holder
	fetcher  loader.Fetcher
	poster   loader.Poster
	textures TextureUploader
	logger   *slog.Logger

	// seq counts picks per part; a texture pick only lands if no newer pick
	// for the same part was made meanwhile.
	seq map[parts.ID]uint64

	// decode loads a fetched texture file. Defaults to assets.LoadImage.
	decode func(path string) (image.Image, error)
}

func NewPipeline(ctx context.Context, registry *parts.Registry, holder *scene.Holder, fetcher loader.Fetcher, poster loader.Poster, textures TextureUploader, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ctx:      ctx,
		registry: registry,
		holder:   holder,
		fetcher:  fetcher,
		poster:   poster,
		textures: textures,
		logger:   logger,
		seq:      make(map[parts.ID]uint64),
		decode: func(path string) (image.Image, error) {
			return assets.LoadImage(path, assets.MaxTextureSize)
		},
	}
}

// Pick applies req to the part that is active now. Solid colors apply at
// once; textures apply when their upload finishes, unless a newer pick for
// the same part came first. A failed texture keeps the previous material.
func (p *Pipeline) Pick(req material.Request) {
	part := p.registry.Active().ID
	d, err := material.Build(req)
	if err != nil {
		logging.Report(p.logger, "invalid swatch", err, slog.String("part", string(part)))
		return
	}

	p.seq[part]++
	ticket := p.seq[part]

	if d.Kind == material.Solid || p.textures.HasTexture(d.TextureURL) {
		p.apply(part, d)
		return
	}

	p.loadTexture(d.TextureURL, func(err error) {
		if err != nil {
			return
		}
		if p.seq[part] != ticket {
			p.logger.Debug("stale texture pick discarded", slog.String("part", string(part)), slog.String("url", d.TextureURL))
			return
		}
		p.apply(part, d)
	})
}

func (p *Pipeline) apply(part parts.ID, d *material.Description) {
	if !p.holder.Loaded() {
		p.logger.Debug("pick dropped, model not loaded", slog.String("part", string(part)))
		return
	}
	n := p.holder.Apply(part, d)
	p.logger.Debug("material applied", slog.String("part", string(part)), slog.String("material", d.String()), slog.Int("meshes", n))
}

// loadTexture fetches and decodes url in the background, uploads it on the
// main thread and then calls done there.
func (p *Pipeline) loadTexture(url string, done func(error)) {
	go func() {
		img, err := p.fetchImage(url)
		p.poster.Post(func() {
			done(p.upload(url, img, err))
		})
	}()
}

// upload finishes a background fetch on the main thread. Failures are
// reported as *material.TextureError.
func (p *Pipeline) upload(url string, img image.Image, err error) error {
	if err == nil && !p.textures.HasTexture(url) {
		err = p.textures.UploadTexture(url, img)
	}
	if err != nil {
		err = &material.TextureError{URL: url, Err: err}
		logging.Report(p.logger, "texture failed", err, slog.String("url", url))
	}
	return err
}

func (p *Pipeline) fetchImage(url string) (image.Image, error) {
	path, err := p.fetcher.Fetch(p.ctx, url)
	if err != nil {
		return nil, err
	}
	return p.decode(path)
}

// Prefetch downloads and decodes the swatch textures with at most limit in
// flight, so thumbnails show up and later picks apply without waiting.
// Individual failures are reported and do not stop the others.
func (p *Pipeline) Prefetch(urls []string, limit int) error {
	g, ctx := errgroup.WithContext(p.ctx)
	g.SetLimit(limit)
	for _, url := range urls {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			img, err := p.fetchImage(url)
			p.poster.Post(func() {
				p.upload(url, img, err)
			})
			return nil
		})
	}
	return g.Wait()
}
