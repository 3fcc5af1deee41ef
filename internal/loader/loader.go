// Package loader fetches the product model, indexes its drawables by name and
// publishes the tagged model once the GPU upload succeeds.
package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qmuntal/gltf"

	"configurator/internal/logging"
	"configurator/internal/scene"
)

// LoadError wraps any failure between fetching the model and publishing it.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Fetcher resolves a model URL to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Poster queues work on the main thread.
type Poster interface {
	Post(fn func()) bool
}

// GPU uploads a model file and reports how many meshes it produced. Both
// methods run on the main thread.
type GPU interface {
	UploadModel(path string) (meshes int, err error)
	ReleaseModel()
}

type Loader struct {
	fetcher Fetcher
	poster  Poster
	gpu     GPU
	holder  *scene.Holder
	tagging scene.Tagging
	logger  *slog.Logger
}

func New(fetcher Fetcher, poster Poster, gpu GPU, holder *scene.Holder, tagging scene.Tagging, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fetcher: fetcher,
		poster:  poster,
		gpu:     gpu,
		holder:  holder,
		tagging: tagging,
		logger:  logger,
	}
}

// Load fetches and parses url in the background, then uploads, tags and
// publishes on the main thread. done runs on the main thread with either the
// published model or a *LoadError. done is not called if the poster has shut
// down.
func (l *Loader) Load(ctx context.Context, url string, done func(*scene.Model, error)) {
	go func() {
		names, path, err := l.prepare(ctx, url)
		posted := l.poster.Post(func() {
			var m *scene.Model
			if err == nil {
				m, err = l.publish(path, names)
			}
			if err != nil {
				err = &LoadError{URL: url, Err: err}
				logging.Report(l.logger, "model load failed", err, slog.String("url", url))
			}
			if done != nil {
				done(m, err)
			}
		})
		if !posted {
			l.logger.Debug("model load dropped after shutdown", slog.String("url", url))
		}
	}()
}

func (l *Loader) prepare(ctx context.Context, url string) ([]string, string, error) {
	path, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	names := DrawableNames(doc)
	if len(names) == 0 {
		return nil, "", fmt.Errorf("no triangle meshes in %s", path)
	}
	l.logger.Debug("indexed model", slog.String("url", url), slog.Int("drawables", len(names)))
	return names, path, nil
}

func (l *Loader) publish(path string, names []string) (*scene.Model, error) {
	if l.holder.Loaded() {
		return nil, scene.ErrAlreadyPublished
	}
	meshes, err := l.gpu.UploadModel(path)
	if err != nil {
		return nil, err
	}
	if meshes != len(names) {
		l.gpu.ReleaseModel()
		return nil, fmt.Errorf("engine produced %d meshes, index has %d", meshes, len(names))
	}

	m := scene.Build(names, l.tagging)
	if err := l.holder.Publish(m); err != nil {
		l.gpu.ReleaseModel()
		return nil, err
	}
	for _, id := range m.Unmatched {
		l.logger.Warn("part matched no mesh", slog.String("part", string(id)))
	}
	l.logger.Info("model loaded", slog.Int("meshes", m.Len()), slog.Int("unmatched", len(m.Unmatched)))
	return m, nil
}

// DrawableNames lists one name per triangle primitive in the order raylib's
// glTF importer creates meshes: nodes in document order, then each node's
// primitives. A node without a name takes its mesh's name.
func DrawableNames(doc *gltf.Document) []string {
	var names []string
	for _, node := range doc.Nodes {
		if node == nil || node.Mesh == nil || *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			continue
		}
		mesh := doc.Meshes[*node.Mesh]
		name := node.Name
		if name == "" {
			name = mesh.Name
		}
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}
