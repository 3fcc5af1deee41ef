package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/singleflight"
)

// ErrOffline is returned for a remote asset that is not cached while offline.
var ErrOffline = errors.New("asset not cached and fetching is disabled")

// Fetcher resolves asset URLs to local files. Remote assets are downloaded
// once into the cache directory; local paths are used in place.
type Fetcher struct {
	cacheDir string
	client   *http.Client
	logger   *slog.Logger
	group    singleflight.Group

	// Progress receives download progress bars. Nil disables them.
	Progress io.Writer
	// Offline serves remote assets from the cache only.
	Offline bool
}

// NewFetcher creates the cache directory if needed. An empty cacheDir uses
// the user cache directory.
func NewFetcher(cacheDir string, logger *slog.Logger) (*Fetcher, error) {
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("get user cache dir: %w", err)
		}
		cacheDir = filepath.Join(base, "configurator")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", cacheDir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cacheDir: cacheDir,
		logger:   logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// IsRemote reports whether rawURL must be fetched over HTTP.
func IsRemote(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// CachePath returns where rawURL is stored. The extension of the URL path is
// kept because the model and image loaders dispatch on it.
func (f *Fetcher) CachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:12])
	if u, err := url.Parse(rawURL); err == nil {
		name += strings.ToLower(path.Ext(u.Path))
	}
	return filepath.Join(f.cacheDir, name)
}

// Fetch returns a local path for rawURL. Concurrent fetches of the same URL
// share one download.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !IsRemote(rawURL) {
		local := strings.TrimPrefix(rawURL, "file://")
		if _, err := os.Stat(local); err != nil {
			return "", err
		}
		return local, nil
	}

	cachePath := f.CachePath(rawURL)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}
	if f.Offline {
		return "", fmt.Errorf("%s: %w", rawURL, ErrOffline)
	}

	v, err, _ := f.group.Do(rawURL, func() (any, error) {
		return cachePath, f.download(ctx, rawURL, cachePath)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", rawURL, resp.Status)
	}

	tmpFile, err := os.CreateTemp(f.cacheDir, "fetch_*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	var writer io.Writer = tmpFile
	if f.Progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.Progress),
			progressbar.OptionSetDescription("download "+path.Base(req.URL.Path)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
		writer = io.MultiWriter(tmpFile, bar)
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), cachePath); err != nil {
		os.Remove(tmpFile.Name())
		return fmt.Errorf("finalize cache file: %w", err)
	}

	f.logger.Debug("cached asset", slog.String("url", rawURL), slog.String("cache", cachePath))
	return nil
}
