// Package assets rasterizes the SVG clock theme into engine assets.
package assets

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
)

//go:embed theme/*.svg
var themeFS embed.FS

// Image is a rasterized graphic. Its intrinsic size is the SVG viewBox size,
// independent of the pixel resolution it was rendered at.
type Image struct {
	name   string
	width  float64
	height float64
	img    *image.RGBA
}

// IntrinsicSize returns the natural size of the graphic.
func (i *Image) IntrinsicSize() (float64, float64) { return i.width, i.height }

// Image returns the pixels.
func (i *Image) Image() image.Image { return i.img }

// Name returns the asset name the graphic was loaded under.
func (i *Image) Name() string { return i.name }

// Provider loads named SVG graphics from a file system and caches the rasters.
type Provider struct {
	fsys       fs.FS
	dir        string
	oversample int

	mu    sync.Mutex
	cache map[string]*Image
}

// NewProvider reads "<dir>/<name>.svg" files from fsys.
func NewProvider(fsys fs.FS, dir string) *Provider {
	return &Provider{
		fsys:       fsys,
		dir:        dir,
		oversample: config.AssetOversample,
		cache:      make(map[string]*Image),
	}
}

// Default returns a provider over the embedded theme.
func Default() *Provider {
	return NewProvider(themeFS, config.AssetThemeDir)
}

// Load implements engine.AssetLoader.
func (p *Provider) Load(name string) (engine.Asset, error) {
	p.mu.Lock()
	img, ok := p.cache[name]
	p.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := fs.ReadFile(p.fsys, p.file(name))
	if err != nil {
		return nil, err
	}
	img, err = Rasterize(bytes.NewReader(data), p.oversample)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", config.ErrAssetDecode, name, err)
	}
	img.name = name

	p.mu.Lock()
	defer p.mu.Unlock()
	// A concurrent load of the same name may have won.
	if cached, ok := p.cache[name]; ok {
		return cached, nil
	}
	p.cache[name] = img

	slog.Debug(config.MsgAssetsLoaded,
		config.LogKeyComponent, config.CompAssets,
		config.LogKeyAsset, name,
		config.LogKeyWidth, img.width,
		config.LogKeyHeight, img.height,
	)
	return img, nil
}

// Preload rasterizes the four clock parts concurrently and fills the cache.
// It returns the first error and cancels the remaining loads.
func (p *Provider) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, part := range engine.Parts {
		name := part.String()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := p.Load(name)
			return err
		})
	}
	return g.Wait()
}

// Icon returns the raw dial SVG, used as the application icon.
func (p *Provider) Icon() ([]byte, error) {
	return fs.ReadFile(p.fsys, path.Join(p.dir, config.IconFile))
}

func (p *Provider) file(name string) string {
	return path.Join(p.dir, name+config.AssetExtSVG)
}

// Rasterize decodes an SVG document and renders it at oversample times its viewBox size.
func Rasterize(r io.Reader, oversample int) (*Image, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.StrictErrorMode)
	if err != nil {
		return nil, err
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, errors.New(config.ErrAssetEmpty)
	}
	if oversample < 1 {
		oversample = 1
	}

	pw, ph := int(w)*oversample, int(h)*oversample
	if pw == 0 || ph == 0 {
		return nil, errors.New(config.ErrAssetEmpty)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, pw, ph))
	icon.SetTarget(0, 0, float64(pw), float64(ph))
	scanner := rasterx.NewScannerGV(pw, ph, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1)

	return &Image{width: w, height: h, img: rgba}, nil
}

var _ engine.AssetLoader = (*Provider)(nil)
