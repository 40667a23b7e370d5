// Package host holds the state a viewer application shares between its
// canvases: settings, the image cache and the page being shown.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"imhtml/pkg/config"
	"imhtml/pkg/gui"
	"imhtml/pkg/images"
	"imhtml/pkg/resource"
)

// ErrRemote is returned for http and https pages, which are not loaded.
var ErrRemote = errors.New("remote pages are not supported")

// Host resolves document resources against the current page. Documents
// without a <base> element report an empty base URL, so relative
// stylesheets and images are looked up next to the page instead.
type Host struct {
	Settings config.File
	Store    *config.Store
	Images   *images.Cache

	page string
	log  *slog.Logger
}

// New builds a host from settings. upload turns decoded images into GUI
// textures and may be nil.
func New(settings config.File, upload images.Uploader) *Host {
	h := &Host{
		Settings: settings,
		Images:   images.NewCache(upload),
		log:      slog.Default().With("component", "host"),
	}
	cfg := config.New()
	settings.Apply(&cfg)
	h.Images.Install(&cfg)

	load, meta, texture := cfg.LoadImage, cfg.GetImageMeta, cfg.GetImageTexture
	cfg.LoadImage = func(src, baseURL string) { load(src, h.base(baseURL)) }
	cfg.GetImageMeta = func(src, baseURL string) config.ImageMeta { return meta(src, h.base(baseURL)) }
	if texture != nil {
		cfg.GetImageTexture = func(src, baseURL string) gui.TextureID { return texture(src, h.base(baseURL)) }
	}
	cfg.LoadCSS = func(url, baseURL string) string { return resource.FileLoader(url, h.base(baseURL)) }

	h.Store = config.NewStore(cfg)
	return h
}

func (h *Host) base(baseURL string) string {
	if baseURL == "" {
		return h.page
	}
	return baseURL
}

// Page is the absolute path of the current document. It can be handed
// back to Open unchanged, as navigation history does.
func (h *Host) Page() string { return h.page }

// Resolve turns a link found in the current page into a path.
func (h *Host) Resolve(ref string) string { return resource.ResolvePath(h.page, ref) }

// Open reads the document at ref, resolved against the current page, and
// makes it the current page. Reading is synchronous; ctx is checked before
// the file is touched.
func (h *Host) Open(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := ref
	if h.page != "" {
		target = h.Resolve(ref)
	}
	if resource.IsNetworkURL(target) {
		return "", fmt.Errorf("opening %s: %w", target, ErrRemote)
	}
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", target, err)
	}
	h.page = target
	h.log.Info("opened page", "page", target, "bytes", len(data))
	return string(data), nil
}

// Reload rereads the current page and drops cached images so edited files
// are picked up.
func (h *Host) Reload(ctx context.Context) (string, error) {
	h.Images.Clear()
	page := h.page
	h.page = ""
	html, err := h.Open(ctx, page)
	if err != nil {
		h.page = page
	}
	return html, err
}
